package precheck

// ItemKind identifies a pipeline-support object the precheck service can
// report as missing.  The tag values are part of the service contract.
type ItemKind int

const (
	ItemKindUnknown ItemKind = iota
	ItemKindBlobLinkedService
	ItemKindSnowflakeLinkedService
	ItemKindSourceDataset
	ItemKindSinkDataset
)

const (
	blobLinkedServiceTag      = "blob_linked_service"
	snowflakeLinkedServiceTag = "snowflake_linked_service"
	sourceDatasetTag          = "source_dataset"
	sinkDatasetTag            = "sink_dataset"
)

func ItemKindFromTag(tag string) ItemKind {
	switch tag {
	case blobLinkedServiceTag:
		return ItemKindBlobLinkedService
	case snowflakeLinkedServiceTag:
		return ItemKindSnowflakeLinkedService
	case sourceDatasetTag:
		return ItemKindSourceDataset
	case sinkDatasetTag:
		return ItemKindSinkDataset
	default:
		return ItemKindUnknown
	}
}

func (k ItemKind) String() string {
	switch k {
	case ItemKindBlobLinkedService:
		return blobLinkedServiceTag
	case ItemKindSnowflakeLinkedService:
		return snowflakeLinkedServiceTag
	case ItemKindSourceDataset:
		return sourceDatasetTag
	case ItemKindSinkDataset:
		return sinkDatasetTag
	default:
		return "unknown"
	}
}

// MissingItem is one entry of summary.missing in a precheck report.
type MissingItem struct {
	Item     string                 `json:"item"`
	Status   string                 `json:"status,omitempty"`
	HowToFix string                 `json:"how_to_fix,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

func (m MissingItem) Kind() ItemKind {
	return ItemKindFromTag(m.Item)
}

type Summary struct {
	Present []string      `json:"present"`
	Missing []MissingItem `json:"missing"`
	Errors  []MissingItem `json:"errors"`
}

// Report is the precheck service response.  Only the summary drives the
// fixer; the full items list is kept for display.
type Report struct {
	Status  string                   `json:"status,omitempty"`
	Summary Summary                  `json:"summary"`
	Items   []map[string]interface{} `json:"items,omitempty"`
}

// Converged reports whether nothing is missing and nothing errored.
func (r *Report) Converged() bool {
	return len(r.Summary.Missing) == 0 && len(r.Summary.Errors) == 0
}
