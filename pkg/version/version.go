package version

var (
	UnreleasedVersion = "dev"
	// Version is the release version, set at build time via ldflags.
	Version = "dev"
)

func IsVersionUnreleased() bool {
	return Version == UnreleasedVersion
}
