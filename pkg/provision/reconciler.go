package provision

import (
	"context"
	"fmt"

	"github.com/autoflowhq/autoflow/pkg/logging"
)

// Status is the outcome of a single ensure-exists call.
type Status int

const (
	StatusExists Status = iota
	StatusCreated
)

func (s Status) String() string {
	switch s {
	case StatusExists:
		return "exists"
	case StatusCreated:
		return "created"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Ensurer checks one cloud resource and creates it when absent.  Ensure must
// be idempotent: a second call on an existing resource reports StatusExists
// and performs no mutation.
type Ensurer interface {
	Kind() string
	Ensure(ctx context.Context) (Status, error)
}

// Reconciler walks an ordered list of ensurers and halts on the first
// failure.  There is no rollback; re-running the whole provisioning flow is
// the recovery mechanism, which the idempotent ensurers make safe.
type Reconciler struct {
	ensurers []Ensurer
	log      logging.Logger
}

func NewReconciler(log logging.Logger, ensurers ...Ensurer) *Reconciler {
	return &Reconciler{
		ensurers: ensurers,
		log:      log,
	}
}

func (r *Reconciler) Run(ctx context.Context) error {
	for _, e := range r.ensurers {
		log := r.log.WithField(logging.ResourceFieldKey, e.Kind())
		status, err := e.Ensure(ctx)
		if err != nil {
			log.WithError(err).Error("ensure resource")
			return fmt.Errorf("ensure %s: %w", e.Kind(), err)
		}
		log.WithField("status", status.String()).Info("ensure resource")
	}
	return nil
}
