package diff

import (
	"reflect"

	"ms-composer/internal/models"
)

// Registry holds the canonical snapshot per step: the last normalized value
// that is known to be persisted backend-side. It is the diff baseline that
// makes re-visiting an unmodified step a no-op write.
type Registry struct {
	snapshots map[models.Step]interface{}
}

func NewRegistry() *Registry {
	return &Registry{snapshots: make(map[models.Step]interface{})}
}

// Changed reports whether the normalized value differs from the canonical
// snapshot. A step with no snapshot yet always counts as changed.
func (r *Registry) Changed(step models.Step, normalized interface{}) bool {
	snapshot, ok := r.snapshots[step]
	if !ok {
		return true
	}
	return !reflect.DeepEqual(snapshot, normalized)
}

// Set refreshes the canonical snapshot after a successful write, so a second
// unmodified save is again suppressed.
func (r *Registry) Set(step models.Step, normalized interface{}) {
	r.snapshots[step] = normalized
}

func (r *Registry) Has(step models.Step) bool {
	_, ok := r.snapshots[step]
	return ok
}

func (r *Registry) Clear(step models.Step) {
	delete(r.snapshots, step)
}
