package probe

import (
	"fmt"
	"sort"

	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

// Registry is the fixed table of available probes. It is built once at
// start-up and never changes afterwards.
type Registry struct {
	descriptors []Descriptor
	byID        map[int]Descriptor
}

// NewRegistry validates and registers descs. Every descriptor needs a
// positive unique ID, a unique display name, and a factory.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make([]Descriptor, 0, len(descs)),
		byID:        make(map[int]Descriptor, len(descs)),
	}
	names := make(map[string]int, len(descs))

	for _, d := range descs {
		switch {
		case d.ID <= NullID:
			return nil, fmt.Errorf("%w: %q: id must be positive, got %d", sharedErrors.ErrInvalidProbe, d.Name, d.ID)
		case d.Name == "":
			return nil, fmt.Errorf("%w: probe %d has no display name", sharedErrors.ErrInvalidProbe, d.ID)
		case d.New == nil:
			return nil, fmt.Errorf("%w: %q has no factory", sharedErrors.ErrInvalidProbe, d.Name)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", sharedErrors.ErrInvalidProbe, d.ID)
		}
		if other, dup := names[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q registered as %d and %d", sharedErrors.ErrInvalidProbe, d.Name, other, d.ID)
		}

		names[d.Name] = d.ID
		r.byID[d.ID] = d
		r.descriptors = append(r.descriptors, d)
	}

	sort.Slice(r.descriptors, func(i, j int) bool {
		return r.descriptors[i].ID < r.descriptors[j].ID
	})
	return r, nil
}

// ListAvailable returns every registered descriptor ordered by ID.
func (r *Registry) ListAvailable() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Lookup resolves id. NullID resolves to NullDescriptor.
func (r *Registry) Lookup(id int) (Descriptor, error) {
	if id == NullID {
		return NullDescriptor, nil
	}
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %d", sharedErrors.ErrProbeNotFound, id)
	}
	return d, nil
}

// Select resolves ids in order, skipping NullID and repeated ids.
func (r *Registry) Select(ids []int) ([]Descriptor, error) {
	seen := make(map[int]struct{}, len(ids))
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		d, err := r.Lookup(id)
		if err != nil {
			return nil, err
		}
		if d.IsNull() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// Len returns the number of registered probes.
func (r *Registry) Len() int {
	return len(r.descriptors)
}
