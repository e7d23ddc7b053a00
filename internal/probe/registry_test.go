package probe

import (
	"context"
	"errors"
	"testing"

	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

type staticProbe struct {
	result Result
	err    error
}

func (s staticProbe) Scan(context.Context) (Result, error) {
	return s.result, s.err
}

func staticFactory(result Result, err error) Factory {
	return func(ScanContext) Probe { return staticProbe{result: result, err: err} }
}

func TestNewRegistryOrdersByID(t *testing.T) {
	reg, err := NewRegistry(
		Descriptor{ID: 3, Name: "Gamma", New: staticFactory("c", nil)},
		Descriptor{ID: 1, Name: "Alpha", New: staticFactory("a", nil)},
		Descriptor{ID: 2, Name: "Beta", New: staticFactory("b", nil)},
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	list := reg.ListAvailable()
	if len(list) != 3 || reg.Len() != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(list))
	}
	for i, want := range []string{"Alpha", "Beta", "Gamma"} {
		if list[i].Name != want || list[i].ID != i+1 {
			t.Fatalf("position %d = %d/%s, want %d/%s", i, list[i].ID, list[i].Name, i+1, want)
		}
	}

	// callers cannot reorder the registry through the returned slice
	list[0], list[2] = list[2], list[0]
	if reg.ListAvailable()[0].Name != "Alpha" {
		t.Fatal("ListAvailable must return a copy")
	}
}

func TestNewRegistryRejectsInvalidDescriptors(t *testing.T) {
	ok := Descriptor{ID: 1, Name: "Alpha", New: staticFactory(nil, nil)}

	tests := []struct {
		name  string
		descs []Descriptor
	}{
		{"zero id", []Descriptor{{ID: 0, Name: "Zero", New: staticFactory(nil, nil)}}},
		{"negative id", []Descriptor{{ID: -4, Name: "Neg", New: staticFactory(nil, nil)}}},
		{"missing name", []Descriptor{{ID: 2, New: staticFactory(nil, nil)}}},
		{"missing factory", []Descriptor{{ID: 2, Name: "NoFactory"}}},
		{"duplicate id", []Descriptor{ok, {ID: 1, Name: "Other", New: staticFactory(nil, nil)}}},
		{"duplicate name", []Descriptor{ok, {ID: 2, Name: "Alpha", New: staticFactory(nil, nil)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.descs...)
			if !errors.Is(err, sharedErrors.ErrInvalidProbe) {
				t.Fatalf("expected ErrInvalidProbe, got %v", err)
			}
			if reg != nil {
				t.Fatal("expected no registry on error")
			}
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry(Descriptor{ID: 5, Name: "Five", New: staticFactory(nil, nil)})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	d, err := reg.Lookup(NullID)
	if err != nil || !d.IsNull() || d.Name != "No test" {
		t.Fatalf("Lookup(0) = %+v, %v; want null descriptor", d, err)
	}

	d, err = reg.Lookup(5)
	if err != nil || d.Name != "Five" {
		t.Fatalf("Lookup(5) = %+v, %v", d, err)
	}

	if _, err := reg.Lookup(6); !errors.Is(err, sharedErrors.ErrProbeNotFound) {
		t.Fatalf("expected ErrProbeNotFound, got %v", err)
	}
}

func TestRegistrySelect(t *testing.T) {
	reg, err := NewRegistry(
		Descriptor{ID: 1, Name: "Alpha", New: staticFactory(nil, nil)},
		Descriptor{ID: 2, Name: "Beta", New: staticFactory(nil, nil)},
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	selected, err := reg.Select([]int{2, 0, 1, 2})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(selected) != 2 || selected[0].Name != "Beta" || selected[1].Name != "Alpha" {
		t.Fatalf("unexpected selection %+v", selected)
	}

	if _, err := reg.Select([]int{1, 9}); !errors.Is(err, sharedErrors.ErrProbeNotFound) {
		t.Fatalf("expected ErrProbeNotFound, got %v", err)
	}
}
