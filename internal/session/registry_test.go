package session

import (
	"testing"

	"github.com/google/uuid"
)

func TestRegistryPutGetTake(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()
	e := NewEntry(id, 1, nil, nil)

	if got := r.Get(id); got != nil {
		t.Fatalf("Get on empty registry = %v, want nil", got)
	}

	r.Put(e)
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if got := r.Get(id); got != e {
		t.Errorf("Get returned wrong entry")
	}

	taken, ok := r.Take(id)
	if !ok || taken != e {
		t.Fatalf("Take = (%v, %v), want entry", taken, ok)
	}
	if r.Len() != 0 {
		t.Errorf("Len() after Take = %d, want 0", r.Len())
	}
	if _, ok := r.Take(id); ok {
		t.Errorf("second Take must miss")
	}
}
