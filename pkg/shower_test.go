package simtrees

import (
	"errors"
	"testing"
)

func TestShowerRecordIdentity(t *testing.T) {
	r := NewShowerRecord()
	if got := r.TreeType(); got != "rawshower" {
		t.Errorf("TreeType() = %q, want rawshower", got)
	}
	if got := r.TreeName(); got != "trawshower" {
		t.Errorf("TreeName() = %q, want trawshower", got)
	}
}

func TestShowerValidateParallelPrimaries(t *testing.T) {
	r := NewShowerRecord()
	r.EnergyPrimary.Set([]float32{1e9, 2e9})
	r.PrimaryType.Set([]string{"proton", "iron"})
	r.PrimInjPointShc.Set([][]float32{{0, 0, 1e5}, {0, 0, 2e5}})

	if err := r.Validate(); err != nil {
		t.Fatalf("Validate on aligned record: %v", err)
	}
	if got := r.PrimaryCount(); got != 2 {
		t.Errorf("PrimaryCount() = %d, want 2", got)
	}

	// Empty per-primary columns are fine, misaligned ones are not.
	r.PrimInjAltShc.Clear()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate with an empty optional column: %v", err)
	}

	r.PrimaryType.Set([]string{"proton"})
	err := r.Validate()
	var mismatch *ErrLengthMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("Validate on misaligned record = %v, want ErrLengthMismatch", err)
	}
	if mismatch.Field != "primary_type" {
		t.Errorf("Field = %q, want primary_type", mismatch.Field)
	}
}
