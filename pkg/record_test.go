package simtrees

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetFieldScalar(t *testing.T) {
	r := NewShowerRecord()

	// Exact type and the float64 shape JSON numbers decode to.
	if err := r.SetField("zenith", float32(85.3)); err != nil {
		t.Fatalf("SetField(zenith, float32): %v", err)
	}
	if got := r.Zenith.Get(); got != 85.3 {
		t.Errorf("Zenith = %v, want 85.3", got)
	}

	if err := r.SetField("unix_date", float64(1690000000)); err != nil {
		t.Fatalf("SetField(unix_date, float64): %v", err)
	}
	if got := r.UnixDate.Get(); got != 1690000000 {
		t.Errorf("UnixDate = %v, want 1690000000", got)
	}
}

func TestSetFieldUnknown(t *testing.T) {
	r := NewShowerRecord()
	err := r.SetField("no_such_column", 1.0)
	var unknown *ErrUnknownField
	if !errors.As(err, &unknown) {
		t.Fatalf("SetField on unknown name = %v, want ErrUnknownField", err)
	}
	if unknown.Field != "no_such_column" {
		t.Errorf("Field = %q, want no_such_column", unknown.Field)
	}
}

func TestSetFieldRejectsWrongTypeWithoutMutation(t *testing.T) {
	r := NewShowerRecord()
	if err := r.SetField("energy_primary", []float32{1.5, 2.5}); err != nil {
		t.Fatalf("SetField(energy_primary): %v", err)
	}

	err := r.SetField("energy_primary", map[string]int{"a": 1})
	var invalid *ErrInvalidColumnType
	if !errors.As(err, &invalid) {
		t.Fatalf("SetField with a map = %v, want ErrInvalidColumnType", err)
	}
	if diff := cmp.Diff([]float32{1.5, 2.5}, r.EnergyPrimary.Slice()); diff != "" {
		t.Errorf("rejected Set must not touch the column (-want +got):\n%s", diff)
	}
}

func TestSetFieldAllOrNothingFixedVector(t *testing.T) {
	r := NewShowerRecord()
	if err := r.SetField("magnetic_field", []float32{1, 2, 3}); err != nil {
		t.Fatalf("SetField(magnetic_field): %v", err)
	}

	err := r.SetField("magnetic_field", []float32{1, 2})
	var mismatch *ErrLengthMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("SetField with 2 values = %v, want ErrLengthMismatch", err)
	}
	if mismatch.Field != "magnetic_field" {
		t.Errorf("Field = %q, want magnetic_field", mismatch.Field)
	}
	if diff := cmp.Diff([]float32{1, 2, 3}, r.MagneticField.Slice()); diff != "" {
		t.Errorf("rejected Set must not touch the column (-want +got):\n%s", diff)
	}
}

func TestSetFieldEmptyJSONArray(t *testing.T) {
	// encoding/json decodes [] to []any, normalized to []float64{}
	// upstream; every variable-length kind accepts it as "no values".
	r := NewEfieldRecord()
	r.DuName.Set([]string{"DU01"})
	r.TraceX.Set([][]float32{{1}})

	if err := r.SetField("du_name", []float64{}); err != nil {
		t.Fatalf("SetField(du_name, empty): %v", err)
	}
	if r.DuName.Len() != 0 {
		t.Errorf("du_name.Len() = %d, want 0", r.DuName.Len())
	}
	if err := r.SetField("trace_x", []float64{}); err != nil {
		t.Fatalf("SetField(trace_x, empty): %v", err)
	}
	if r.TraceX.Len() != 0 {
		t.Errorf("trace_x.Len() = %d, want 0", r.TraceX.Len())
	}
	if err := r.SetField("du_id", []float64{}); err != nil {
		t.Fatalf("SetField(du_id, empty): %v", err)
	}

	// Fixed-width columns still require their declared length.
	shower := NewShowerRecord()
	var mismatch *ErrLengthMismatch
	if err := shower.SetField("magnetic_field", []float64{}); !errors.As(err, &mismatch) {
		t.Errorf("SetField(magnetic_field, empty) = %v, want ErrLengthMismatch", err)
	}
}

func TestAppendField(t *testing.T) {
	r := NewEfieldRecord()

	if err := r.AppendField("du_id", int32(1)); err != nil {
		t.Fatalf("AppendField(du_id): %v", err)
	}
	if err := r.AppendField("du_id", float64(2)); err != nil {
		t.Fatalf("AppendField(du_id, float64): %v", err)
	}
	if diff := cmp.Diff([]int32{1, 2}, r.DuID.Slice()); diff != "" {
		t.Errorf("du_id (-want +got):\n%s", diff)
	}

	if err := r.AppendField("trace_x", []float32{0.1, 0.2}); err != nil {
		t.Fatalf("AppendField(trace_x): %v", err)
	}
	if r.TraceX.Len() != 1 {
		t.Errorf("TraceX.Len() = %d, want 1", r.TraceX.Len())
	}
}

func TestAppendFieldUnsupported(t *testing.T) {
	r := NewShowerRecord()

	var unsupported *ErrAppendUnsupported
	if err := r.AppendField("zenith", float32(1)); !errors.As(err, &unsupported) {
		t.Errorf("AppendField on a scalar = %v, want ErrAppendUnsupported", err)
	}
	if err := r.AppendField("primary_type", "proton"); !errors.As(err, &unsupported) {
		t.Errorf("AppendField on a string vector = %v, want ErrAppendUnsupported", err)
	}
}

func TestGetFieldRoundTrip(t *testing.T) {
	r := NewEfieldRecord()
	if err := r.SetField("trace_x", [][]float64{{0.1, 0.2}, {0.3}, {0.4, 0.5, 0.6}}); err != nil {
		t.Fatalf("SetField(trace_x): %v", err)
	}

	got, err := r.GetField("trace_x")
	if err != nil {
		t.Fatalf("GetField(trace_x): %v", err)
	}
	traces, ok := got.([][]float32)
	if !ok {
		t.Fatalf("GetField(trace_x) = %T, want [][]float32", got)
	}
	if diff := cmp.Diff([]float32{0.4, 0.5, 0.6}, traces[2]); diff != "" {
		t.Errorf("trace of the third unit (-want +got):\n%s", diff)
	}
}

func TestClearFields(t *testing.T) {
	r := NewEfieldRecord()
	r.DuID.Set([]int32{1, 2, 3})
	r.EfieldSim.Set("ZHAireS")
	r.TPre.Set(-100)

	r.ClearFields()

	if r.DuID.Len() != 0 {
		t.Errorf("DuID.Len() = %d after Clear, want 0", r.DuID.Len())
	}
	if got := r.EfieldSim.Get(); got != "" {
		t.Errorf("EfieldSim = %q after Clear, want empty", got)
	}
	if got := r.TPre.Get(); got != 0 {
		t.Errorf("TPre = %v after Clear, want 0", got)
	}
}

func TestFieldNamesSorted(t *testing.T) {
	r := NewZHAireSExtra()
	names := r.FieldNames()
	want := []string{
		"electron_energy_cut",
		"gamma_energy_cut",
		"meson_energy_cut",
		"muon_energy_cut",
		"nucleon_energy_cut",
		"param_key",
		"param_value",
		"relative_thining",
		"weight_factor",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("FieldNames (-want +got):\n%s", diff)
	}
}
