package simtrees

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestWriter creates a writer on a throwaway file, skipping the
// test when the HDF5 library is not usable on the machine.
func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "events.h5")
	w, err := NewWriter(fname)
	if err != nil {
		t.Skipf("hdf5 storage unavailable: %v", err)
	}
	return w, fname
}

func twoUnitEvent() *EfieldRecord {
	r := NewEfieldRecord()
	r.EfieldSim.Set("ZHAireS 1.0.30a")
	r.DuID.Set([]int32{5, 6})
	r.DuName.Set([]string{"DU05", "DU06"})
	r.DuCount.Set(2)
	r.T0.Set([]float32{15, 25})
	r.TraceX.Set([][]float32{{1.5}, {2.5, 3.5}})
	r.TraceY.Set([][]float32{{0}, {0, 0}})
	r.TraceZ.Set([][]float32{{0}, {0, 0}})
	return r
}

func TestWriteReadRoundTrip(t *testing.T) {
	w, fname := newTestWriter(t)

	first := threeUnitEvent()
	first.EfieldSim.Set("ZHAireS 1.0.30a")
	if err := w.FillEfield(first); err != nil {
		t.Fatalf("FillEfield(first): %v", err)
	}
	// A later, smaller event has to fit the dims established by the
	// first one and come back with its own exact lengths.
	if err := w.FillEfield(twoUnitEvent()); err != nil {
		t.Fatalf("FillEfield(second): %v", err)
	}

	shower := NewShowerRecord()
	shower.ShowerSim.Set("Aires 19.04.08")
	shower.Zenith.Set(85.3)
	shower.EnergyPrimary.Set([]float32{1.5e9})
	shower.PrimaryType.Set([]string{"proton"})
	shower.LongDepth.Set([][]float32{{100, 200, 300}})
	if err := w.FillShower(shower); err != nil {
		t.Fatalf("FillShower: %v", err)
	}

	zhaires := NewZHAireSExtra()
	zhaires.RelativeThining.Set("1e-4")
	if err := zhaires.SetParameters([]string{"GroundAltitude"}, []string{"1264 m"}); err != nil {
		t.Fatalf("SetParameters: %v", err)
	}
	if err := w.FillZhaires(zhaires); err != nil {
		t.Fatalf("FillZhaires: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(fname)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	n, err := r.NumEfieldEntries()
	if err != nil {
		t.Fatalf("NumEfieldEntries: %v", err)
	}
	if n != 2 {
		t.Fatalf("NumEfieldEntries = %d, want 2", n)
	}

	got0, err := r.GetEfieldEntry(0)
	if err != nil {
		t.Fatalf("GetEfieldEntry(0): %v", err)
	}
	if diff := cmp.Diff([]int32{1, 2, 3}, got0.DuID.Slice()); diff != "" {
		t.Errorf("du_id (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"DU01", "DU02", "DU03"}, got0.DuName.Slice()); diff != "" {
		t.Errorf("du_name (-want +got):\n%s", diff)
	}
	// Traces come back with their exact per-unit lengths, not padded
	// to the widest one.
	want0 := [][]float32{{0.1, 0.2}, {0.3}, {0.4, 0.5, 0.6}}
	if diff := cmp.Diff(want0, got0.TraceX.Slice()); diff != "" {
		t.Errorf("trace_x of event 0 (-want +got):\n%s", diff)
	}

	got1, err := r.GetEfieldEntry(1)
	if err != nil {
		t.Fatalf("GetEfieldEntry(1): %v", err)
	}
	if diff := cmp.Diff([]int32{5, 6}, got1.DuID.Slice()); diff != "" {
		t.Errorf("du_id of event 1 (-want +got):\n%s", diff)
	}
	// The string table carries both events; each read only sees its own.
	if diff := cmp.Diff([]string{"DU05", "DU06"}, got1.DuName.Slice()); diff != "" {
		t.Errorf("du_name of event 1 (-want +got):\n%s", diff)
	}
	want1 := [][]float32{{1.5}, {2.5, 3.5}}
	if diff := cmp.Diff(want1, got1.TraceX.Slice()); diff != "" {
		t.Errorf("trace_x of event 1 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{15, 25}, got1.T0.Slice()); diff != "" {
		t.Errorf("t_0 of event 1 (-want +got):\n%s", diff)
	}

	gotShower, err := r.GetShowerEntry(0)
	if err != nil {
		t.Fatalf("GetShowerEntry: %v", err)
	}
	if got := gotShower.Zenith.Get(); got != float32(85.3) {
		t.Errorf("zenith = %v, want 85.3", got)
	}
	if diff := cmp.Diff([]string{"proton"}, gotShower.PrimaryType.Slice()); diff != "" {
		t.Errorf("primary_type (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float32{{100, 200, 300}}, gotShower.LongDepth.Slice()); diff != "" {
		t.Errorf("long_depth (-want +got):\n%s", diff)
	}

	gotZhaires, err := r.GetZhairesEntry(0)
	if err != nil {
		t.Fatalf("GetZhairesEntry: %v", err)
	}
	if got := gotZhaires.RelativeThining.Get(); got != "1e-4" {
		t.Errorf("relative_thining = %q, want 1e-4", got)
	}
	if got := gotZhaires.Parameters()["GroundAltitude"]; got != "1264 m" {
		t.Errorf("GroundAltitude = %q, want \"1264 m\"", got)
	}
}

func TestFillEfieldRejectsLargerEvent(t *testing.T) {
	w, _ := newTestWriter(t)
	defer w.Close()

	if err := w.FillEfield(twoUnitEvent()); err != nil {
		t.Fatalf("FillEfield(first): %v", err)
	}

	// The first event froze trace_x at [2, 2]; a wider trace must be
	// refused instead of silently truncated.
	big := NewEfieldRecord()
	big.DuID.Set([]int32{9})
	big.DuCount.Set(1)
	big.TraceX.Set([][]float32{{1, 2, 3}})
	big.TraceY.Set([][]float32{{0, 0, 0}})
	big.TraceZ.Set([][]float32{{0, 0, 0}})

	err := w.FillEfield(big)
	var shape *ErrTraceShape
	if !errors.As(err, &shape) {
		t.Fatalf("FillEfield with a wider trace = %v, want ErrTraceShape", err)
	}
	if shape.Dataset != "trace_x" {
		t.Errorf("Dataset = %q, want trace_x", shape.Dataset)
	}
}

func TestFillEfieldRefusesMisalignedRecord(t *testing.T) {
	w, _ := newTestWriter(t)
	defer w.Close()

	r := NewEfieldRecord()
	r.DuID.Set([]int32{1, 2})
	r.DuCount.Set(1)

	err := w.FillEfield(r)
	var mismatch *ErrLengthMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("FillEfield on misaligned record = %v, want ErrLengthMismatch", err)
	}
	if w.EfieldCount != 0 {
		t.Errorf("EfieldCount = %d after a refused fill, want 0", w.EfieldCount)
	}
}
