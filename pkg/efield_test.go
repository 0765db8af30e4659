package simtrees

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// threeUnitEvent builds an aligned event with three detector units and
// traces of different lengths.
func threeUnitEvent() *EfieldRecord {
	r := NewEfieldRecord()
	r.DuID.Set([]int32{1, 2, 3})
	r.DuName.Set([]string{"DU01", "DU02", "DU03"})
	r.DuCount.Set(3)
	r.T0.Set([]float32{10, 20, 30})
	r.TraceX.Set([][]float32{{0.1, 0.2}, {0.3}, {0.4, 0.5, 0.6}})
	r.TraceY.Set([][]float32{{0, 0}, {0}, {0, 0, 0}})
	r.TraceZ.Set([][]float32{{0, 0}, {0}, {0, 0, 0}})
	return r
}

func TestEfieldRecordIdentity(t *testing.T) {
	r := NewEfieldRecord()
	if got := r.TreeType(); got != "rawefield" {
		t.Errorf("TreeType() = %q, want rawefield", got)
	}
	if got := r.TreeName(); got != "trawefield" {
		t.Errorf("TreeName() = %q, want trawefield", got)
	}
}

func TestEfieldValidate(t *testing.T) {
	r := threeUnitEvent()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate on aligned record: %v", err)
	}

	var mismatch *ErrLengthMismatch

	r.T0.Set([]float32{10, 20})
	if err := r.Validate(); !errors.As(err, &mismatch) {
		t.Fatalf("Validate with 2 t_0 for 3 units = %v, want ErrLengthMismatch", err)
	}
	if mismatch.Field != "t_0" || mismatch.Want != 3 || mismatch.Got != 2 {
		t.Errorf("mismatch = %+v, want t_0 3/2", mismatch)
	}

	r.T0.Clear()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate with t_0 empty: %v", err)
	}

	r.DuCount.Set(2)
	if err := r.Validate(); !errors.As(err, &mismatch) {
		t.Fatalf("Validate with du_count=2 = %v, want ErrLengthMismatch", err)
	}

	r.DuCount.Set(3)
	r.P2P.Set([]float32{1, 2, 3})
	if err := r.Validate(); !errors.As(err, &mismatch) {
		t.Fatalf("Validate with 3 p2p values = %v, want ErrLengthMismatch", err)
	}
	if mismatch.Field != "p2p" || mismatch.Want != 12 {
		t.Errorf("mismatch = %+v, want p2p with want 12", mismatch)
	}
}

func TestComputeP2P(t *testing.T) {
	r := NewEfieldRecord()
	r.DuID.Set([]int32{1, 2})
	r.DuCount.Set(2)
	r.TraceX.Set([][]float32{{1, -1, 0}, {2, 0, 0}})
	r.TraceY.Set([][]float32{{0, 0, 0}, {0, -3, 0}})
	r.TraceZ.Set([][]float32{{0, 0, 0}, {0, 0, 0}})

	if err := ComputeP2P(r); err != nil {
		t.Fatalf("ComputeP2P: %v", err)
	}

	// Layout is four blocks of du_count entries: x, y, z, modulus.
	// Unit 1 modulus is {1,1,0}, unit 2 modulus is {2,3,0}.
	want := []float32{
		2, 2, // x
		0, 3, // y
		0, 0, // z
		1, 3, // modulus
	}
	if diff := cmp.Diff(want, r.P2P.Slice(), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("p2p (-want +got):\n%s", diff)
	}

	if err := r.Validate(); err != nil {
		t.Errorf("Validate after ComputeP2P: %v", err)
	}
}

func TestComputeP2PModulus(t *testing.T) {
	r := NewEfieldRecord()
	r.DuID.Set([]int32{7})
	r.DuCount.Set(1)
	r.TraceX.Set([][]float32{{3, 0}})
	r.TraceY.Set([][]float32{{4, 0}})
	r.TraceZ.Set([][]float32{{0, 0}})

	if err := ComputeP2P(r); err != nil {
		t.Fatalf("ComputeP2P: %v", err)
	}
	// Modulus trace is {5, 0}, so its peak-to-peak is 5.
	if got := r.P2P.At(3); math.Abs(float64(got)-5) > 1e-6 {
		t.Errorf("modulus p2p = %v, want 5", got)
	}
}

func TestComputeP2PMismatchedAxes(t *testing.T) {
	r := NewEfieldRecord()
	r.DuID.Set([]int32{1})
	r.DuCount.Set(1)
	r.TraceX.Set([][]float32{{1, 2, 3}})
	r.TraceY.Set([][]float32{{1, 2}})
	r.TraceZ.Set([][]float32{{1, 2, 3}})

	var mismatch *ErrLengthMismatch
	if err := ComputeP2P(r); !errors.As(err, &mismatch) {
		t.Fatalf("ComputeP2P with uneven axes = %v, want ErrLengthMismatch", err)
	}
	if r.P2P.Len() != 0 {
		t.Errorf("p2p filled despite the error, Len() = %d", r.P2P.Len())
	}
}

func TestFillDUGeometry(t *testing.T) {
	units := map[int32]DUInfo{
		1: {ID: 1, Name: "DU01", X: 100, Y: 0, Z: 1200},
		3: {ID: 3, Name: "DU03", X: -50, Y: 75, Z: 1210},
	}

	r := NewEfieldRecord()
	r.DuID.Set([]int32{3, 1})
	if err := FillDUGeometry(r, units); err != nil {
		t.Fatalf("FillDUGeometry: %v", err)
	}
	if diff := cmp.Diff([]string{"DU03", "DU01"}, r.DuName.Slice()); diff != "" {
		t.Errorf("du_name (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{-50, 100}, r.DuX.Slice()); diff != "" {
		t.Errorf("du_x (-want +got):\n%s", diff)
	}

	r.DuID.Set([]int32{2})
	if err := FillDUGeometry(r, units); err == nil {
		t.Fatal("FillDUGeometry with an unknown unit should fail")
	}
}

func TestSortedDUIDs(t *testing.T) {
	units := map[int32]DUInfo{
		12: {ID: 12}, 3: {ID: 3}, 7: {ID: 7},
	}
	if diff := cmp.Diff([]int32{3, 7, 12}, SortedDUIDs(units)); diff != "" {
		t.Errorf("SortedDUIDs (-want +got):\n%s", diff)
	}
}
