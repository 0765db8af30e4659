package simtrees

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScalarSetReplaces(t *testing.T) {
	var c Scalar[float32]
	c.Set(1.5)
	c.Set(85.3)
	if got := c.Get(); got != 85.3 {
		t.Errorf("Get() = %v, want 85.3", got)
	}
	c.Clear()
	if got := c.Get(); got != 0 {
		t.Errorf("Get() after Clear = %v, want 0", got)
	}
}

func TestFixedVectorLength(t *testing.T) {
	c := NewFixedVector[float32](3)
	if err := c.Set([]float32{1, 2}); err == nil {
		t.Fatal("Set with 2 values on a 3-cell column should fail")
	}
	if diff := cmp.Diff([]float32{0, 0, 0}, c.Slice()); diff != "" {
		t.Errorf("contents changed by rejected Set (-want +got):\n%s", diff)
	}

	if err := c.Set([]float32{1, 2, 3}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if diff := cmp.Diff([]float32{1, 2, 3}, c.Slice()); diff != "" {
		t.Errorf("contents (-want +got):\n%s", diff)
	}
	c.Clear()
	if diff := cmp.Diff([]float32{0, 0, 0}, c.Slice()); diff != "" {
		t.Errorf("Clear keeps the declared length (-want +got):\n%s", diff)
	}
}

func TestVarVectorSetReplacesAppendGrows(t *testing.T) {
	var c VarVector[int32]
	c.Set([]int32{1, 2})
	c.Set([]int32{7})
	if diff := cmp.Diff([]int32{7}, c.Slice()); diff != "" {
		t.Errorf("Set should replace, not merge (-want +got):\n%s", diff)
	}

	c.Append(8, 9)
	if diff := cmp.Diff([]int32{7, 8, 9}, c.Slice()); diff != "" {
		t.Errorf("Append should accumulate (-want +got):\n%s", diff)
	}

	c.Set([]int32{42})
	if diff := cmp.Diff([]int32{42}, c.Slice()); diff != "" {
		t.Errorf("Set after Append should reset (-want +got):\n%s", diff)
	}
}

func TestVarVectorDoesNotAliasInput(t *testing.T) {
	in := []float32{1, 2, 3}
	var c VarVector[float32]
	c.Set(in)
	in[0] = 99
	if got := c.At(0); got != 1 {
		t.Errorf("At(0) = %v after mutating the input slice, want 1", got)
	}
}

func TestVarVector2D(t *testing.T) {
	var c VarVector2D[float32]
	c.Set([][]float32{{0.1, 0.2}, {0.3}})
	c.Append([]float32{0.4, 0.5, 0.6})

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if diff := cmp.Diff([]float32{0.4, 0.5, 0.6}, c.At(2)); diff != "" {
		t.Errorf("At(2) (-want +got):\n%s", diff)
	}

	inner := c.At(0)
	inner[0] = 99
	if got := c.At(0)[0]; got != 0.1 {
		t.Errorf("At must return a copy, got %v after mutation", got)
	}

	c.Set([][]float32{{7}})
	if c.Len() != 1 {
		t.Errorf("Set should replace, Len() = %d, want 1", c.Len())
	}
}

func TestStringColumns(t *testing.T) {
	var s StringScalar
	s.Set("Aires")
	s.Set("ZHAireS")
	if got := s.Get(); got != "ZHAireS" {
		t.Errorf("Get() = %q, want ZHAireS", got)
	}

	var v StringVector
	v.Set([]string{"proton", "iron"})
	if diff := cmp.Diff([]string{"proton", "iron"}, v.Slice()); diff != "" {
		t.Errorf("contents (-want +got):\n%s", diff)
	}
	v.Clear()
	if v.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", v.Len())
	}
}

func TestConvertSliceRounds(t *testing.T) {
	got := convertSlice[int32]([]float64{1.0, 2.9, -3.1})
	if diff := cmp.Diff([]int32{1, 2, -3}, got); diff != "" {
		t.Errorf("convertSlice (-want +got):\n%s", diff)
	}
}
