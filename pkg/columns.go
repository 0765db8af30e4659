package simtrees

// Numeric covers the cell types a numeric column can be declared with.
type Numeric interface {
	~int32 | ~uint32 | ~float32 | ~float64
}

// Scalar is a single-value column.
type Scalar[T Numeric] struct {
	value T
}

func (c *Scalar[T]) Set(value T) { c.value = value }
func (c *Scalar[T]) Get() T      { return c.value }
func (c *Scalar[T]) Clear()      { var zero T; c.value = zero }

// FixedVector is a column of exactly Len() cells. Assigning a slice of
// any other length fails and leaves the contents untouched.
type FixedVector[T Numeric] struct {
	buf []T
}

func NewFixedVector[T Numeric](n int) FixedVector[T] {
	return FixedVector[T]{buf: make([]T, n)}
}

func (c *FixedVector[T]) Set(values []T) error {
	if len(values) != len(c.buf) {
		return &ErrLengthMismatch{Want: len(c.buf), Got: len(values)}
	}
	copy(c.buf, values)
	return nil
}

func (c *FixedVector[T]) At(i int) T { return c.buf[i] }
func (c *FixedVector[T]) Len() int   { return len(c.buf) }

// Slice returns a copy of the contents.
func (c *FixedVector[T]) Slice() []T {
	return append(c.buf[:0:0], c.buf...)
}

func (c *FixedVector[T]) Clear() {
	for i := range c.buf {
		var zero T
		c.buf[i] = zero
	}
}

// VarVector is a variable-length column. Set replaces the contents
// entirely, Append grows them.
type VarVector[T Numeric] struct {
	elems []T
}

func (c *VarVector[T]) Set(values []T) {
	c.elems = append(c.elems[:0:0], values...)
}

func (c *VarVector[T]) Append(values ...T) {
	c.elems = append(c.elems, values...)
}

func (c *VarVector[T]) At(i int) T { return c.elems[i] }
func (c *VarVector[T]) Len() int   { return len(c.elems) }

// Slice returns a copy of the contents.
func (c *VarVector[T]) Slice() []T {
	return append(c.elems[:0:0], c.elems...)
}

func (c *VarVector[T]) Clear() { c.elems = nil }

// VarVector2D is a variable-length column of variable-length vectors,
// used for traces and longitudinal profiles. Inner vectors are copied
// on the way in and out, the column never aliases caller memory.
type VarVector2D[T Numeric] struct {
	elems [][]T
}

func (c *VarVector2D[T]) Set(values [][]T) {
	elems := make([][]T, len(values))
	for i, inner := range values {
		elems[i] = append(inner[:0:0], inner...)
	}
	c.elems = elems
}

// Append adds one inner vector at the end of the column.
func (c *VarVector2D[T]) Append(inner []T) {
	c.elems = append(c.elems, append(inner[:0:0], inner...))
}

func (c *VarVector2D[T]) At(i int) []T {
	return append(c.elems[i][:0:0], c.elems[i]...)
}

func (c *VarVector2D[T]) Len() int { return len(c.elems) }

// Slice returns a deep copy of the contents.
func (c *VarVector2D[T]) Slice() [][]T {
	out := make([][]T, len(c.elems))
	for i, inner := range c.elems {
		out[i] = append(inner[:0:0], inner...)
	}
	return out
}

func (c *VarVector2D[T]) Clear() { c.elems = nil }

// StringScalar is a single-string column.
type StringScalar struct {
	value string
}

func (c *StringScalar) Set(value string) { c.value = value }
func (c *StringScalar) Get() string      { return c.value }
func (c *StringScalar) Clear()           { c.value = "" }

// StringVector is a variable-length string column. It only supports
// full assignment, elements cannot be appended one by one.
type StringVector struct {
	elems []string
}

func (c *StringVector) Set(values []string) {
	c.elems = append(c.elems[:0:0], values...)
}

func (c *StringVector) At(i int) string { return c.elems[i] }
func (c *StringVector) Len() int        { return len(c.elems) }

// Slice returns a copy of the contents.
func (c *StringVector) Slice() []string {
	return append(c.elems[:0:0], c.elems...)
}

func (c *StringVector) Clear() { c.elems = nil }

// convertSlice narrows a float64 slice, the shape encoding/json decodes
// numeric arrays to, into the column's declared cell type. Values are
// converted with Go's usual conversion rounding.
func convertSlice[T Numeric](values []float64) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}

func convertSlice2D[T Numeric](values [][]float64) [][]T {
	out := make([][]T, len(values))
	for i, inner := range values {
		out[i] = convertSlice[T](inner)
	}
	return out
}
