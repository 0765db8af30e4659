package simtrees

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// fieldBinding is the dynamic access point of one column. set replaces
// the column contents entirely or fails before mutating anything;
// append is nil for columns that only support full assignment.
type fieldBinding struct {
	set      func(value any) error
	appendTo func(value any) error
	get      func() any
	clear    func()
}

type fieldTable map[string]*fieldBinding

// recordBase gives a record its schema identity and name-based field
// access. The type tag and storage name are fixed at construction.
type recordBase struct {
	treeType string
	treeName string
	fields   fieldTable
}

// TreeType returns the schema variant tag, e.g. "rawshower".
func (r *recordBase) TreeType() string {
	return r.treeType
}

// TreeName returns the target table name, e.g. "trawshower".
func (r *recordBase) TreeName() string {
	return r.treeName
}

// FieldNames returns the stable field names of the schema, sorted.
func (r *recordBase) FieldNames() []string {
	names := maps.Keys(r.fields)
	slices.Sort(names)
	return names
}

// SetField replaces the named column's contents with value. The value
// has to be one of the column's accepted input shapes; on rejection the
// column keeps its prior contents.
func (r *recordBase) SetField(name string, value any) error {
	f, ok := r.fields[name]
	if !ok {
		return &ErrUnknownField{Field: name}
	}
	return f.set(value)
}

// AppendField appends value to the named variable-length column.
func (r *recordBase) AppendField(name string, value any) error {
	f, ok := r.fields[name]
	if !ok {
		return &ErrUnknownField{Field: name}
	}
	if f.appendTo == nil {
		return &ErrAppendUnsupported{Field: name}
	}
	return f.appendTo(value)
}

// GetField returns the named column's contents: the scalar value for
// scalar columns, []T for vector columns and [][]T for vectors of
// vectors.
func (r *recordBase) GetField(name string) (any, error) {
	f, ok := r.fields[name]
	if !ok {
		return nil, &ErrUnknownField{Field: name}
	}
	return f.get(), nil
}

// ClearFields resets every column to its default value.
func (r *recordBase) ClearFields() {
	for _, f := range r.fields {
		f.clear()
	}
}

// The bind* helpers construct the per-kind validation gates. Accepted
// inputs are the column's exact Go type, float64-typed values (what
// encoding/json produces for numbers, converted to the declared column
// width) and a column of the same kind. Anything else is rejected with
// ErrInvalidColumnType before the column is touched.

func bindScalar[T Numeric](name string, c *Scalar[T]) *fieldBinding {
	return &fieldBinding{
		set: func(value any) error {
			if v, ok := value.(T); ok {
				c.Set(v)
				return nil
			}
			if v, ok := value.(float64); ok {
				c.Set(T(v))
				return nil
			}
			if v, ok := value.(*Scalar[T]); ok {
				c.Set(v.Get())
				return nil
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		get:   func() any { return c.Get() },
		clear: c.Clear,
	}
}

func bindFixedVector[T Numeric](name string, c *FixedVector[T]) *fieldBinding {
	set := func(values []T) error {
		if err := c.Set(values); err != nil {
			if lm, ok := err.(*ErrLengthMismatch); ok {
				return &ErrLengthMismatch{Field: name, Want: lm.Want, Got: lm.Got}
			}
			return err
		}
		return nil
	}
	return &fieldBinding{
		set: func(value any) error {
			if v, ok := value.([]T); ok {
				return set(v)
			}
			if v, ok := value.([]float64); ok {
				return set(convertSlice[T](v))
			}
			if v, ok := value.(*FixedVector[T]); ok {
				return set(v.Slice())
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		get:   func() any { return c.Slice() },
		clear: c.Clear,
	}
}

func bindVarVector[T Numeric](name string, c *VarVector[T]) *fieldBinding {
	return &fieldBinding{
		set: func(value any) error {
			if v, ok := value.([]T); ok {
				c.Set(v)
				return nil
			}
			if v, ok := value.([]float64); ok {
				c.Set(convertSlice[T](v))
				return nil
			}
			if v, ok := value.(*VarVector[T]); ok {
				c.Set(v.Slice())
				return nil
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		appendTo: func(value any) error {
			if v, ok := value.(T); ok {
				c.Append(v)
				return nil
			}
			if v, ok := value.(float64); ok {
				c.Append(T(v))
				return nil
			}
			if v, ok := value.([]T); ok {
				c.Append(v...)
				return nil
			}
			if v, ok := value.([]float64); ok {
				c.Append(convertSlice[T](v)...)
				return nil
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		get:   func() any { return c.Slice() },
		clear: c.Clear,
	}
}

func bindVarVector2D[T Numeric](name string, c *VarVector2D[T]) *fieldBinding {
	return &fieldBinding{
		set: func(value any) error {
			if v, ok := value.([][]T); ok {
				c.Set(v)
				return nil
			}
			if v, ok := value.([][]float64); ok {
				c.Set(convertSlice2D[T](v))
				return nil
			}
			// An empty JSON array decodes without an element type.
			if v, ok := value.([]float64); ok && len(v) == 0 {
				c.Set(nil)
				return nil
			}
			if v, ok := value.(*VarVector2D[T]); ok {
				c.Set(v.Slice())
				return nil
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		appendTo: func(value any) error {
			if v, ok := value.([]T); ok {
				c.Append(v)
				return nil
			}
			if v, ok := value.([]float64); ok {
				c.Append(convertSlice[T](v))
				return nil
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		get:   func() any { return c.Slice() },
		clear: c.Clear,
	}
}

func bindString(name string, c *StringScalar) *fieldBinding {
	return &fieldBinding{
		set: func(value any) error {
			if v, ok := value.(string); ok {
				c.Set(v)
				return nil
			}
			if v, ok := value.(*StringScalar); ok {
				c.Set(v.Get())
				return nil
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		get:   func() any { return c.Get() },
		clear: c.Clear,
	}
}

func bindStringVector(name string, c *StringVector) *fieldBinding {
	return &fieldBinding{
		set: func(value any) error {
			if v, ok := value.([]string); ok {
				c.Set(v)
				return nil
			}
			// An empty JSON array decodes without an element type.
			if v, ok := value.([]float64); ok && len(v) == 0 {
				c.Set(nil)
				return nil
			}
			if v, ok := value.(*StringVector); ok {
				c.Set(v.Slice())
				return nil
			}
			return &ErrInvalidColumnType{Field: name, Value: value}
		},
		get:   func() any { return c.Slice() },
		clear: c.Clear,
	}
}
