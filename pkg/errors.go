package simtrees

import "fmt"

// ErrInvalidColumnType reports a value whose type is not in the
// accepted set of the column it was assigned to.
type ErrInvalidColumnType struct {
	Field string
	Value any
}

func (e *ErrInvalidColumnType) Error() string {
	return fmt.Sprintf("invalid type %T for column %q", e.Value, e.Field)
}

// ErrUnknownField reports access to a name not present in the schema.
type ErrUnknownField struct {
	Field string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// ErrAppendUnsupported reports an append on a column that only
// supports full assignment.
type ErrAppendUnsupported struct {
	Field string
}

func (e *ErrAppendUnsupported) Error() string {
	return fmt.Sprintf("column %q does not support append", e.Field)
}

// ErrLengthMismatch reports a length that does not match the declared
// or expected one. Field is empty when raised by a bare column.
type ErrLengthMismatch struct {
	Field string
	Want  int
	Got   int
}

func (e *ErrLengthMismatch) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("length mismatch: want %d, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("length mismatch on column %q: want %d, got %d", e.Field, e.Want, e.Got)
}

// ErrOpenFile represents an error when opening a tree file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrCreateTable represents an error when creating a table or dataset.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error { return e.Err }

// ErrTraceShape reports an event whose variable-length columns do not
// fit the dataset dimensions established by the first event of the file.
type ErrTraceShape struct {
	Dataset string
	Want    []uint
	Got     []uint
}

func (e *ErrTraceShape) Error() string {
	return fmt.Sprintf("dataset %q: event shape %v does not fit established shape %v", e.Dataset, e.Got, e.Want)
}
