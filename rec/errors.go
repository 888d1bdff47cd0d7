package rec

import (
	"fmt"
	"strconv"
	"strings"
)

// EOFError indicates that the input ended before a field could be read.
type EOFError struct {
	// Offset is the byte offset of the field.
	Offset int64

	// Needed is the number of bytes required by the field.
	Needed int
}

func (err EOFError) Error() string {
	return fmt.Sprintf("unexpected end of input at %d: need %d bytes", err.Offset, err.Needed)
}

// TagError indicates that a magic string or tag did not have the expected
// value.
type TagError struct {
	Offset int64

	// Expected lists the accepted values.
	Expected []string

	Found string
}

func (err TagError) Error() string {
	quoted := make([]string, len(err.Expected))
	for i, s := range err.Expected {
		quoted[i] = strconv.Quote(s)
	}
	return fmt.Sprintf("tag at %d: expected %s, found %q", err.Offset, strings.Join(quoted, " or "), err.Found)
}

// ConstraintError indicates that a field did not have one of its required
// values.
type ConstraintError struct {
	Offset int64

	// Field names the field.
	Field string

	// Expected lists the accepted values.
	Expected []uint64

	Actual uint64
}

func (err ConstraintError) Error() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s at %d: expected ", err.Field, err.Offset)
	for i, v := range err.Expected {
		if i > 0 {
			s.WriteString(" or ")
		}
		fmt.Fprintf(&s, "0x%X", v)
	}
	fmt.Fprintf(&s, ", got 0x%X", err.Actual)
	return s.String()
}

// VariantError indicates that none of the alternative layouts of a record
// matched its discriminant.
type VariantError struct {
	Offset int64

	// Record describes the kind of record, such as "item".
	Record string

	// Discriminant is the value that selects the layout: a chunk tag, or a
	// number formatted in hexadecimal.
	Discriminant string
}

func (err VariantError) Error() string {
	return fmt.Sprintf("unknown %s variant at %d: %s", err.Record, err.Offset, err.Discriminant)
}

// LengthError indicates that a list did not contain the required number of
// entries.
type LengthError struct {
	Offset int64

	Expected int
	Actual   int

	// Cause is the error that ended the list early.
	Cause error
}

func (err LengthError) Error() string {
	s := fmt.Sprintf("list at %d: expected %d entries, got %d", err.Offset, err.Expected, err.Actual)
	if err.Cause != nil {
		s += ": " + err.Cause.Error()
	}
	return s
}

func (err LengthError) Unwrap() error {
	return err.Cause
}

// ChunkError indicates an error that occurred within a chunk.
type ChunkError struct {
	// Offset is the position of the chunk within the input.
	Offset int64

	// Tag is the kind and type of the chunk, as far as they could be read.
	Tag string

	Cause error
}

func (err ChunkError) Error() string {
	return fmt.Sprintf("%q chunk at %d: %s", err.Tag, err.Offset, err.Cause.Error())
}

func (err ChunkError) Unwrap() error {
	return err.Cause
}

// LengthWarning indicates that the children of a folder did not occupy the
// number of bytes given by the folder's Length. It is reported as a warning
// because the folder's Length is not otherwise relied upon.
type LengthWarning struct {
	Offset int64
	Tag    string

	Length uint32
	Actual int64
}

func (err LengthWarning) Error() string {
	return fmt.Sprintf("%q chunk at %d: length is %d, children occupy %d bytes", err.Tag, err.Offset, err.Length, err.Actual)
}
