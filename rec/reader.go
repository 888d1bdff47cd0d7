package rec

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/anaminus/parse"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var (
	utf8Text  encoding.Encoding = unicode.UTF8
	utf16Text encoding.Encoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
)

// decodeText decodes b to a string. Invalid sequences are replaced with
// U+FFFD.
func decodeText(enc encoding.Encoding, b []byte) string {
	s, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(utf8.RuneError)
	}
	return string(s)
}

////////////////////////////////////////////////////////////////

// cursor is a position within an input buffer. The buffer is never modified.
type cursor struct {
	buf []byte
	off int
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

// remaining returns the number of bytes after the cursor.
func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

// peek returns the next n bytes without consuming them. ok is false if fewer
// than n bytes remain.
func (c *cursor) peek(n int) (b []byte, ok bool) {
	if c.remaining() < n {
		return c.buf[c.off:], false
	}
	return c.buf[c.off : c.off+n], true
}

// at returns whether the bytes after the cursor begin with tag.
func (c *cursor) at(tag string) bool {
	b, ok := c.peek(len(tag))
	return ok && string(b) == tag
}

// rewind moves the cursor back to off if *err is not nil. Decoders defer it
// so that a failed decode leaves the cursor where it started.
func (c *cursor) rewind(off int, err *error) {
	if *err != nil {
		c.off = off
	}
}

// frame begins reading a run of fields at the cursor.
func (c *cursor) frame() *frame {
	rest := c.buf[c.off:]
	return &frame{
		c:    c,
		fr:   parse.NewBinaryReader(bytes.NewReader(rest)),
		size: len(rest),
	}
}

////////////////////////////////////////////////////////////////

// frame reads a run of fields. Each read method returns true if the read
// failed, after which every further read also fails. The cursor advances only
// when the frame ends without error.
type frame struct {
	c    *cursor
	fr   *parse.BinaryReader
	size int
}

// pos returns the absolute offset of the next byte to be read.
func (f *frame) pos() int64 {
	return int64(f.c.off) + f.fr.N()
}

func (f *frame) fail(err error) (failed bool) {
	f.fr.Add(0, err)
	return true
}

// need fails unless n more bytes are available.
func (f *frame) need(n int) (failed bool) {
	if f.fr.Err() != nil {
		return true
	}
	if f.size-int(f.fr.N()) < n {
		return f.fail(EOFError{Offset: f.pos(), Needed: n})
	}
	return false
}

// end finishes the frame, advancing the cursor past the bytes that were read
// if no read failed.
func (f *frame) end() error {
	n, err := f.fr.End()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return EOFError{Offset: f.pos(), Needed: 1}
		}
		return err
	}
	f.c.off += int(n)
	return nil
}

func (f *frame) u8(v *uint8) (failed bool) {
	return f.need(1) || f.fr.Number(v)
}

func (f *frame) u16(v *uint16) (failed bool) {
	return f.need(2) || f.fr.Number(v)
}

func (f *frame) u32(v *uint32) (failed bool) {
	return f.need(4) || f.fr.Number(v)
}

func (f *frame) u64(v *uint64) (failed bool) {
	return f.need(8) || f.fr.Number(v)
}

// block reads len(p) raw bytes into p.
func (f *frame) block(p []byte) (failed bool) {
	return f.need(len(p)) || f.fr.Bytes(p)
}

// bytes reads n raw bytes.
func (f *frame) bytes(n int, v *[]byte) (failed bool) {
	if f.need(n) {
		return true
	}
	b := make([]byte, n)
	if f.fr.Bytes(b) {
		return true
	}
	*v = b
	return false
}

// bytes16 reads raw bytes prefixed by a 16-bit length.
func (f *frame) bytes16(v *[]byte) (failed bool) {
	var n uint16
	if f.u16(&n) {
		return true
	}
	return f.bytes(int(n), v)
}

// tag reads a fixed-length ASCII tag.
func (f *frame) tag(n int, v *string) (failed bool) {
	var b []byte
	if f.bytes(n, &b) {
		return true
	}
	*v = string(b)
	return false
}

// expect reads a tag and fails unless it is one of the given values, which
// must all have the same length.
func (f *frame) expect(v *string, tags ...string) (failed bool) {
	off := f.pos()
	if f.tag(len(tags[0]), v) {
		return true
	}
	for _, tag := range tags {
		if *v == tag {
			return false
		}
	}
	return f.fail(TagError{Offset: off, Expected: tags, Found: *v})
}

// verify16 reads a uint16 and fails unless it equals want.
func (f *frame) verify16(field string, want uint16) (failed bool) {
	off := f.pos()
	var v uint16
	if f.u16(&v) {
		return true
	}
	if v != want {
		return f.fail(ConstraintError{Offset: off, Field: field, Expected: []uint64{uint64(want)}, Actual: uint64(v)})
	}
	return false
}

// verify32 reads a uint32 and fails unless it equals one of want.
func (f *frame) verify32(field string, v *uint32, want ...uint32) (failed bool) {
	off := f.pos()
	if f.u32(v) {
		return true
	}
	for _, w := range want {
		if *v == w {
			return false
		}
	}
	expected := make([]uint64, len(want))
	for i, w := range want {
		expected[i] = uint64(w)
	}
	return f.fail(ConstraintError{Offset: off, Field: field, Expected: expected, Actual: uint64(*v)})
}

// utf8 reads a UTF-8 string prefixed by its length in bytes.
func (f *frame) utf8(v *string) (failed bool) {
	var n uint32
	if f.u32(&n) {
		return true
	}
	var b []byte
	if f.bytes(int(n), &b) {
		return true
	}
	*v = decodeText(utf8Text, b)
	return false
}

// utf16 reads a UTF-16 string prefixed by its length in code units.
func (f *frame) utf16(v *string) (failed bool) {
	var n uint32
	if f.u32(&n) {
		return true
	}
	var b []byte
	if f.bytes(int(n)*2, &b) {
		return true
	}
	*v = decodeText(utf16Text, b)
	return false
}

// utf16z reads a UTF-16 string terminated by a null code unit. The
// terminator is consumed but not included in the string.
func (f *frame) utf16z(v *string) (failed bool) {
	var b []byte
	for {
		var unit uint16
		if f.u16(&unit) {
			return true
		}
		if unit == 0 {
			break
		}
		b = append(b, byte(unit), byte(unit>>8))
	}
	*v = decodeText(utf16Text, b)
	return false
}

// zeros consumes a run of zero bytes, returning the length of the run.
func (f *frame) zeros() (n int) {
	var b [1]byte
	for f.fr.Err() == nil {
		i := f.c.off + int(f.fr.N())
		if i >= len(f.c.buf) || f.c.buf[i] != 0 {
			break
		}
		if f.fr.Bytes(b[:]) {
			break
		}
		n++
	}
	return n
}
