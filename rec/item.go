package rec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cohvault/recfile"
)

// itemDecoder decodes one layout of item. matched is false if the
// discriminant at the cursor does not select the layout, in which case the
// cursor is not moved. If matched is true and err is not nil, then the
// discriminant selected the layout but the record was malformed.
type itemDecoder func(c *cursor) (item recfile.Item, matched bool, err error)

// itemDecoders are tried in order.
var itemDecoders = [...]itemDecoder{
	decodePlayerItem,
	decodeSpecialPlayerItem,
	decodeCPUItem,
}

// discriminant reads the leading type of an item within f. matched is false
// if the type is not want.
func discriminant(f *frame, want uint16) (matched bool, err error) {
	var typ uint16
	if f.u16(&typ) {
		return false, f.end()
	}
	return typ == want, nil
}

func decodePlayerItem(c *cursor) (recfile.Item, bool, error) {
	f := c.frame()
	if ok, err := discriminant(f, recfile.ItemTypePlayer); !ok {
		return nil, false, err
	}

	var item recfile.PlayerItem
	if f.u32(&item.SelectionID) {
		return nil, true, f.end()
	}
	if f.u32(&item.Unknown1) {
		return nil, true, f.end()
	}
	if f.u32(&item.ServerID) {
		return nil, true, f.end()
	}
	if f.u32(&item.Unknown2) {
		return nil, true, f.end()
	}
	if f.bytes16(&item.Buffer) {
		return nil, true, f.end()
	}
	return item, true, f.end()
}

func decodeSpecialPlayerItem(c *cursor) (recfile.Item, bool, error) {
	f := c.frame()
	if ok, err := discriminant(f, recfile.ItemTypeSpecial); !ok {
		return nil, false, err
	}

	var item recfile.SpecialPlayerItem
	if f.block(item.Data[:]) {
		return nil, true, f.end()
	}
	if f.u32(&item.Unknown1) {
		return nil, true, f.end()
	}
	if f.u8(&item.Unknown2) {
		return nil, true, f.end()
	}
	return item, true, f.end()
}

func decodeCPUItem(c *cursor) (recfile.Item, bool, error) {
	f := c.frame()
	if ok, err := discriminant(f, recfile.ItemTypeCPU); !ok {
		return nil, false, err
	}

	var item recfile.CPUItem
	if f.u8(&item.Unknown1) {
		return nil, true, f.end()
	}
	if f.u32(&item.Unknown2) {
		return nil, true, f.end()
	}
	return item, true, f.end()
}

// decodeItem decodes the item at the cursor, trying each layout in turn.
func decodeItem(c *cursor) (recfile.Item, error) {
	for _, decode := range itemDecoders {
		item, matched, err := decode(c)
		if err != nil {
			return nil, err
		}
		if matched {
			return item, nil
		}
	}
	b, _ := c.peek(2)
	return nil, VariantError{
		Offset:       int64(c.off),
		Record:       "item",
		Discriminant: fmt.Sprintf("0x%X", binary.LittleEndian.Uint16(b)),
	}
}

// decodeItems decodes a list of n items. A list that ends early because an
// item matched no layout fails with a LengthError.
func decodeItems(c *cursor, n int) (items []recfile.Item, err error) {
	defer c.rewind(c.off, &err)
	start := int64(c.off)

	// n may come from the input, so don't trust it for the allocation.
	items = make([]recfile.Item, 0, min(n, c.remaining()/7))
	for i := 0; i < n; i++ {
		item, err := decodeItem(c)
		if err != nil {
			var verr VariantError
			if errors.As(err, &verr) {
				return nil, LengthError{Offset: start, Expected: n, Actual: i, Cause: err}
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
