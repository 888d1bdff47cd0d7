package rec

import (
	"github.com/cohvault/recfile"
)

// decodeChunkHeader decodes the header common to all chunks.
func decodeChunkHeader(c *cursor) (h recfile.ChunkHeader, err error) {
	f := c.frame()
	f.tag(tagSize, &h.Kind)
	f.tag(tagSize, &h.Type)
	f.u32(&h.Version)
	f.u32(&h.Length)
	f.u32(&h.NameLength)
	f.u32(&h.MinVersion)
	f.u32(&h.Flags)
	return h, f.end()
}

// decodeNode decodes the chunk at the cursor. matched is false if the cursor
// is not at the start of a chunk, which includes the end of the input. In
// that case, the cursor is not moved. If matched is true and err is not nil,
// then the chunk was recognized but could not be decoded.
func (d *decoder) decodeNode(c *cursor) (node recfile.Node, matched bool, err error) {
	start := c.off
	kind, ok := c.peek(tagSize)
	if !ok {
		return nil, false, nil
	}
	switch string(kind) {
	case kindFolder:
		node, err = d.decodeFolder(c)
	case kindData:
		node, err = d.decodeData(c)
	default:
		return nil, false, nil
	}
	if err != nil {
		tag, _ := c.peek(2 * tagSize)
		return nil, true, ChunkError{Offset: int64(start), Tag: string(tag), Cause: err}
	}
	d.stats.addChunk(node)
	return node, true, nil
}

// decodeNodes decodes chunks until the cursor is no longer at the start of a
// chunk.
func (d *decoder) decodeNodes(c *cursor) ([]recfile.Node, error) {
	var nodes []recfile.Node
	for {
		node, matched, err := d.decodeNode(c)
		if err != nil {
			return nil, err
		}
		if !matched {
			return nodes, nil
		}
		nodes = append(nodes, node)
	}
}

// decodeFolder decodes a folder chunk and its children. Every following chunk
// is a child; the folder's Length does not bound its children.
func (d *decoder) decodeFolder(c *cursor) (node recfile.Node, err error) {
	defer c.rewind(c.off, &err)
	start := c.off

	h, err := decodeChunkHeader(c)
	if err != nil {
		return nil, err
	}

	body := c.off
	children, err := d.decodeNodes(c)
	if err != nil {
		return nil, err
	}
	if n := int64(c.off - body); n != int64(h.Length) {
		d.warn(LengthWarning{Offset: int64(start), Tag: h.Tag(), Length: h.Length, Actual: n})
	}
	return recfile.Folder{ChunkHeader: h, Nodes: children}, nil
}

////////////////////////////////////////////////////////////////

// dataDecoder decodes one type of data chunk, given its header. The cursor is
// positioned after the header. matched is false if h is not of the decoder's
// type, in which case the cursor is not moved.
type dataDecoder func(d *decoder, c *cursor, h recfile.ChunkHeader) (node recfile.Node, matched bool, err error)

// dataDecoders are tried in order.
var dataDecoders = [...]dataDecoder{
	decodeMapDescriptor,
	decodeMatchData,
	decodePlacedAssets,
}

// decodeData decodes a data chunk by trying each type of data chunk in turn.
func (d *decoder) decodeData(c *cursor) (node recfile.Node, err error) {
	defer c.rewind(c.off, &err)
	start := c.off

	h, err := decodeChunkHeader(c)
	if err != nil {
		return nil, err
	}
	for _, decode := range dataDecoders {
		node, matched, err := decode(d, c, h)
		if err != nil {
			return nil, err
		}
		if matched {
			return node, nil
		}
	}
	return nil, VariantError{Offset: int64(start), Record: "data chunk", Discriminant: h.Tag()}
}

func decodeMapDescriptor(d *decoder, c *cursor, h recfile.ChunkHeader) (recfile.Node, bool, error) {
	if h.Type != typeMapDescriptor {
		return nil, false, nil
	}

	m := recfile.MapDescriptor{ChunkHeader: h}
	f := c.frame()
	f.u32(&m.Unknown1)
	f.u32(&m.Unknown2)
	f.u32(&m.Unknown3)
	f.u32(&m.Unknown4)
	f.u32(&m.Unknown5)
	f.u32(&m.Unknown6)
	f.u32(&m.Unknown7)
	f.utf8(&m.MapFile)
	f.block(m.UnknownData1[:])
	f.utf16(&m.MapName)
	f.utf16(&m.LongDescription)
	f.utf16(&m.ShortDescription)
	f.u32(&m.MapPlayers)
	f.u32(&m.MapWidth)
	f.u32(&m.MapHeight)
	f.block(m.UnknownData2[:])
	f.u32(&m.Unknown8)
	f.block(m.UnknownData3[:])
	f.u32(&m.Unknown9)
	f.utf8(&m.Trailing)
	if err := f.end(); err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// decodeMatchData decodes a match data chunk. Version 1 of the chunk holds
// only opaque data; later versions hold the player roster.
func decodeMatchData(d *decoder, c *cursor, h recfile.ChunkHeader) (recfile.Node, bool, error) {
	if h.Type != typeMatchData {
		return nil, false, nil
	}

	f := c.frame()
	if h.Version == 1 {
		m := recfile.SimpleMatchData{ChunkHeader: h}
		f.bytes(int(h.Length), &m.Data)
		if err := f.end(); err != nil {
			return nil, true, err
		}
		return m, true, nil
	}

	m := recfile.ComplexMatchData{ChunkHeader: h}
	f.u32(&m.OpponentType)
	f.u32(&m.Unknown1)
	f.u32(&m.Unknown2)
	f.u16(&m.Unknown3)
	f.u32(&m.RNGSeed)
	if err := f.end(); err != nil {
		return nil, true, err
	}

	players, err := decodePlayers(c)
	if err != nil {
		return nil, true, err
	}
	m.Players = players
	return m, true, nil
}

// decodePlacedAssets retains the body of a placed assets chunk without
// interpreting it.
func decodePlacedAssets(d *decoder, c *cursor, h recfile.ChunkHeader) (recfile.Node, bool, error) {
	if h.Type != typePlacedAssets {
		return nil, false, nil
	}

	m := recfile.PlacedAssets{ChunkHeader: h}
	f := c.frame()
	f.bytes(int(h.Length), &m.Data)
	if err := f.end(); err != nil {
		return nil, true, err
	}
	return m, true, nil
}
