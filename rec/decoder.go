package rec

import (
	"io"

	"github.com/cohvault/recfile"
	"github.com/cohvault/recfile/errors"
)

// Decoder decodes replay files into a recfile.Replay.
//
// A Decoder without Stats may be used to decode any number of replays
// concurrently. Concurrent decodes must not share a DecoderStats.
type Decoder struct {
	// GameTypes lists the accepted game types of the replay header. If empty,
	// DefaultGameTypes is used. Each game type must be 8 bytes long.
	GameTypes []string

	// Versions lists the accepted versions of the Chunky container. If empty,
	// DefaultVersions is used.
	Versions []Version

	// If not nil, statistics about each successfully decoded replay are added
	// to Stats.
	Stats *DecoderStats
}

// DecoderStats contains statistics generated while decoding.
type DecoderStats struct {
	// Chunks counts decoded chunks by tag.
	Chunks map[string]int

	// Players is the number of decoded player records.
	Players int

	// Items counts decoded item records by discriminant.
	Items map[uint16]int
}

func (s *DecoderStats) addChunk(node recfile.Node) {
	if s == nil {
		return
	}
	if s.Chunks == nil {
		s.Chunks = map[string]int{}
	}
	s.Chunks[node.Header().Tag()]++

	data, ok := node.(recfile.ComplexMatchData)
	if !ok {
		return
	}
	if s.Items == nil {
		s.Items = map[uint16]int{}
	}
	s.Players += len(data.Players)
	for _, p := range data.Players {
		for _, item := range p.Items {
			s.Items[item.ItemType()]++
		}
	}
}

// add adds the counts of t to s.
func (s *DecoderStats) add(t *DecoderStats) {
	if s == nil || t == nil {
		return
	}
	if len(t.Chunks) > 0 && s.Chunks == nil {
		s.Chunks = map[string]int{}
	}
	for tag, n := range t.Chunks {
		s.Chunks[tag] += n
	}
	if len(t.Items) > 0 && s.Items == nil {
		s.Items = map[uint16]int{}
	}
	for typ, n := range t.Items {
		s.Items[typ] += n
	}
	s.Players += t.Players
}

// decoder holds the state of a single decode.
type decoder struct {
	gameTypes []string
	versions  []Version
	stats     *DecoderStats
	warns     errors.Errors
}

func (d Decoder) newDecoder() *decoder {
	dec := &decoder{
		gameTypes: d.GameTypes,
		versions:  d.Versions,
	}
	if d.Stats != nil {
		dec.stats = &DecoderStats{}
	}
	if len(dec.gameTypes) == 0 {
		dec.gameTypes = DefaultGameTypes
	}
	if len(dec.versions) == 0 {
		dec.versions = DefaultVersions
	}
	return dec
}

func (d *decoder) warn(err error) {
	d.warns = d.warns.Append(err)
}

// Decode reads all of r and decodes it as a replay. See DecodeBytes.
func (d Decoder) Decode(r io.Reader) (replay *recfile.Replay, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return d.DecodeBytes(b)
}

// DecodeBytes decodes a replay from b. b is not modified, and the returned
// replay does not refer to it.
//
// If err is not nil, then replay is nil. warn contains problems with the
// input that did not prevent decoding.
func (d Decoder) DecodeBytes(b []byte) (replay *recfile.Replay, warn, err error) {
	dec := d.newDecoder()
	for _, gameType := range dec.gameTypes {
		if len(gameType) != gameTypeSize {
			return nil, nil, errors.New("game type must be 8 bytes long")
		}
	}
	c := newCursor(b)

	replay = &recfile.Replay{}
	if replay.Header, err = dec.decodeHeader(c); err != nil {
		return nil, dec.warns.Return(), err
	}
	if replay.Chunky, err = dec.decodeChunky(c); err != nil {
		return nil, dec.warns.Return(), err
	}
	replay.Size = int64(c.off)
	d.Stats.add(dec.stats)
	return replay, dec.warns.Return(), nil
}

// DecodeChunky decodes a Chunky container from b, which does not begin with a
// replay header. n is the number of bytes occupied by the container.
func (d Decoder) DecodeChunky(b []byte) (chunky *recfile.Chunky, n int64, warn, err error) {
	dec := d.newDecoder()
	c := newCursor(b)

	ch, err := dec.decodeChunky(c)
	if err != nil {
		return nil, 0, dec.warns.Return(), err
	}
	d.Stats.add(dec.stats)
	return &ch, int64(c.off), dec.warns.Return(), nil
}

// decodeHeader decodes the replay header.
func (d *decoder) decodeHeader(c *cursor) (h recfile.Header, err error) {
	f := c.frame()
	f.verify16("header reserved", 0)
	f.u16(&h.Version)
	f.expect(&h.GameType, d.gameTypes...)
	f.utf16z(&h.Timestamp)
	f.zeros()
	return h, f.end()
}

// decodeChunky decodes the Chunky container and its chunks.
func (d *decoder) decodeChunky(c *cursor) (ch recfile.Chunky, err error) {
	defer c.rewind(c.off, &err)

	majors := make([]uint32, 0, len(d.versions))
	for _, v := range d.versions {
		majors = append(majors, v.Major)
	}

	f := c.frame()
	f.expect(&ch.Magic, chunkyMagic)
	f.verify32("signature", &ch.Signature, chunkySignature)
	f.verify32("major version", &ch.MajorVersion, majors...)
	var minors []uint32
	for _, v := range d.versions {
		if v.Major == ch.MajorVersion {
			minors = append(minors, v.Minor)
		}
	}
	f.verify32("minor version", &ch.MinorVersion, minors...)
	f.u32(&ch.ChunkOffset)
	f.u32(&ch.Reserved1)
	f.u32(&ch.Reserved2)
	if err = f.end(); err != nil {
		return ch, err
	}

	ch.Nodes, err = d.decodeNodes(c)
	return ch, err
}
