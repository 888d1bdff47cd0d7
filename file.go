// The recfile package models the contents of a Company of Heroes replay file.
//
// A replay begins with a Header, followed by a Relic Chunky container. The
// container holds a tree of chunks. Each chunk is a Node, which is either a
// Folder containing further nodes, or one of several data chunks that carry a
// payload: a MapDescriptor, match data, or placed assets. Match data lists the
// Players of the match, and each Player carries a list of Items.
//
// Replays are decoded from bytes by the "rec" sub-package. Values in this
// package are produced once by a decode and are not modified afterward.
package recfile

////////////////////////////////////////////////////////////////

// Replay is the decoded form of a replay file.
type Replay struct {
	// Header is the replay header preceding the container.
	Header Header

	// Chunky is the chunk container.
	Chunky Chunky

	// Size is the number of bytes occupied by the header and container. Any
	// remaining bytes of the file belong to the tick stream.
	Size int64
}

// Header is the outer replay header.
type Header struct {
	// Version is the version of the game that recorded the replay.
	Version uint16

	// GameType identifies the game, such as "COH2_REC".
	GameType string

	// Timestamp is the time the replay was recorded, as formatted by the game
	// client.
	Timestamp string
}

// Chunky is a Relic Chunky container.
type Chunky struct {
	// Magic is the container's magic string, "Relic Chunky".
	Magic string

	// Signature follows the magic string.
	Signature uint32

	// MajorVersion and MinorVersion are the version of the container format
	// that was read. Different revisions of the format use different
	// versions, so callers can use these to select a grammar revision.
	MajorVersion uint32
	MinorVersion uint32

	// ChunkOffset is the number of bytes from the start of the container to
	// the first chunk.
	ChunkOffset uint32

	// Reserved fields with unknown meaning. Usually 0x1C and 0x1.
	Reserved1 uint32
	Reserved2 uint32

	// Nodes is the sequence of top-level chunks.
	Nodes []Node
}

// Players returns the players of the first ComplexMatchData chunk found in the
// container, or nil if there is none.
func (c Chunky) Players() []Player {
	var players []Player
	Walk(c.Nodes, func(node Node) bool {
		if data, ok := node.(ComplexMatchData); ok {
			players = data.Players
			return false
		}
		return true
	})
	return players
}

// MapDescriptor returns the first MapDescriptor chunk in the container.
func (c Chunky) MapDescriptor() (desc MapDescriptor, ok bool) {
	Walk(c.Nodes, func(node Node) bool {
		desc, ok = node.(MapDescriptor)
		return !ok
	})
	return desc, ok
}
