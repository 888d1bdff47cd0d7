// Package rec implements a decoder for Company of Heroes replay files, which
// wrap a Relic Chunky container.
//
// The easiest way to decode a replay is through Decoder.Decode, which reads a
// replay and returns it as a recfile.Replay tree. Decoding requires the
// entire replay to be in memory, as the format is resolved by trying
// alternative layouts in turn.
package rec

// Magic strings and signatures of the format.
const (
	// gameTypeCOH2 is the game type written by Company of Heroes 2.
	gameTypeCOH2 = "COH2_REC"

	// chunkyMagic begins a Chunky container.
	chunkyMagic = "Relic Chunky"

	// chunkySignature follows the magic string: "\r\n\x1a\x00".
	chunkySignature uint32 = 0x1A0A0D
)

// Kinds of chunk.
const (
	kindFolder = "FOLD"
	kindData   = "DATA"
)

// Types of data chunk.
const (
	typeMapDescriptor = "SDSC"
	typeMatchData     = "DATA"
	typePlacedAssets  = "PLAS"
)

// Sizes of fixed-width fields.
const (
	tagSize         = 4
	gameTypeSize    = 8
	chunkHeaderSize = 2*tagSize + 5*4
)

// fixedItemCount is the number of items in each fixed item list of a player.
const fixedItemCount = 3

// Version is a version of the Chunky container format.
type Version struct {
	Major uint32
	Minor uint32
}

// DefaultVersions are the container versions accepted when a Decoder does not
// specify any. Replays have been observed with both.
var DefaultVersions = []Version{
	{Major: 3, Minor: 1},
	{Major: 4, Minor: 1},
}

// DefaultGameTypes are the game types accepted when a Decoder does not specify
// any.
var DefaultGameTypes = []string{gameTypeCOH2}
