package recfile

// Player is an entry in the player roster of a match.
type Player struct {
	// Human is 1 for a human player and 0 for an AI player.
	Human uint8

	Name string

	// Team is the team the player belongs to.
	Team uint32

	// Faction is the name of the army the player used.
	Faction string

	Unknown2 uint32 // 5 for army type
	Unknown3 uint32

	// GameMode is "default" or "skirmish".
	GameMode string

	Unknown4 uint32
	Unknown5 uint32
	Unknown6 uint32 // 0x0
	Unknown7 uint32 // 0x5
	Unknown8 uint16 // 0x1
	Unknown9 uint16 // 0x1

	// Unknown10 is the maximum value for AI players without a steam id.
	Unknown10 uint64

	SteamID uint64

	Unknown11 uint32 // 0x0
	Unknown12 uint32
	Unknown13 uint32

	// Items lists every item carried by the player. The first three items
	// come from the first fixed list, the next three from the second fixed
	// list, followed by the first counted list (usually commanders) and the
	// second counted list (usually bulletins).
	Items []Item
}

// IsHuman returns whether the player is controlled by a person.
func (p Player) IsHuman() bool {
	return p.Human != 0
}

////////////////////////////////////////////////////////////////

// Item type discriminants. Each is the first field of the corresponding item
// record.
const (
	ItemTypeCPU     uint16 = 0x1
	ItemTypePlayer  uint16 = 0x109
	ItemTypeSpecial uint16 = 0x216
)

// Item is an entry in a player's inventory. The set of implementations is
// closed: PlayerItem, SpecialPlayerItem and CPUItem.
type Item interface {
	// ItemType returns the discriminant of the item.
	ItemType() uint16

	item()
}

// PlayerItem is an item owned by a human player, such as a commander or a
// bulletin.
type PlayerItem struct {
	SelectionID uint32
	Unknown1    uint32 // 0x0
	ServerID    uint32
	Unknown2    uint32 // 0x0

	// Buffer is trailing item data of unknown format.
	Buffer []byte
}

func (PlayerItem) ItemType() uint16 { return ItemTypePlayer }
func (PlayerItem) item()            {}

// SpecialPlayerItem is an item of unknown purpose, possibly related to custom
// decals.
type SpecialPlayerItem struct {
	Data     [16]byte
	Unknown1 uint32
	Unknown2 uint8
}

func (SpecialPlayerItem) ItemType() uint16 { return ItemTypeSpecial }
func (SpecialPlayerItem) item()            {}

// CPUItem is an item slot of an AI player.
type CPUItem struct {
	Unknown1 uint8 // 0x1
	Unknown2 uint32
}

func (CPUItem) ItemType() uint16 { return ItemTypeCPU }
func (CPUItem) item()            {}
