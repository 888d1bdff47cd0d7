package rec

import (
	"github.com/cohvault/recfile"
)

// decodePlayer decodes one entry of the player roster.
func decodePlayer(c *cursor) (p recfile.Player, err error) {
	defer c.rewind(c.off, &err)

	f := c.frame()
	f.u8(&p.Human)
	f.utf16(&p.Name)
	f.u32(&p.Team)
	f.utf8(&p.Faction)
	f.u32(&p.Unknown2)
	f.u32(&p.Unknown3)
	f.utf8(&p.GameMode)
	f.u32(&p.Unknown4)
	f.u32(&p.Unknown5)
	f.u32(&p.Unknown6)
	f.u32(&p.Unknown7)
	f.u16(&p.Unknown8)
	if err = f.end(); err != nil {
		return p, err
	}

	first, err := decodeItems(c, fixedItemCount)
	if err != nil {
		return p, err
	}

	f = c.frame()
	f.u16(&p.Unknown9)
	f.u64(&p.Unknown10)
	f.u64(&p.SteamID)
	if err = f.end(); err != nil {
		return p, err
	}

	second, err := decodeItems(c, fixedItemCount)
	if err != nil {
		return p, err
	}

	counted1, err := decodeCountedItems(c)
	if err != nil {
		return p, err
	}
	counted2, err := decodeCountedItems(c)
	if err != nil {
		return p, err
	}

	f = c.frame()
	f.u32(&p.Unknown11)
	f.u32(&p.Unknown12)
	f.u32(&p.Unknown13)
	if err = f.end(); err != nil {
		return p, err
	}

	// Consumers refer to items by position, so the order of the lists must be
	// kept.
	p.Items = make([]recfile.Item, 0, len(first)+len(second)+len(counted1)+len(counted2))
	p.Items = append(p.Items, first...)
	p.Items = append(p.Items, second...)
	p.Items = append(p.Items, counted1...)
	p.Items = append(p.Items, counted2...)
	return p, nil
}

// decodeCountedItems decodes a list of items prefixed by a 32-bit count.
func decodeCountedItems(c *cursor) (items []recfile.Item, err error) {
	defer c.rewind(c.off, &err)

	var n uint32
	f := c.frame()
	f.u32(&n)
	if err = f.end(); err != nil {
		return nil, err
	}
	return decodeItems(c, int(n))
}

// decodePlayers decodes a roster of players prefixed by a 32-bit count.
func decodePlayers(c *cursor) (players []recfile.Player, err error) {
	defer c.rewind(c.off, &err)

	var n uint32
	f := c.frame()
	f.u32(&n)
	if err = f.end(); err != nil {
		return nil, err
	}

	players = make([]recfile.Player, 0, min(int(n), c.remaining()))
	for i := 0; i < int(n); i++ {
		p, err := decodePlayer(c)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}
