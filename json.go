package recfile

import (
	"encoding/json"
)

// Nodes and items are encoded as JSON objects with their fields, plus a field
// identifying the variant. For nodes, "Tag" holds the chunk tag. For items,
// "ItemType" holds the discriminant.

func (c Folder) MarshalJSON() ([]byte, error) {
	type folder Folder
	return json.Marshal(struct {
		Tag string
		folder
	}{c.Tag(), folder(c)})
}

func (c MapDescriptor) MarshalJSON() ([]byte, error) {
	type mapDescriptor MapDescriptor
	return json.Marshal(struct {
		Tag string
		mapDescriptor
	}{c.Tag(), mapDescriptor(c)})
}

func (c SimpleMatchData) MarshalJSON() ([]byte, error) {
	type simpleMatchData SimpleMatchData
	return json.Marshal(struct {
		Tag string
		simpleMatchData
	}{c.Tag(), simpleMatchData(c)})
}

func (c ComplexMatchData) MarshalJSON() ([]byte, error) {
	type complexMatchData ComplexMatchData
	return json.Marshal(struct {
		Tag string
		complexMatchData
	}{c.Tag(), complexMatchData(c)})
}

func (c PlacedAssets) MarshalJSON() ([]byte, error) {
	type placedAssets PlacedAssets
	return json.Marshal(struct {
		Tag string
		placedAssets
	}{c.Tag(), placedAssets(c)})
}

////////////////////////////////////////////////////////////////

func (i PlayerItem) MarshalJSON() ([]byte, error) {
	type playerItem PlayerItem
	return json.Marshal(struct {
		ItemType uint16
		playerItem
	}{i.ItemType(), playerItem(i)})
}

func (i SpecialPlayerItem) MarshalJSON() ([]byte, error) {
	type specialPlayerItem SpecialPlayerItem
	return json.Marshal(struct {
		ItemType uint16
		specialPlayerItem
	}{i.ItemType(), specialPlayerItem(i)})
}

func (i CPUItem) MarshalJSON() ([]byte, error) {
	type cpuItem CPUItem
	return json.Marshal(struct {
		ItemType uint16
		cpuItem
	}{i.ItemType(), cpuItem(i)})
}
