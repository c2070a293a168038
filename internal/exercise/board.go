package exercise

// Board tracks drag-drop zone assignments for a matching exercise. An item
// lives in at most one zone: assigning it again moves it.
type Board struct {
	zones map[string]string // zoneID -> itemID
}

func NewBoard() *Board {
	return &Board{zones: make(map[string]string)}
}

func (b *Board) Assign(itemID, zoneID string) {
	for zone, item := range b.zones {
		if item == itemID {
			delete(b.zones, zone)
		}
	}
	b.zones[zoneID] = itemID
}

func (b *Board) Remove(zoneID string) {
	delete(b.zones, zoneID)
}

func (b *Board) ItemIn(zoneID string) (string, bool) {
	item, ok := b.zones[zoneID]
	return item, ok
}

// Assignments returns the board as an item -> zone mapping, the orientation
// matching answers are expressed in.
func (b *Board) Assignments() map[string]string {
	assignments := make(map[string]string, len(b.zones))
	for zone, item := range b.zones {
		assignments[item] = zone
	}
	return assignments
}

func (b *Board) Clear() {
	b.zones = make(map[string]string)
}
