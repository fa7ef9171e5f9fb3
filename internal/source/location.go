package source

import (
	"fmt"

	"fortio.org/safecast"
)

// LocID identifies an interned location inside a Table.
type LocID uint32

// NoLocID marks the absence of a location.
const NoLocID LocID = 0

// IsValid reports whether the ID refers to an interned location.
func (id LocID) IsValid() bool { return id != NoLocID }

// Location is a (file, line, column) triple attached to a declaration.
type Location struct {
	File   string
	Line   uint32
	Column uint32
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Table stores locations in a compact slice-based arena and deduplicates
// identical triples. Index 0 is reserved for NoLocID.
type Table struct {
	byID  []Location
	index map[Location]LocID
}

// NewTable creates a location table with an optional capacity hint.
func NewTable(capacity uint32) *Table {
	if capacity == 0 {
		capacity = 32
	}
	return &Table{
		byID:  make([]Location, 1, capacity+1),
		index: make(map[Location]LocID, capacity),
	}
}

// Intern inserts the triple and returns its ID.
// If the triple is already present, returns its existing ID.
func (t *Table) Intern(file string, line, column uint32) LocID {
	loc := Location{File: file, Line: line, Column: column}
	if id, ok := t.index[loc]; ok {
		return id
	}
	value, err := safecast.Conv[uint32](len(t.byID))
	if err != nil {
		panic(fmt.Errorf("location arena overflow: %w", err))
	}
	id := LocID(value)
	t.byID = append(t.byID, loc)
	t.index[loc] = id
	return id
}

// Lookup returns the location for the given ID.
// NoLocID and out-of-range IDs return false.
func (t *Table) Lookup(id LocID) (Location, bool) {
	if !id.IsValid() || int(id) >= len(t.byID) {
		return Location{}, false
	}
	return t.byID[id], true
}

// MustLookup returns the location for the given ID and panics on an
// invalid ID.
func (t *Table) MustLookup(id LocID) Location {
	loc, ok := t.Lookup(id)
	if !ok {
		panic("invalid location ID")
	}
	return loc
}

// Len reports the number of interned locations excluding the sentinel.
func (t *Table) Len() int { return len(t.byID) - 1 }
