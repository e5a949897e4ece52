package engine

import "fmt"

// Ledger holds discovered resources awaiting or undergoing collection.
// Entries refer to robots by id only; a robot never owns an entry.
type Ledger struct {
	entries []DiscoveredResource
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends an unclaimed entry. It returns false when the coordinate is
// already tracked or the tile is not a resource.
func (l *Ledger) Add(pos Position, kind Tile) bool {
	if !kind.IsResource() || l.Contains(pos) {
		return false
	}
	l.entries = append(l.entries, DiscoveredResource{Pos: pos, Kind: kind})
	return true
}

// Contains reports whether an entry exists at pos
func (l *Ledger) Contains(pos Position) bool {
	return l.indexOf(pos) >= 0
}

// Claim assigns the entry at pos to robotID. It fails when the entry is
// missing or already claimed, or when the robot already holds a claim.
func (l *Ledger) Claim(pos Position, robotID int) bool {
	i := l.indexOf(pos)
	if i < 0 || l.entries[i].ClaimedBy != nil || l.IsClaimant(robotID) {
		return false
	}
	id := robotID
	l.entries[i].ClaimedBy = &id
	return true
}

// ClaimFor returns the entry claimed by robotID
func (l *Ledger) ClaimFor(robotID int) (DiscoveredResource, bool) {
	for _, e := range l.entries {
		if e.ClaimedBy != nil && *e.ClaimedBy == robotID {
			return copyEntry(e), true
		}
	}
	return DiscoveredResource{}, false
}

// IsClaimant reports whether any entry is claimed by robotID
func (l *Ledger) IsClaimant(robotID int) bool {
	_, ok := l.ClaimFor(robotID)
	return ok
}

// RemoveAt deletes the entry at pos, keeping discovery order
func (l *Ledger) RemoveAt(pos Position) bool {
	i := l.indexOf(pos)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return true
}

// Entries returns a copy of every entry in discovery order
func (l *Ledger) Entries() []DiscoveredResource {
	out := make([]DiscoveredResource, len(l.entries))
	for i, e := range l.entries {
		out[i] = copyEntry(e)
	}
	return out
}

// Unclaimed returns the entries nobody has been assigned to
func (l *Ledger) Unclaimed() []DiscoveredResource {
	var out []DiscoveredResource
	for _, e := range l.entries {
		if e.ClaimedBy == nil {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of tracked entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// ClaimedCount returns the number of entries with a claimant
func (l *Ledger) ClaimedCount() int {
	n := 0
	for _, e := range l.entries {
		if e.ClaimedBy != nil {
			n++
		}
	}
	return n
}

// CheckClaims verifies that no two entries share a claimant
func (l *Ledger) CheckClaims() error {
	seen := make(map[int]Position)
	for _, e := range l.entries {
		if e.ClaimedBy == nil {
			continue
		}
		if prev, dup := seen[*e.ClaimedBy]; dup {
			return fmt.Errorf("robot %d claims both %s and %s", *e.ClaimedBy, prev, e.Pos)
		}
		seen[*e.ClaimedBy] = e.Pos
	}
	return nil
}

func (l *Ledger) indexOf(pos Position) int {
	for i, e := range l.entries {
		if e.Pos == pos {
			return i
		}
	}
	return -1
}

func copyEntry(e DiscoveredResource) DiscoveredResource {
	if e.ClaimedBy != nil {
		id := *e.ClaimedBy
		e.ClaimedBy = &id
	}
	return e
}
