package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAdd(t *testing.T) {
	l := NewLedger()

	assert.True(t, l.Add(Position{X: 1, Y: 1}, Mineral))
	assert.False(t, l.Add(Position{X: 1, Y: 1}, Energy), "duplicate coordinate")
	assert.False(t, l.Add(Position{X: 2, Y: 2}, Obstacle), "non-resource tile")
	assert.True(t, l.Add(Position{X: 0, Y: 3}, Science))

	require.Equal(t, 2, l.Len())
	entries := l.Entries()
	assert.Equal(t, Mineral, entries[0].Kind)
	assert.Equal(t, Position{X: 0, Y: 3}, entries[1].Pos)
	assert.Len(t, l.Unclaimed(), 2)
}

func TestLedgerClaimIsExclusive(t *testing.T) {
	l := NewLedger()
	a := Position{X: 1, Y: 0}
	b := Position{X: 2, Y: 0}
	l.Add(a, Mineral)
	l.Add(b, Mineral)

	require.True(t, l.Claim(a, 4))
	assert.False(t, l.Claim(a, 5), "entry already claimed")
	assert.False(t, l.Claim(b, 4), "robot already holds a claim")
	assert.False(t, l.Claim(Position{X: 9, Y: 9}, 6), "missing entry")
	assert.True(t, l.Claim(b, 5))

	claim, ok := l.ClaimFor(4)
	require.True(t, ok)
	assert.Equal(t, a, claim.Pos)
	assert.True(t, l.IsClaimant(5))
	assert.False(t, l.IsClaimant(6))
	assert.Equal(t, 2, l.ClaimedCount())
	assert.Empty(t, l.Unclaimed())
	assert.NoError(t, l.CheckClaims())
}

func TestLedgerEntriesAreCopies(t *testing.T) {
	l := NewLedger()
	l.Add(Position{X: 1, Y: 0}, Energy)
	l.Claim(Position{X: 1, Y: 0}, 3)

	entries := l.Entries()
	*entries[0].ClaimedBy = 99

	claim, ok := l.ClaimFor(3)
	require.True(t, ok)
	assert.Equal(t, 3, *claim.ClaimedBy)
}

func TestLedgerRemoveAtKeepsOrder(t *testing.T) {
	l := NewLedger()
	for x := 0; x < 4; x++ {
		l.Add(Position{X: x, Y: 0}, Mineral)
	}

	assert.True(t, l.RemoveAt(Position{X: 1, Y: 0}))
	assert.False(t, l.RemoveAt(Position{X: 1, Y: 0}))

	var xs []int
	for _, e := range l.Entries() {
		xs = append(xs, e.Pos.X)
	}
	assert.Equal(t, []int{0, 2, 3}, xs)
	assert.False(t, l.Contains(Position{X: 1, Y: 0}))
}

func TestLedgerCheckClaimsDetectsDuplicates(t *testing.T) {
	id := 2
	l := &Ledger{entries: []DiscoveredResource{
		{Pos: Position{X: 0, Y: 0}, Kind: Mineral, ClaimedBy: &id},
		{Pos: Position{X: 1, Y: 0}, Kind: Mineral, ClaimedBy: &id},
	}}

	err := l.CheckClaims()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robot 2")
}

func TestDepotCounters(t *testing.T) {
	b := NewDepot(Position{X: 3, Y: 4})

	assert.Equal(t, map[Tile]int{Mineral: 0, Energy: 0, Science: 0}, b.Resources())

	b.Deposit([]Tile{Mineral, Energy, Mineral, Empty})
	assert.Equal(t, 2, b.Count(Mineral))
	assert.Equal(t, 1, b.Count(Energy))
	assert.Equal(t, 3, b.Total())

	snapshot := b.Resources()
	snapshot[Science] = 50
	assert.Equal(t, 0, b.Count(Science), "snapshot must not alias counters")
}

func TestNewDepotForMap(t *testing.T) {
	assert.Equal(t, Position{X: 45, Y: 35}, NewDepotForMap(100, 80).Pos)
	assert.Equal(t, Position{X: 8, Y: 6}, NewDepotForMap(20, 15).Pos)
}
