package flarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackWith(addr uint32, ts uint32, alarm AlarmLevel, adjDist float64) Track {
	return Track{Address: addr, Timestamp: ts, AlarmLevel: alarm, AdjDistance: adjDist, Next: -1}
}

func TestTableInsertFillsEmptySlotsFirst(t *testing.T) {
	tb := NewTable(2)

	r1 := tb.Insert(trackWith(1, 100, AlarmNone, 1000), 100)
	require.True(t, r1.Admitted)
	assert.Equal(t, "empty", r1.Rule)

	r2 := tb.Insert(trackWith(2, 100, AlarmNone, 2000), 100)
	require.True(t, r2.Admitted)
	assert.Equal(t, "empty", r2.Rule)
}

func TestTableInsertRefreshesExistingAddress(t *testing.T) {
	tb := NewTable(4)
	tb.Insert(trackWith(42, 100, AlarmNone, 1000), 100)

	updated := trackWith(42, 150, AlarmLow, 900)
	r := tb.Insert(updated, 150)

	require.True(t, r.Admitted)
	assert.Equal(t, "refresh", r.Rule)
	assert.Equal(t, uint32(150), tb.slots[r.Slot].Timestamp)
}

func TestTableInsertUsesExpiredSlotWhenFull(t *testing.T) {
	tb := NewTable(1)
	tb.Insert(trackWith(1, 0, AlarmNone, 1000), 0)

	now := uint32(EntryExpiration.Seconds()) + 100
	r := tb.Insert(trackWith(2, now, AlarmNone, 2000), now)

	require.True(t, r.Admitted)
	assert.Equal(t, "expired", r.Rule)
	assert.Equal(t, uint32(2), tb.slots[r.Slot].Address)
}

func TestTableInsertEvictsLowerAlarmWhenFull(t *testing.T) {
	tb := NewTable(1)
	tb.Insert(trackWith(1, 100, AlarmClose, 1000), 100)

	incoming := trackWith(2, 100, AlarmUrgent, 500)
	r := tb.Insert(incoming, 100)

	require.True(t, r.Admitted)
	assert.Equal(t, "alarm", r.Rule)
	assert.Equal(t, uint32(2), tb.slots[0].Address)
}

func TestTableInsertEvictsFurthestEqualAlarmWhenFull(t *testing.T) {
	tb := NewTable(1)
	tb.Insert(trackWith(1, 100, AlarmNone, 5000), 100)

	closer := trackWith(2, 100, AlarmNone, 1000)
	r := tb.Insert(closer, 100)

	require.True(t, r.Admitted)
	assert.Equal(t, "adj_distance", r.Rule)
	assert.Equal(t, uint32(2), tb.slots[0].Address)
}

func TestTableInsertRejectsWhenFullAndWorse(t *testing.T) {
	tb := NewTable(1)
	tb.Insert(trackWith(1, 100, AlarmUrgent, 500), 100)

	worse := trackWith(2, 100, AlarmNone, 5000)
	r := tb.Insert(worse, 100)

	assert.False(t, r.Admitted)
	assert.Equal(t, "full", r.Rule)
	assert.Equal(t, uint32(1), tb.slots[0].Address, "rejected insert must not disturb the existing slot")
}

func TestTableExpirePurgesStaleSlots(t *testing.T) {
	tb := NewTable(2)
	tb.Insert(trackWith(1, 0, AlarmNone, 1000), 0)

	now := uint32(EntryExpiration.Seconds()) + 1
	tb.Expire(now)

	assert.True(t, tb.slots[0].Empty())
}
