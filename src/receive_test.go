package flarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceivePacketRejectsLoopback(t *testing.T) {
	self := &Track{Address: 1}
	table := NewTable(4)

	frame := [24]byte{1, 2, 3}
	outcome, collision := ReceivePacket(frame, 0, 0, 0, 0, 0, self, frame[:], AlarmAlgorithmDistance, table, nil)

	assert.Equal(t, "loopback", outcome.Reason)
	assert.Nil(t, collision)
}

func TestReceivePacketReaddressesOnSelfCollision(t *testing.T) {
	self := &Track{Address: 0xABCDEF}
	table := NewTable(4)
	other := sampleTrack()
	other.Address = self.Address
	frame := EncodeLegacy(&other, 100, 0, 0, 0)

	called := false
	newAddr := func() uint32 {
		called = true
		return 0x112233
	}

	outcome, collision := ReceivePacket(frame, 100, 0, 0, 0, 0, self, nil, AlarmAlgorithmDistance, table, newAddr)

	assert.Equal(t, "self_collision", outcome.Reason)
	require.NotNil(t, collision)
	assert.Equal(t, uint32(0xABCDEF), collision.OldAddress)
	assert.Equal(t, uint32(0x112233), collision.NewAddress)
	assert.True(t, called)
	assert.Equal(t, uint32(0x112233), self.Address)
	assert.Equal(t, AddrAnonymous, self.AddrType)
}

func TestReceivePacketInsertsDecodedTrack(t *testing.T) {
	self := &Track{Address: 1, Latitude: 51.47, Longitude: -0.4543, AltitudeMSL: 1000}
	table := NewTable(4)

	other := sampleTrack()
	other.Address = 0x998877
	other.Latitude = self.Latitude
	other.Longitude = self.Longitude
	other.AltitudeMSL = self.AltitudeMSL
	frame := EncodeLegacy(&other, 100, self.Latitude, self.Longitude, 0)

	outcome, collision := ReceivePacket(frame, 100, self.Latitude, self.Longitude, 0, 0, self, nil, AlarmAlgorithmDistance, table, nil)

	assert.Nil(t, collision)
	assert.True(t, outcome.Insert.Admitted)
	assert.Equal(t, uint32(0x998877), table.slots[outcome.Insert.Slot].Address)
}

func TestReceivePacketHonorsIgnoreList(t *testing.T) {
	self := &Track{Address: 1}
	table := NewTable(4)

	other := sampleTrack()
	other.Address = 0x555555
	frame := EncodeLegacy(&other, 100, 0, 0, 0)

	outcome, collision := ReceivePacket(frame, 100, 0, 0, 0, 0x555555, self, nil, AlarmAlgorithmDistance, table, nil)

	assert.Equal(t, "ignored", outcome.Reason)
	assert.Nil(t, collision)
	assert.False(t, outcome.Insert.Admitted)
}
