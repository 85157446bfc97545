package flarm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGNSS struct {
	fix *Fix
	err error
}

func (g *fakeGNSS) Fix(ctx context.Context) (*Fix, error) { return g.fix, g.err }

type fakeRadio struct {
	sent     [][24]byte
	inbox    []*[24]byte
	rxCalled int
}

func (r *fakeRadio) Transmit(ctx context.Context, frame [24]byte) error {
	r.sent = append(r.sent, frame)
	return nil
}

func (r *fakeRadio) Receive(ctx context.Context) (*[24]byte, error) {
	r.rxCalled++
	if r.rxCalled > len(r.inbox) {
		return nil, nil
	}
	return r.inbox[r.rxCalled-1], nil
}

type fakeClock struct {
	millis uint64
	sec    uint32
}

func (c *fakeClock) Millis() uint64 { return c.millis }
func (c *fakeClock) NowUTC() uint32 { return c.sec }

func TestEngineTickWithNoFixEmitsDegradedPFLAU(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)
	gnss := &fakeGNSS{fix: nil}
	clock := &fakeClock{millis: 1000, sec: 100}

	out, err := e.Tick(context.Background(), gnss, nil, clock, nil, nil)
	require.NoError(t, err)
	require.Len(t, out.Sentences, 1)
	assert.Contains(t, out.Sentences[0], "$PFLAU,0,0,0,0,0,")
}

func TestEngineTickPropagatesFixIntoSelf(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)
	fix := &Fix{Latitude: 51.5, Longitude: -0.1, AltitudeM: 1200, Course: 90, Speed: 60, UTCSecond: 100, Millis: 1000}
	gnss := &fakeGNSS{fix: fix}
	clock := &fakeClock{millis: 1000, sec: 100}

	_, err := e.Tick(context.Background(), gnss, nil, clock, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, fix.Latitude, e.Self.Latitude)
	assert.Equal(t, fix.Longitude, e.Self.Longitude)
	assert.Equal(t, fix.Course, e.Self.Course)
	assert.Equal(t, fix.Speed, e.Self.Speed)
}

func TestEngineTickDropsLoopbackReception(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)
	fix := &Fix{Latitude: 51.5, Longitude: -0.1, AltitudeM: 1200, Course: 90, Speed: 60, UTCSecond: 100, Millis: 1000}
	gnss := &fakeGNSS{fix: fix}
	clock := &fakeClock{millis: 1000, sec: 100}
	radio := &fakeRadio{}

	_, err := e.Tick(context.Background(), gnss, radio, clock, nil, nil)
	require.NoError(t, err)
	require.Len(t, radio.sent, 1)

	// Feed our own just-transmitted frame back in on the next tick.
	radio.inbox = []*[24]byte{&radio.sent[0]}
	radio.rxCalled = 0

	before := e.Table.ExportOrder()
	_, err = e.Tick(context.Background(), gnss, radio, clock, nil, nil)
	require.NoError(t, err)
	after := e.Table.ExportOrder()

	assert.Equal(t, len(before), len(after), "a looped-back copy of our own last frame must not populate the table")
}

func TestEngineTickReturnsGNSSError(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)
	gnss := &fakeGNSS{err: assert.AnError}
	clock := &fakeClock{millis: 1000, sec: 100}

	_, err := e.Tick(context.Background(), gnss, nil, clock, nil, nil)
	assert.Error(t, err)
}

func TestEngineHandleConfigSentenceRepliesToPositionQuery(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)
	e.Self.Latitude = 48.1173
	e.Self.Longitude = 11.5167

	reply, err := e.HandleConfigSentence("PSRFC,1,position,")
	require.NoError(t, err)
	assert.Contains(t, reply, "48.117300 N")
	assert.Contains(t, reply, "11.516700 E")
}

func TestEngineHandleConfigSentenceAppliesMutationsWithNoReply(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)

	reply, err := e.HandleConfigSentence("PSRFC,1,max_tracks,16")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, 16, e.Settings.MaxTracks)
}

func TestEngineHandleConfigSentenceRejectsMalformedInput(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)

	_, err := e.HandleConfigSentence("not a config sentence")
	assert.Error(t, err)
}

func TestEngineTickEmitsHandshakeSentencesOnFirstTick(t *testing.T) {
	e := NewEngine(DefaultSettings(), 1)
	fix := &Fix{Latitude: 51.5, Longitude: -0.1, AltitudeM: 1200, UTCSecond: 100, Millis: 1000}
	gnss := &fakeGNSS{fix: fix}
	clock := &fakeClock{millis: 1000, sec: 100}

	out, err := e.Tick(context.Background(), gnss, nil, clock, nil, nil)
	require.NoError(t, err)

	found := false
	for _, s := range out.Sentences {
		if len(s) > 6 && s[:6] == "$PFLAE" {
			found = true
		}
	}
	assert.True(t, found, "lastHandshakeSec starts at 0, so the first tick is always >= HandshakeInterval past it")
}
