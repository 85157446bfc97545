package flarm

import "time"

// RealtimeClock implements Clock off the system wall clock.
type RealtimeClock struct{}

func (RealtimeClock) Millis() uint64 { return uint64(time.Now().UnixMilli()) }
func (RealtimeClock) NowUTC() uint32 { return uint32(time.Now().UTC().Unix()) }
