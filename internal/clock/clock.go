package clock

import "time"

// ISO8601 is the millisecond timestamp layout used in event logs.
const ISO8601 = "2006-01-02T15:04:05.000"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Timestamp formats the current time with the ISO8601 layout.
func Timestamp() string { return Now().Format(ISO8601) }
