package domain

import "time"

// TimerMode is the kind of interval a session log records.
type TimerMode string

const (
	ModeFocus      TimerMode = "FOCUS"
	ModeShortBreak TimerMode = "SHORT_BREAK"
	ModeLongBreak  TimerMode = "LONG_BREAK"
)

// SessionLog is one completed focus or break interval.
//
// Logs are produced by the timer on the client and are only ever read
// here; nothing in this module mutates or keeps them.
type SessionLog struct {
	// Timestamp is the completion time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	Mode            TimerMode `json:"mode"`
	DurationSeconds float64   `json:"duration_seconds"`
	Topic           string    `json:"topic"`
	Tags            []string  `json:"tags"`
}

// Time returns the log timestamp as a time.Time in the local zone.
func (l SessionLog) Time() time.Time {
	return time.UnixMilli(l.Timestamp)
}

// RecentLogs returns the last n logs. Input order is trusted, not checked.
func RecentLogs(logs []SessionLog, n int) []SessionLog {
	if n <= 0 {
		return nil
	}
	if len(logs) <= n {
		return logs
	}
	return logs[len(logs)-n:]
}
