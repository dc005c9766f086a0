package domain

import "time"

// TimeSentinel is used when a message carries no timestamp.
const TimeSentinel = "--:--"

// Message is a formatted incoming message, ready for display.
type Message struct {
	Time   string `json:"timestamp"`
	Sender string `json:"sender"`
	Chat   string `json:"chat"`
	Text   string `json:"text"`
	ChatID int64  `json:"chat_id"`
}

// FormatTimestamp converts an epoch timestamp from the engine to a local
// time-of-day string. Zero means the message carried no timestamp.
func FormatTimestamp(epoch int64) string {
	if epoch == 0 {
		return TimeSentinel
	}
	return time.Unix(epoch, 0).Format("15:04")
}
