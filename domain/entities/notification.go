package entities

// Notifier receives free-form progress messages from a running script.
type Notifier func(message string)

// NotificationLog keeps the messages of one execution in arrival order.
type NotificationLog struct {
	entries []string
}

// Append records a message.
func (l *NotificationLog) Append(message string) {
	l.entries = append(l.entries, message)
}

// Last returns the most recent message.
func (l *NotificationLog) Last() (string, bool) {
	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}

// Entries returns a copy of all messages.
func (l *NotificationLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset drops every message.
func (l *NotificationLog) Reset() {
	l.entries = l.entries[:0]
}
