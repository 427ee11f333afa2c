package models

import "time"

// Role represents the role of a message sender
type Role string

const (
	// RoleUser represents a message from the user
	RoleUser Role = "user"
	// RoleAssistant represents a message from the assistant
	RoleAssistant Role = "assistant"
	// RoleSystem represents the system instruction. It is sent to the model
	// but never stored in a Transcript.
	RoleSystem Role = "system"
)

// Label returns the console label used when listing history
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "👤 You"
	case RoleAssistant:
		return "🤖 AI"
	default:
		return string(r)
	}
}

// Message represents a chat message
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Transcript is the ordered conversation history of a single session.
// It is not safe for concurrent use; the session loop owns it.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the transcript
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the messages in conversational order
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message, if any
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Clear truncates the transcript to empty
func (t *Transcript) Clear() {
	t.messages = nil
}

// DropLastUser removes the last message only if it was sent by the user.
// It reports whether a message was removed.
func (t *Transcript) DropLastUser() bool {
	last, ok := t.Last()
	if !ok || last.Role != RoleUser {
		return false
	}
	t.messages = t.messages[:len(t.messages)-1]
	return true
}
