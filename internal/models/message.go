package models

// Message is a chat message in a group's channel. Messages are append-only:
// never mutated or deleted.
type Message struct {
	// ID is the unique identifier for the message (UUID format).
	ID string `json:"id"`

	// GroupID is the group channel this message belongs to.
	GroupID string `json:"groupId"`

	// SenderID is the user who sent the message.
	SenderID string `json:"senderId"`

	// Text is the message body. May be empty when the message carries a
	// poll reference instead.
	Text string `json:"text"`

	// PollID optionally links the message to a poll, e.g. a "new poll"
	// announcement in the chat stream.
	PollID string `json:"pollId,omitempty"`

	// CreatedAt is the Unix timestamp when the message was sent.
	CreatedAt int64 `json:"createdAt"`
}

// MessageView is a message annotated with the sender's display handle.
type MessageView struct {
	Message    *Message `json:"message"`
	SenderName string `json:"senderName"`
}
