package domain

import (
	"errors"
	"time"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("notification belongs to another user")
	ErrMissingRecipient     = errors.New("notification recipient is required")
)

// Types used by the forum services. Clients may send other values.
const (
	TypeAnswer            = "answer"
	TypeMentorshipRequest = "mentorship-request"
	TypeMentorshipReply   = "mentorship-response"
	TypeMessage           = "message"
)

type Notification struct {
	ID           string    `json:"id"`
	RecipientID  string    `json:"recipientId"`
	SenderID     string    `json:"senderId,omitempty"`
	Type         string    `json:"type"`
	Content      string    `json:"content"`
	Link         string    `json:"link,omitempty"`
	QuestionID   string    `json:"questionId,omitempty"`
	MentorshipID string    `json:"mentorshipId,omitempty"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"createdAt"`
}
