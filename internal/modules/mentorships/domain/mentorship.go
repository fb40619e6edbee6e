package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMentorshipNotFound = errors.New("mentorship not found")
	ErrNotMentor          = errors.New("only the mentor may change this mentorship")
	ErrOwnMentorship      = errors.New("mentors cannot request their own mentorship")
	ErrAlreadyRequested   = errors.New("mentorship already requested")
	ErrNotAccepting       = errors.New("mentorship is not accepting requests")
	ErrRequestNotFound    = errors.New("pending request not found")
	ErrNotParticipant     = errors.New("not a participant of this mentorship")
	ErrInvalidStatus      = errors.New("invalid mentorship status")
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusClosed     = "closed"

	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// ValidStatus reports whether s is a mentorship status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

type Request struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Mentorship struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	MentorID      string    `json:"mentorId"`
	MentorName    string    `json:"mentorName,omitempty"`
	Status        string    `json:"status"`
	Duration      string    `json:"duration,omitempty"`
	Schedule      string    `json:"schedule,omitempty"`
	Location      string    `json:"location,omitempty"`
	Link          string    `json:"link,omitempty"`
	CommunityLink string    `json:"communityLink,omitempty"`
	Deadline      string    `json:"deadline,omitempty"`
	Requirements  []string  `json:"requirements"`
	Goals         []string  `json:"goals"`
	Requests      []Request `json:"requests"`
	Mentees       []string  `json:"mentees"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsParticipant reports whether userID is the mentor or an accepted mentee.
func (m Mentorship) IsParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	if m.MentorID == userID {
		return true
	}
	for _, id := range m.Mentees {
		if id == userID {
			return true
		}
	}
	return false
}

// Matches filters by category and status (case-insensitive) and free text over title and description.
func (m Mentorship) Matches(category, status, search string) bool {
	if category = strings.TrimSpace(category); category != "" && !strings.EqualFold(m.Category, category) {
		return false
	}
	if status = strings.TrimSpace(status); status != "" && !strings.EqualFold(m.Status, status) {
		return false
	}
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		return strings.Contains(strings.ToLower(m.Title), search) || strings.Contains(strings.ToLower(m.Description), search)
	}
	return true
}

type Message struct {
	ID           string    `json:"id"`
	MentorshipID string    `json:"mentorshipId"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}
