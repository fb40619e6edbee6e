package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMutation is returned by Route for kinds without a topic mapping.
	ErrUnknownMutation = errors.New("unknown mutation kind")
	// ErrMissingID is returned by Route when the id a topic is derived from is empty.
	ErrMissingID = errors.New("mutation missing affected id")
)

// MutationKind names a completed store write.
type MutationKind string

const (
	MutationQuestionCreated         MutationKind = "question-created"
	MutationQuestionUpdated         MutationKind = "question-updated"
	MutationQuestionDeleted         MutationKind = "question-deleted"
	MutationAnswerCreated           MutationKind = "answer-created"
	MutationAnswerUpdated           MutationKind = "answer-updated"
	MutationAnswerDeleted           MutationKind = "answer-deleted"
	MutationChatMessageAppended     MutationKind = "chat-message-appended"
	MutationNotificationCreated     MutationKind = "notification-created"
	MutationMentorshipUpdated       MutationKind = "mentorship-updated"
	MutationMentorshipDeleted       MutationKind = "mentorship-deleted"
	MutationMentorshipRequested     MutationKind = "mentorship-requested"
	MutationMentorshipMessageCreate MutationKind = "mentorship-message-created"
)

// AffectedIDs carries the identifiers topics are derived from.
type AffectedIDs struct {
	QuestionID   string `json:"questionId,omitempty"`
	AnswerID     string `json:"answerId,omitempty"`
	ChatID       string `json:"chatId,omitempty"`
	UserID       string `json:"userId,omitempty"`
	MentorshipID string `json:"mentorshipId,omitempty"`
}

// Mutation is the out-of-band notice a writer hands to the relay.
type Mutation struct {
	Kind    MutationKind `json:"kind"`
	IDs     AffectedIDs  `json:"ids"`
	Payload any          `json:"payload,omitempty"`
}

// Target is one publish the relay performs for a mutation.
type Target struct {
	Topic string
	Kind  EventKind
}

// Route maps a mutation to the topics it is published to. It is a pure function of its inputs.
func Route(kind MutationKind, ids AffectedIDs) ([]Target, error) {
	switch kind {
	case MutationQuestionCreated:
		return []Target{{Topic: QuestionsFeedTopic, Kind: KindNewQuestion}}, nil
	case MutationQuestionUpdated:
		return questionTargets(ids, KindQuestionUpdated)
	case MutationQuestionDeleted:
		return questionTargets(ids, KindQuestionDeleted)
	case MutationAnswerCreated:
		return single(QuestionTopic(ids.QuestionID), KindNewAnswer, "questionId")
	case MutationAnswerUpdated:
		return single(QuestionTopic(ids.QuestionID), KindAnswerUpdated, "questionId")
	case MutationAnswerDeleted:
		return single(QuestionTopic(ids.QuestionID), KindAnswerDeleted, "questionId")
	case MutationChatMessageAppended:
		return single(ChatTopic(ids.ChatID), KindMessageReceived, "chatId")
	case MutationNotificationCreated:
		return single(NotificationsTopic(ids.UserID), KindNewNotification, "userId")
	case MutationMentorshipUpdated:
		return single(MentorshipTopic(ids.MentorshipID), KindMentorshipUpdate, "mentorshipId")
	case MutationMentorshipDeleted:
		return single(MentorshipTopic(ids.MentorshipID), KindMentorshipDelete, "mentorshipId")
	case MutationMentorshipRequested:
		return single(MentorshipTopic(ids.MentorshipID), KindMentorshipAsk, "mentorshipId")
	case MutationMentorshipMessageCreate:
		return single(MentorshipTopic(ids.MentorshipID), KindMentorshipMsg, "mentorshipId")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMutation, kind)
	}
}

// NormalizeMutationKind lowercases and trims external kind strings.
func NormalizeMutationKind(raw string) MutationKind {
	return MutationKind(strings.ToLower(strings.TrimSpace(raw)))
}

func questionTargets(ids AffectedIDs, kind EventKind) ([]Target, error) {
	topic := QuestionTopic(ids.QuestionID)
	if topic == "" {
		return nil, fmt.Errorf("%w: questionId", ErrMissingID)
	}
	return []Target{
		{Topic: QuestionsFeedTopic, Kind: kind},
		{Topic: topic, Kind: kind},
	}, nil
}

func single(topic string, kind EventKind, field string) ([]Target, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingID, field)
	}
	return []Target{{Topic: topic, Kind: kind}}, nil
}
