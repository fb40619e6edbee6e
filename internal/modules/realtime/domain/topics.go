package domain

import "strings"

const (
	// QuestionsFeedTopic is the global feed every questions list subscribes to.
	QuestionsFeedTopic = "questions-feed"

	// SystemTopic tags frames addressed to a single session (acks, errors, pong).
	SystemTopic = "system"

	questionPrefix      = "question:"
	mentorshipPrefix    = "mentorship:"
	chatPrefix          = "chat:"
	notificationsPrefix = "user-notifications:"
)

// TopicKind identifies the variant of a topic string.
type TopicKind string

const (
	TopicUnknown       TopicKind = ""
	TopicQuestionsFeed TopicKind = "questions-feed"
	TopicQuestion      TopicKind = "question"
	TopicMentorship    TopicKind = "mentorship"
	TopicChat          TopicKind = "chat"
	TopicNotifications TopicKind = "user-notifications"
)

// QuestionTopic returns the room of a single question and its answers.
func QuestionTopic(questionID string) string {
	return scopedTopic(questionPrefix, questionID)
}

// MentorshipTopic returns the room of a mentorship and its messages.
func MentorshipTopic(mentorshipID string) string {
	return scopedTopic(mentorshipPrefix, mentorshipID)
}

// ChatTopic returns the room of an assistant chat.
func ChatTopic(chatID string) string {
	return scopedTopic(chatPrefix, chatID)
}

// NotificationsTopic returns the notification feed of a user.
func NotificationsTopic(userID string) string {
	return scopedTopic(notificationsPrefix, userID)
}

// ParseTopic splits a topic string into its kind and scoped identifier.
// The questions feed has no identifier.
func ParseTopic(raw string) (TopicKind, string, bool) {
	topic := strings.TrimSpace(raw)
	if topic == QuestionsFeedTopic {
		return TopicQuestionsFeed, "", true
	}
	scoped := []struct {
		prefix string
		kind   TopicKind
	}{
		{questionPrefix, TopicQuestion},
		{mentorshipPrefix, TopicMentorship},
		{chatPrefix, TopicChat},
		{notificationsPrefix, TopicNotifications},
	}
	for _, candidate := range scoped {
		if !strings.HasPrefix(topic, candidate.prefix) {
			continue
		}
		id := strings.TrimSpace(topic[len(candidate.prefix):])
		if id == "" || strings.ContainsAny(id, " :") {
			return TopicUnknown, "", false
		}
		return candidate.kind, id, true
	}
	return TopicUnknown, "", false
}

// Known reports whether raw matches one of the topic variants.
func Known(raw string) bool {
	_, _, ok := ParseTopic(raw)
	return ok
}

func scopedTopic(prefix, id string) string {
	cleanID := strings.TrimSpace(id)
	if cleanID == "" {
		return ""
	}
	return prefix + cleanID
}
