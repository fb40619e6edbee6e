package domain

import "strings"

// Membership is the direction of a room command.
type Membership int

const (
	MembershipJoin Membership = iota + 1
	MembershipLeave
)

type aliasRule struct {
	membership Membership
	topic      func(arg string) string
}

// Legacy socket events sent by older clients, each carrying the scoped id as its argument.
var aliasRules = map[string]aliasRule{
	"join-questions":   {MembershipJoin, func(string) string { return QuestionsFeedTopic }},
	"leave-questions":  {MembershipLeave, func(string) string { return QuestionsFeedTopic }},
	"join-question":    {MembershipJoin, QuestionTopic},
	"leave-question":   {MembershipLeave, QuestionTopic},
	"join-mentorship":  {MembershipJoin, MentorshipTopic},
	"leave-mentorship": {MembershipLeave, MentorshipTopic},
	"join-chat":        {MembershipJoin, ChatTopic},
	"leave-chat":       {MembershipLeave, ChatTopic},
	"join-user":        {MembershipJoin, NotificationsTopic},
	"leave-user":       {MembershipLeave, NotificationsTopic},
}

// ResolveAlias converts a legacy room event into a canonical topic.
// ok is false for unknown actions and for scoped aliases sent without an id.
func ResolveAlias(action, arg string) (topic string, membership Membership, ok bool) {
	rule, found := aliasRules[strings.ToLower(strings.TrimSpace(action))]
	if !found {
		return "", 0, false
	}
	topic = rule.topic(arg)
	if topic == "" {
		return "", 0, false
	}
	return topic, rule.membership, true
}
