package normalization

import "strings"

// entityAliases maps the entity spellings used by external producers to the canonical singular name.
var entityAliases = map[string]string{
	"question":  "question",
	"questions": "question",

	"answer":  "answer",
	"answers": "answer",
	"reply":   "answer",
	"replies": "answer",

	"chat":          "chat-message",
	"chats":         "chat-message",
	"chat-message":  "chat-message",
	"chat-messages": "chat-message",
	"message":       "chat-message",
	"messages":      "chat-message",

	"notification":  "notification",
	"notifications": "notification",

	"mentorship":  "mentorship",
	"mentorships": "mentorship",

	"mentorship-message":  "mentorship-message",
	"mentorship-messages": "mentorship-message",
}

// NormalizeEntity converts various entity name formats to their canonical form.
// It handles singular/plural forms and "_" vs "-" separators.
//
// Example:
//
//	NormalizeEntity("Questions") => "question"
//	NormalizeEntity("MENTORSHIP_MESSAGES") => "mentorship-message"
func NormalizeEntity(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// NormalizeAction maps past-tense and CRUD verbs onto created/updated/deleted/appended/requested.
func NormalizeAction(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "create", "created", "new", "insert", "inserted":
		return "created"
	case "update", "updated", "edit", "edited", "patch", "patched":
		return "updated"
	case "delete", "deleted", "remove", "removed":
		return "deleted"
	case "append", "appended", "send", "sent":
		return "appended"
	case "request", "requested":
		return "requested"
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}
