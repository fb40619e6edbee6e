package infrastructure

import (
	"context"
	"strings"

	"studentForum/internal/modules/chats/application/port"
	"studentForum/internal/modules/chats/domain"
)

type keywordRule struct {
	keywords []string
	reply    string
}

var keywordRules = []keywordRule{
	{[]string{"hello", "hi ", "hey"}, "Hi! I can help you find your way around the forum: questions, mentorships, posts, opportunities and scholarships."},
	{[]string{"mentor"}, "Browse open mentorships under Mentorships, filter by field, and send a request with a short message about your goals. The mentor is notified right away."},
	{[]string{"scholarship"}, "The Scholarships page lists current awards with their deadlines and requirements. Apply through the link on each listing."},
	{[]string{"opportunit", "internship", "job"}, "Check the Opportunities page for internships and programs; each listing links to the organization's application."},
	{[]string{"question", "ask", "answer"}, "Use Ask a Question with a clear title and a few tags. Anyone viewing the question sees new answers live."},
	{[]string{"post"}, "Posts are for sharing updates with the community. You can like posts and edit or delete your own."},
}

// BuiltinAssistant answers from a fixed set of keyword rules when no remote assistant is configured.
type BuiltinAssistant struct{}

func NewBuiltinAssistant() *BuiltinAssistant {
	return &BuiltinAssistant{}
}

func (BuiltinAssistant) Reply(_ context.Context, history []domain.Message) (string, error) {
	last := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			last = strings.ToLower(history[i].Content) + " "
			break
		}
	}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(last, kw) {
				return rule.reply, nil
			}
		}
	}
	return "I'm not sure about that one. Try asking the community in the Questions section.", nil
}

var _ port.Assistant = BuiltinAssistant{}
