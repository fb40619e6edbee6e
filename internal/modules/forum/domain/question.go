package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrNotAuthor        = errors.New("only the author may change this")
)

type Question struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Views      int       `json:"views"`
	Answers    int       `json:"answerCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Upvotes    []string  `json:"upvotes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// QuestionDetail is a question with its answers, oldest answer first.
type QuestionDetail struct {
	Question
	AnswerList []Answer `json:"answers"`
}

// Matches reports whether the question carries tag (case-insensitive) and contains
// search in its title or content. Empty criteria match everything.
func (q Question) Matches(tag, search string) bool {
	if tag = strings.TrimSpace(tag); tag != "" {
		found := false
		for _, t := range q.Tags {
			if strings.EqualFold(t, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		return strings.Contains(strings.ToLower(q.Title), search) || strings.Contains(strings.ToLower(q.Content), search)
	}
	return true
}
