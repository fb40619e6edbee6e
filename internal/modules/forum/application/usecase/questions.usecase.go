package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"studentForum/internal/modules/forum/application/port"
	"studentForum/internal/modules/forum/domain"
	notifications "studentForum/internal/modules/notifications/domain"
	rtport "studentForum/internal/modules/realtime/application/port"
	rtdomain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/platform/store"
)

// Author identifies the user performing a write.
type Author struct {
	ID   string
	Name string
}

type QuestionInput struct {
	Title   string
	Content string
	Tags    []string
}

type ForumService struct {
	store    store.DocumentStore
	relay    rtport.Relay
	notifier port.Notifier
	now      func() time.Time
}

func NewForumService(s store.DocumentStore, relay rtport.Relay, notifier port.Notifier) *ForumService {
	return &ForumService{store: s, relay: relay, notifier: notifier, now: time.Now}
}

// ListQuestions returns questions newest first, filtered by tag and free-text search.
func (s *ForumService) ListQuestions(ctx context.Context, tag, search string) ([]domain.Question, error) {
	all, err := store.FindAs[domain.Question](ctx, s.store, store.Questions, nil)
	if err != nil {
		return nil, err
	}
	out := lo.Filter(all, func(q domain.Question, _ int) bool { return q.Matches(tag, search) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetQuestion loads a question with its answers and counts the view.
func (s *ForumService) GetQuestion(ctx context.Context, id string) (domain.QuestionDetail, error) {
	q, err := s.question(ctx, id)
	if err != nil {
		return domain.QuestionDetail{}, err
	}
	q.Views++
	if err := s.store.Replace(ctx, store.Questions, q.ID, q); err != nil {
		return domain.QuestionDetail{}, err
	}
	answers, err := s.answers(ctx, q.ID)
	if err != nil {
		return domain.QuestionDetail{}, err
	}
	return domain.QuestionDetail{Question: q, AnswerList: answers}, nil
}

func (s *ForumService) CreateQuestion(ctx context.Context, author Author, in QuestionInput) (domain.Question, error) {
	now := s.now().UTC()
	q := domain.Question{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(in.Title),
		Content:    strings.TrimSpace(in.Content),
		Tags:       cleanTags(in.Tags),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, store.Questions, q.ID, q); err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	s.relay.Notify(ctx, rtdomain.MutationQuestionCreated, rtdomain.AffectedIDs{QuestionID: q.ID}, q)
	return q, nil
}

func (s *ForumService) UpdateQuestion(ctx context.Context, userID, id string, in QuestionInput) (domain.Question, error) {
	q, err := s.question(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if q.AuthorID != userID {
		return domain.Question{}, domain.ErrNotAuthor
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		q.Title = title
	}
	if content := strings.TrimSpace(in.Content); content != "" {
		q.Content = content
	}
	if in.Tags != nil {
		q.Tags = cleanTags(in.Tags)
	}
	q.UpdatedAt = s.now().UTC()
	if err := s.store.Replace(ctx, store.Questions, q.ID, q); err != nil {
		return domain.Question{}, err
	}
	s.relay.Notify(ctx, rtdomain.MutationQuestionUpdated, rtdomain.AffectedIDs{QuestionID: q.ID}, q)
	return q, nil
}

// DeleteQuestion removes the question and its answers.
func (s *ForumService) DeleteQuestion(ctx context.Context, userID, id string) error {
	q, err := s.question(ctx, id)
	if err != nil {
		return err
	}
	if q.AuthorID != userID {
		return domain.ErrNotAuthor
	}
	answers, err := s.answers(ctx, q.ID)
	if err != nil {
		return err
	}
	for _, a := range answers {
		if err := s.store.Delete(ctx, store.Answers, a.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("delete answer %s: %w", a.ID, err)
		}
	}
	if err := s.store.Delete(ctx, store.Questions, q.ID); err != nil {
		return err
	}
	s.relay.Notify(ctx, rtdomain.MutationQuestionDeleted, rtdomain.AffectedIDs{QuestionID: q.ID}, map[string]string{"id": q.ID})
	return nil
}

func (s *ForumService) question(ctx context.Context, id string) (domain.Question, error) {
	q, err := store.GetAs[domain.Question](ctx, s.store, store.Questions, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, err
}

func (s *ForumService) answers(ctx context.Context, questionID string) ([]domain.Answer, error) {
	answers, err := store.FindAs[domain.Answer](ctx, s.store, store.Answers, store.Filter{"questionId": questionID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(answers, func(i, j int) bool { return answers[i].CreatedAt.Before(answers[j].CreatedAt) })
	return answers, nil
}

// notifyAuthor tells the question author about an answer by someone else. Failures are logged only.
func (s *ForumService) notifyAuthor(ctx context.Context, q domain.Question, author Author) {
	if s.notifier == nil || q.AuthorID == "" || q.AuthorID == author.ID {
		return
	}
	name := author.Name
	if name == "" {
		name = "Someone"
	}
	_, err := s.notifier.Create(ctx, notifications.Notification{
		RecipientID: q.AuthorID,
		SenderID:    author.ID,
		Type:        notifications.TypeAnswer,
		Content:     fmt.Sprintf("%s answered your question: %q", name, q.Title),
		QuestionID:  q.ID,
		Link:        "/question/" + q.ID,
	})
	if err != nil {
		slog.Warn("answer notification failed", slog.String("questionId", q.ID), slog.Any("error", err))
	}
}

func cleanTags(values []string) []string {
	trimmed := lo.Map(values, func(v string, _ int) string { return strings.ToLower(strings.TrimSpace(v)) })
	return lo.Uniq(lo.Compact(trimmed))
}
