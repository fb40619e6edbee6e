package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"studentForum/internal/modules/forum/domain"
	rtdomain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/platform/store"
)

func (s *ForumService) CreateAnswer(ctx context.Context, author Author, questionID, content string) (domain.Answer, error) {
	q, err := s.question(ctx, questionID)
	if err != nil {
		return domain.Answer{}, err
	}
	now := s.now().UTC()
	a := domain.Answer{
		ID:         uuid.NewString(),
		QuestionID: q.ID,
		Content:    strings.TrimSpace(content),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Upvotes:    []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, store.Answers, a.ID, a); err != nil {
		return domain.Answer{}, fmt.Errorf("insert answer: %w", err)
	}
	q.Answers++
	if err := s.store.Replace(ctx, store.Questions, q.ID, q); err != nil {
		return domain.Answer{}, err
	}
	s.relay.Notify(ctx, rtdomain.MutationAnswerCreated, rtdomain.AffectedIDs{QuestionID: q.ID, AnswerID: a.ID}, a)
	s.notifyAuthor(ctx, q, author)
	return a, nil
}

func (s *ForumService) UpdateAnswer(ctx context.Context, userID, id, content string) (domain.Answer, error) {
	a, err := s.answer(ctx, id)
	if err != nil {
		return domain.Answer{}, err
	}
	if a.AuthorID != userID {
		return domain.Answer{}, domain.ErrNotAuthor
	}
	a.Content = strings.TrimSpace(content)
	a.UpdatedAt = s.now().UTC()
	return a, s.saveAnswer(ctx, a)
}

// ToggleUpvote adds or removes the user's upvote.
func (s *ForumService) ToggleUpvote(ctx context.Context, userID, id string) (domain.Answer, error) {
	a, err := s.answer(ctx, id)
	if err != nil {
		return domain.Answer{}, err
	}
	if lo.Contains(a.Upvotes, userID) {
		a.Upvotes = lo.Without(a.Upvotes, userID)
	} else {
		a.Upvotes = append(a.Upvotes, userID)
	}
	return a, s.saveAnswer(ctx, a)
}

func (s *ForumService) DeleteAnswer(ctx context.Context, userID, id string) error {
	a, err := s.answer(ctx, id)
	if err != nil {
		return err
	}
	if a.AuthorID != userID {
		return domain.ErrNotAuthor
	}
	if err := s.store.Delete(ctx, store.Answers, a.ID); err != nil {
		return err
	}
	if q, err := s.question(ctx, a.QuestionID); err == nil && q.Answers > 0 {
		q.Answers--
		if err := s.store.Replace(ctx, store.Questions, q.ID, q); err != nil {
			return err
		}
	}
	s.relay.Notify(ctx, rtdomain.MutationAnswerDeleted, rtdomain.AffectedIDs{QuestionID: a.QuestionID, AnswerID: a.ID}, map[string]string{"id": a.ID, "questionId": a.QuestionID})
	return nil
}

func (s *ForumService) saveAnswer(ctx context.Context, a domain.Answer) error {
	if err := s.store.Replace(ctx, store.Answers, a.ID, a); err != nil {
		return err
	}
	s.relay.Notify(ctx, rtdomain.MutationAnswerUpdated, rtdomain.AffectedIDs{QuestionID: a.QuestionID, AnswerID: a.ID}, a)
	return nil
}

func (s *ForumService) answer(ctx context.Context, id string) (domain.Answer, error) {
	a, err := store.GetAs[domain.Answer](ctx, s.store, store.Answers, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Answer{}, domain.ErrAnswerNotFound
	}
	return a, err
}
