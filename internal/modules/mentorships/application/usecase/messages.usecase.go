package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"studentForum/internal/modules/mentorships/domain"
	rtdomain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/platform/store"
)

// Messages returns the mentorship conversation, oldest first. Only participants may read it.
func (s *MentorshipService) Messages(ctx context.Context, userID, mentorshipID string) ([]domain.Message, error) {
	m, err := s.Get(ctx, mentorshipID)
	if err != nil {
		return nil, err
	}
	if !m.IsParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}
	messages, err := store.FindAs[domain.Message](ctx, s.store, store.MentorshipMessages, store.Filter{"mentorshipId": m.ID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool { return messages[i].CreatedAt.Before(messages[j].CreatedAt) })
	return messages, nil
}

// IsParticipant reports whether userID may follow the mentorship's realtime room.
// An unknown mentorship yields false without an error.
func (s *MentorshipService) IsParticipant(ctx context.Context, mentorshipID, userID string) (bool, error) {
	m, err := s.Get(ctx, mentorshipID)
	if errors.Is(err, domain.ErrMentorshipNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.IsParticipant(userID), nil
}

func (s *MentorshipService) PostMessage(ctx context.Context, sender Actor, mentorshipID, content string) (domain.Message, error) {
	m, err := s.Get(ctx, mentorshipID)
	if err != nil {
		return domain.Message{}, err
	}
	if !m.IsParticipant(sender.ID) {
		return domain.Message{}, domain.ErrNotParticipant
	}
	msg := domain.Message{
		ID:           uuid.NewString(),
		MentorshipID: m.ID,
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		Content:      strings.TrimSpace(content),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Insert(ctx, store.MentorshipMessages, msg.ID, msg); err != nil {
		return domain.Message{}, fmt.Errorf("insert mentorship message: %w", err)
	}
	s.relay.Notify(ctx, rtdomain.MutationMentorshipMessageCreate, rtdomain.AffectedIDs{MentorshipID: m.ID, UserID: sender.ID}, msg)
	return msg, nil
}
