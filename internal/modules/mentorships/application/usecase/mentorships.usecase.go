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

	"studentForum/internal/modules/mentorships/application/port"
	"studentForum/internal/modules/mentorships/domain"
	notifications "studentForum/internal/modules/notifications/domain"
	rtport "studentForum/internal/modules/realtime/application/port"
	rtdomain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/platform/store"
)

type Actor struct {
	ID   string
	Name string
}

// MentorshipInput carries the editable fields. On update, empty strings and nil slices keep the stored value.
type MentorshipInput struct {
	Title         string
	Description   string
	Category      string
	Status        string
	Duration      string
	Schedule      string
	Location      string
	Link          string
	CommunityLink string
	Deadline      string
	Requirements  []string
	Goals         []string
}

type MentorshipService struct {
	store    store.DocumentStore
	relay    rtport.Relay
	notifier port.Notifier
	now      func() time.Time
}

func NewMentorshipService(s store.DocumentStore, relay rtport.Relay, notifier port.Notifier) *MentorshipService {
	return &MentorshipService{store: s, relay: relay, notifier: notifier, now: time.Now}
}

// List returns mentorships newest first, optionally filtered.
func (s *MentorshipService) List(ctx context.Context, category, status, search string) ([]domain.Mentorship, error) {
	all, err := store.FindAs[domain.Mentorship](ctx, s.store, store.Mentorships, nil)
	if err != nil {
		return nil, err
	}
	out := lo.Filter(all, func(m domain.Mentorship, _ int) bool { return m.Matches(category, status, search) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MentorshipService) Get(ctx context.Context, id string) (domain.Mentorship, error) {
	m, err := store.GetAs[domain.Mentorship](ctx, s.store, store.Mentorships, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Mentorship{}, domain.ErrMentorshipNotFound
	}
	return m, err
}

func (s *MentorshipService) Create(ctx context.Context, mentor Actor, in MentorshipInput) (domain.Mentorship, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = domain.StatusOpen
	}
	if !domain.ValidStatus(status) {
		return domain.Mentorship{}, domain.ErrInvalidStatus
	}
	now := s.now().UTC()
	m := domain.Mentorship{
		ID:         uuid.NewString(),
		MentorID:   mentor.ID,
		MentorName: mentor.Name,
		Status:     status,
		Requests:   []domain.Request{},
		Mentees:    []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	apply(&m, in)
	if m.Requirements == nil {
		m.Requirements = []string{}
	}
	if m.Goals == nil {
		m.Goals = []string{}
	}
	if err := s.store.Insert(ctx, store.Mentorships, m.ID, m); err != nil {
		return domain.Mentorship{}, fmt.Errorf("insert mentorship: %w", err)
	}
	return m, nil
}

func (s *MentorshipService) Update(ctx context.Context, userID, id string, in MentorshipInput) (domain.Mentorship, error) {
	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return domain.Mentorship{}, err
	}
	if status := strings.TrimSpace(in.Status); status != "" {
		if !domain.ValidStatus(status) {
			return domain.Mentorship{}, domain.ErrInvalidStatus
		}
		m.Status = status
	}
	apply(&m, in)
	if err := s.saveAndRelay(ctx, &m, rtdomain.MutationMentorshipUpdated, nil); err != nil {
		return domain.Mentorship{}, err
	}
	return m, nil
}

// Delete removes the mentorship and its message history.
func (s *MentorshipService) Delete(ctx context.Context, userID, id string) error {
	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	messages, err := store.FindAs[domain.Message](ctx, s.store, store.MentorshipMessages, store.Filter{"mentorshipId": m.ID})
	if err != nil {
		return err
	}
	for _, msg := range messages {
		if err := s.store.Delete(ctx, store.MentorshipMessages, msg.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	if err := s.store.Delete(ctx, store.Mentorships, m.ID); err != nil {
		return err
	}
	s.relay.Notify(ctx, rtdomain.MutationMentorshipDeleted, rtdomain.AffectedIDs{MentorshipID: m.ID}, map[string]string{"id": m.ID})
	return nil
}

// Request adds a pending request from the actor and notifies the mentor.
func (s *MentorshipService) Request(ctx context.Context, mentee Actor, id, message string) (domain.Mentorship, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return domain.Mentorship{}, err
	}
	if m.MentorID == mentee.ID {
		return domain.Mentorship{}, domain.ErrOwnMentorship
	}
	if m.Status != domain.StatusOpen {
		return domain.Mentorship{}, domain.ErrNotAccepting
	}
	if lo.ContainsBy(m.Requests, func(r domain.Request) bool {
		return r.UserID == mentee.ID && r.Status != domain.RequestRejected
	}) {
		return domain.Mentorship{}, domain.ErrAlreadyRequested
	}
	req := domain.Request{
		UserID:    mentee.ID,
		UserName:  mentee.Name,
		Message:   strings.TrimSpace(message),
		Status:    domain.RequestPending,
		CreatedAt: s.now().UTC(),
	}
	m.Requests = append(m.Requests, req)
	if err := s.saveAndRelay(ctx, &m, rtdomain.MutationMentorshipRequested, req); err != nil {
		return domain.Mentorship{}, err
	}
	s.notify(ctx, notifications.Notification{
		RecipientID:  m.MentorID,
		SenderID:     mentee.ID,
		Type:         notifications.TypeMentorshipRequest,
		Content:      fmt.Sprintf("%s requested to join your mentorship: %q", displayName(mentee.Name), m.Title),
		MentorshipID: m.ID,
		Link:         "/mentorships/" + m.ID,
	})
	return m, nil
}

// Respond accepts or rejects a pending request. Accepted users become mentees.
func (s *MentorshipService) Respond(ctx context.Context, mentorID, id, menteeID string, accept bool) (domain.Mentorship, error) {
	m, err := s.owned(ctx, mentorID, id)
	if err != nil {
		return domain.Mentorship{}, err
	}
	_, idx, found := lo.FindIndexOf(m.Requests, func(r domain.Request) bool {
		return r.UserID == menteeID && r.Status == domain.RequestPending
	})
	if !found {
		return domain.Mentorship{}, domain.ErrRequestNotFound
	}
	verdict := "declined"
	if accept {
		m.Requests[idx].Status = domain.RequestAccepted
		m.Mentees = lo.Uniq(append(m.Mentees, menteeID))
		verdict = "accepted"
	} else {
		m.Requests[idx].Status = domain.RequestRejected
	}
	if err := s.saveAndRelay(ctx, &m, rtdomain.MutationMentorshipUpdated, nil); err != nil {
		return domain.Mentorship{}, err
	}
	s.notify(ctx, notifications.Notification{
		RecipientID:  menteeID,
		SenderID:     mentorID,
		Type:         notifications.TypeMentorshipReply,
		Content:      fmt.Sprintf("Your request for %q was %s", m.Title, verdict),
		MentorshipID: m.ID,
		Link:         "/mentorships/" + m.ID,
	})
	return m, nil
}

func (s *MentorshipService) owned(ctx context.Context, userID, id string) (domain.Mentorship, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return domain.Mentorship{}, err
	}
	if m.MentorID != userID {
		return domain.Mentorship{}, domain.ErrNotMentor
	}
	return m, nil
}

// saveAndRelay stamps and stores m, then relays kind. A nil payload relays the stored mentorship.
func (s *MentorshipService) saveAndRelay(ctx context.Context, m *domain.Mentorship, kind rtdomain.MutationKind, payload any) error {
	m.UpdatedAt = s.now().UTC()
	if err := s.store.Replace(ctx, store.Mentorships, m.ID, m); err != nil {
		return err
	}
	if payload == nil {
		payload = *m
	}
	s.relay.Notify(ctx, kind, rtdomain.AffectedIDs{MentorshipID: m.ID}, payload)
	return nil
}

func (s *MentorshipService) notify(ctx context.Context, n notifications.Notification) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Create(ctx, n); err != nil {
		slog.Warn("mentorship notification failed", slog.String("mentorshipId", n.MentorshipID), slog.String("recipientId", n.RecipientID), slog.Any("error", err))
	}
}

func apply(m *domain.Mentorship, in MentorshipInput) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&m.Title, in.Title)
	set(&m.Description, in.Description)
	set(&m.Category, in.Category)
	set(&m.Duration, in.Duration)
	set(&m.Schedule, in.Schedule)
	set(&m.Location, in.Location)
	set(&m.Link, in.Link)
	set(&m.CommunityLink, in.CommunityLink)
	set(&m.Deadline, in.Deadline)
	if in.Requirements != nil {
		m.Requirements = cleanList(in.Requirements)
	}
	if in.Goals != nil {
		m.Goals = cleanList(in.Goals)
	}
}

func cleanList(values []string) []string {
	return lo.Compact(lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) }))
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Someone"
	}
	return name
}
