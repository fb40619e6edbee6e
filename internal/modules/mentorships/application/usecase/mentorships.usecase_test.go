package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studentForum/internal/modules/mentorships/domain"
	notifications "studentForum/internal/modules/notifications/domain"
	rtdomain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/platform/store"
)

type relayCall struct {
	kind    rtdomain.MutationKind
	ids     rtdomain.AffectedIDs
	payload any
}

type fakeRelay struct{ calls []relayCall }

func (f *fakeRelay) Notify(_ context.Context, kind rtdomain.MutationKind, ids rtdomain.AffectedIDs, payload any) {
	f.calls = append(f.calls, relayCall{kind, ids, payload})
}

func (f *fakeRelay) kinds() []rtdomain.MutationKind {
	out := make([]rtdomain.MutationKind, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.kind)
	}
	return out
}

type fakeNotifier struct{ sent []notifications.Notification }

func (f *fakeNotifier) Create(_ context.Context, n notifications.Notification) (notifications.Notification, error) {
	f.sent = append(f.sent, n)
	return n, nil
}

func newMentorships(t *testing.T) (*MentorshipService, *fakeRelay, *fakeNotifier) {
	t.Helper()
	s, err := store.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	relay, notifier := &fakeRelay{}, &fakeNotifier{}
	svc := NewMentorshipService(s, relay, notifier)
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc, relay, notifier
}

var (
	mentor = Actor{ID: "mentor", Name: "Maya"}
	mentee = Actor{ID: "mentee", Name: "Nico"}
	other  = Actor{ID: "other", Name: "Olga"}
)

func TestMentorshipLifecycle(t *testing.T) {
	req := require.New(t)
	svc, relay, _ := newMentorships(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, mentor, MentorshipInput{Title: "Intro to Go", Description: "Weekly sessions", Category: "Programming", Goals: []string{" ship a CLI ", ""}})
	req.NoError(err)
	req.Equal(domain.StatusOpen, m.Status)
	req.Equal([]string{"ship a CLI"}, m.Goals)
	req.Empty(m.Requirements)
	req.Empty(relay.calls)

	_, err = svc.Create(ctx, mentor, MentorshipInput{Title: "Bad", Status: "paused"})
	req.ErrorIs(err, domain.ErrInvalidStatus)

	_, err = svc.Update(ctx, other.ID, m.ID, MentorshipInput{Title: "Mine now"})
	req.ErrorIs(err, domain.ErrNotMentor)

	updated, err := svc.Update(ctx, mentor.ID, m.ID, MentorshipInput{Status: domain.StatusInProgress})
	req.NoError(err)
	req.Equal("Intro to Go", updated.Title)
	req.Equal(domain.StatusInProgress, updated.Status)
	req.True(updated.UpdatedAt.After(m.UpdatedAt))

	stored, err := svc.Get(ctx, m.ID)
	req.NoError(err)
	req.Equal(updated.UpdatedAt, stored.UpdatedAt)

	found, err := svc.List(ctx, "programming", "in-progress", "go")
	req.NoError(err)
	req.Len(found, 1)
	found, err = svc.List(ctx, "design", "", "")
	req.NoError(err)
	req.Empty(found)

	req.ErrorIs(svc.Delete(ctx, other.ID, m.ID), domain.ErrNotMentor)
	req.NoError(svc.Delete(ctx, mentor.ID, m.ID))
	_, err = svc.Get(ctx, m.ID)
	req.ErrorIs(err, domain.ErrMentorshipNotFound)

	req.Equal([]rtdomain.MutationKind{rtdomain.MutationMentorshipUpdated, rtdomain.MutationMentorshipDeleted}, relay.kinds())
	for _, c := range relay.calls {
		req.Equal(m.ID, c.ids.MentorshipID)
	}
}

func TestRequestAndRespond(t *testing.T) {
	req := require.New(t)
	svc, relay, notifier := newMentorships(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, mentor, MentorshipInput{Title: "Calculus help", Description: "Exam prep", Category: "Math"})
	req.NoError(err)

	_, err = svc.Request(ctx, mentor, m.ID, "me too")
	req.ErrorIs(err, domain.ErrOwnMentorship)

	requested, err := svc.Request(ctx, mentee, m.ID, " please ")
	req.NoError(err)
	req.Len(requested.Requests, 1)
	req.Equal(domain.RequestPending, requested.Requests[0].Status)
	req.Equal("please", requested.Requests[0].Message)

	_, err = svc.Request(ctx, mentee, m.ID, "again")
	req.ErrorIs(err, domain.ErrAlreadyRequested)

	_, err = svc.Respond(ctx, other.ID, m.ID, mentee.ID, true)
	req.ErrorIs(err, domain.ErrNotMentor)
	_, err = svc.Respond(ctx, mentor.ID, m.ID, other.ID, true)
	req.ErrorIs(err, domain.ErrRequestNotFound)

	accepted, err := svc.Respond(ctx, mentor.ID, m.ID, mentee.ID, true)
	req.NoError(err)
	req.Equal(domain.RequestAccepted, accepted.Requests[0].Status)
	req.Equal([]string{mentee.ID}, accepted.Mentees)
	req.True(accepted.IsParticipant(mentee.ID))

	req.Equal([]rtdomain.MutationKind{rtdomain.MutationMentorshipRequested, rtdomain.MutationMentorshipUpdated}, relay.kinds())
	req.IsType(domain.Request{}, relay.calls[0].payload)

	req.Len(notifier.sent, 2)
	req.Equal(mentor.ID, notifier.sent[0].RecipientID)
	req.Equal(notifications.TypeMentorshipRequest, notifier.sent[0].Type)
	req.Equal(mentee.ID, notifier.sent[1].RecipientID)
	req.Equal(notifications.TypeMentorshipReply, notifier.sent[1].Type)
	req.Contains(notifier.sent[1].Content, "accepted")
}

func TestRequestRejectedWhenClosed(t *testing.T) {
	req := require.New(t)
	svc, _, notifier := newMentorships(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, mentor, MentorshipInput{Title: "Closed circle", Status: domain.StatusClosed})
	req.NoError(err)
	_, err = svc.Request(ctx, mentee, m.ID, "")
	req.ErrorIs(err, domain.ErrNotAccepting)
	req.Empty(notifier.sent)

	_, err = svc.Request(ctx, mentee, "missing", "")
	req.ErrorIs(err, domain.ErrMentorshipNotFound)
}

func TestMessagesAreParticipantOnly(t *testing.T) {
	req := require.New(t)
	svc, relay, _ := newMentorships(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, mentor, MentorshipInput{Title: "Physics lab", Category: "Science"})
	req.NoError(err)

	_, err = svc.PostMessage(ctx, mentee, m.ID, "hello")
	req.ErrorIs(err, domain.ErrNotParticipant)

	_, err = svc.Request(ctx, mentee, m.ID, "")
	req.NoError(err)
	_, err = svc.Respond(ctx, mentor.ID, m.ID, mentee.ID, true)
	req.NoError(err)

	first, err := svc.PostMessage(ctx, mentor, m.ID, "welcome")
	req.NoError(err)
	_, err = svc.PostMessage(ctx, mentee, m.ID, " thanks ")
	req.NoError(err)

	messages, err := svc.Messages(ctx, mentee.ID, m.ID)
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal(first.ID, messages[0].ID)
	req.Equal("thanks", messages[1].Content)

	_, err = svc.Messages(ctx, other.ID, m.ID)
	req.ErrorIs(err, domain.ErrNotParticipant)

	last := relay.calls[len(relay.calls)-1]
	req.Equal(rtdomain.MutationMentorshipMessageCreate, last.kind)
	req.Equal(rtdomain.AffectedIDs{MentorshipID: m.ID, UserID: mentee.ID}, last.ids)

	req.NoError(svc.Delete(ctx, mentor.ID, m.ID))
	_, err = svc.Messages(ctx, mentor.ID, m.ID)
	req.ErrorIs(err, domain.ErrMentorshipNotFound)
}

func TestIsParticipantForRealtimeRooms(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newMentorships(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, mentor, MentorshipInput{Title: "Essay review", Category: "Writing"})
	req.NoError(err)

	ok, err := svc.IsParticipant(ctx, m.ID, mentor.ID)
	req.NoError(err)
	req.True(ok)

	ok, err = svc.IsParticipant(ctx, m.ID, mentee.ID)
	req.NoError(err)
	req.False(ok)

	_, err = svc.Request(ctx, mentee, m.ID, "")
	req.NoError(err)
	_, err = svc.Respond(ctx, mentor.ID, m.ID, mentee.ID, true)
	req.NoError(err)

	ok, err = svc.IsParticipant(ctx, m.ID, mentee.ID)
	req.NoError(err)
	req.True(ok)

	ok, err = svc.IsParticipant(ctx, "missing", mentor.ID)
	req.NoError(err)
	req.False(ok)
}
