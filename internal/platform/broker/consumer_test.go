package broker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studentForum/internal/modules/realtime/domain"
)

func TestDecodeMutationNativeEnvelope(t *testing.T) {
	body := []byte(`{"kind":"Answer-Created","ids":{"questionId":"q1","answerId":"a1"},"payload":{"content":"hi"}}`)

	mutation, err := DecodeMutation("forum.mutations", body)
	require.NoError(t, err)
	require.Equal(t, domain.MutationAnswerCreated, mutation.Kind)
	require.Equal(t, "q1", mutation.IDs.QuestionID)
	require.Equal(t, "a1", mutation.IDs.AnswerID)
	require.Equal(t, map[string]any{"content": "hi"}, mutation.Payload)
}

func TestDecodeMutationEntityEnvelope(t *testing.T) {
	body := []byte(`{"entity":"questions","action":"edited","resourceId":"q7","data":{"title":"t"}}`)

	mutation, err := DecodeMutation("forum.events", body)
	require.NoError(t, err)
	require.Equal(t, domain.MutationQuestionUpdated, mutation.Kind)
	require.Equal(t, "q7", mutation.IDs.QuestionID)
	require.Equal(t, map[string]any{"title": "t"}, mutation.Payload)
}

func TestDecodeMutationMetadataIDs(t *testing.T) {
	body := []byte(`{"entity":"notification","action":"create","resourceId":"n1","metadata":{"userId":"u9"}}`)

	mutation, err := DecodeMutation("forum.events", body)
	require.NoError(t, err)
	require.Equal(t, domain.MutationNotificationCreated, mutation.Kind)
	require.Equal(t, "u9", mutation.IDs.UserID)
}

func TestDecodeMutationChatMessageCreated(t *testing.T) {
	body := []byte(`{"resourceId":"msg-5","metadata":{"chatId":"c2"},"data":{"content":"hello"}}`)

	mutation, err := DecodeMutation("forum.chat.created", body)
	require.NoError(t, err)
	require.Equal(t, domain.MutationChatMessageAppended, mutation.Kind)
	require.Equal(t, "c2", mutation.IDs.ChatID)

	targets, err := domain.Route(mutation.Kind, mutation.IDs)
	require.NoError(t, err)
	require.Equal(t, []domain.Target{{Topic: "chat:c2", Kind: domain.KindMessageReceived}}, targets)

	withoutChat, err := DecodeMutation("forum.chat.created", []byte(`{"resourceId":"msg-5"}`))
	require.NoError(t, err)
	require.Empty(t, withoutChat.IDs.ChatID)
}

func TestDecodeMutationInfersFromTopic(t *testing.T) {
	body := []byte(`{"resourceId":"m3"}`)

	mutation, err := DecodeMutation("forum.mentorship.deleted", body)
	require.NoError(t, err)
	require.Equal(t, domain.MutationMentorshipDeleted, mutation.Kind)
	require.Equal(t, "m3", mutation.IDs.MentorshipID)
}

func TestDecodeMutationRejectsGarbage(t *testing.T) {
	_, err := DecodeMutation("forum", []byte(`not json`))
	require.Error(t, err)

	_, err = DecodeMutation("forum", []byte(`{"resourceId":"x"}`))
	require.ErrorIs(t, err, errUndecodable)
}
