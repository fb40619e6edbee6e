package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"studentForum/internal/modules/realtime/application/usecase"
	domain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/modules/realtime/infrastructure"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
)

type testServer struct {
	url   string
	hub   *infrastructure.Hub
	relay *usecase.RelayUseCase
	jwt   *auth.JWTManager
}

func newTestServer(t *testing.T, opts SocketOptions, strict bool) *testServer {
	t.Helper()
	hub := infrastructure.NewHub(infrastructure.OverflowDisconnect)
	relay := usecase.NewRelayUseCase(hub)
	broadcastUC := usecase.NewBroadcastUseCase(hub)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	e := echo.New()
	e.Validator = httputil.NewRequestValidator()
	var guard infrastructure.TopicGuard
	if strict {
		guard = infrastructure.NewStrictTopicGuard(func(_ context.Context, mentorshipID, userID string) (bool, error) {
			return mentorshipID == "m1" && userID == "u1", nil
		})
	}
	e.GET("/ws", NewWebsocketHandler(hub, NewCommandProcessor(hub, broadcastUC, guard), jwtManager, opts))
	NewHandler(hub, relay, broadcastUC).Register(e.Group("/api"), auth.RequireAuth(jwtManager), auth.RequireRole(auth.RoleAdmin, auth.RoleService))

	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &testServer{url: srv.URL, hub: hub, relay: relay, jwt: jwtManager}
}

type wireFrame struct {
	Topic    string            `json:"topic"`
	Event    string            `json:"event"`
	Data     json.RawMessage   `json:"data"`
	Metadata map[string]string `json:"metadata"`
}

func (s *testServer) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.url, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	connected := readWire(t, conn)
	require.Equal(t, string(domain.KindConnected), connected.Event)
	require.NotEmpty(t, connected.Metadata["sessionId"])
	return conn
}

func readWire(t *testing.T, conn *websocket.Conn) wireFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f wireFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func send(t *testing.T, conn *websocket.Conn, cmd map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(cmd))
}

func TestJoinThenReceiveRelayedMutation(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, SocketOptions{SendBuffer: 8}, false)
	conn := srv.dial(t, "")

	send(t, conn, map[string]any{"action": "join", "topic": "question:42"})
	joined := readWire(t, conn)
	req.Equal(string(domain.KindJoined), joined.Event)

	srv.relay.Notify(context.Background(), domain.MutationAnswerCreated, domain.AffectedIDs{QuestionID: "42"}, map[string]string{"id": "a1"})
	evt := readWire(t, conn)
	req.Equal("question:42", evt.Topic)
	req.Equal(string(domain.KindNewAnswer), evt.Event)
	req.JSONEq(`{"id":"a1"}`, string(evt.Data))

	send(t, conn, map[string]any{"action": "leave", "topic": "question:42"})
	req.Equal(string(domain.KindLeft), readWire(t, conn).Event)
	req.Eventually(func() bool { return len(srv.hub.Members("question:42")) == 0 }, time.Second, 10*time.Millisecond)
}

func TestMalformedFrameKeepsMemberships(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, SocketOptions{SendBuffer: 8}, false)
	conn := srv.dial(t, "")

	send(t, conn, map[string]any{"action": "join", "topic": "question:42"})
	req.Equal(string(domain.KindJoined), readWire(t, conn).Event)

	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	errFrame := readWire(t, conn)
	req.Equal(string(domain.KindError), errFrame.Event)
	req.JSONEq(`{"error":"invalid frame"}`, string(errFrame.Data))

	send(t, conn, map[string]any{"action": "join-question", "topic": 7})
	joined := readWire(t, conn)
	req.Equal(string(domain.KindJoined), joined.Event)
	req.JSONEq(`{"topic":"question:7"}`, string(joined.Data))

	req.Len(srv.hub.Members("question:42"), 1)
	req.Equal(1, srv.hub.Publish(context.Background(), domain.NewEvent("question:42", domain.KindQuestionUpdated, nil)))
	req.Equal("question:42", readWire(t, conn).Topic)
}

func TestNewMessagePassthrough(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, SocketOptions{SendBuffer: 8}, false)
	listener := srv.dial(t, "")
	sender := srv.dial(t, "")

	send(t, listener, map[string]any{"action": "join", "topic": "chat:c1"})
	req.Equal(string(domain.KindJoined), readWire(t, listener).Event)

	send(t, sender, map[string]any{"action": "new-message", "payload": map[string]any{"chatId": "c1", "content": "hi"}})
	evt := readWire(t, listener)
	req.Equal("chat:c1", evt.Topic)
	req.Equal(string(domain.KindMessageReceived), evt.Event)
	req.JSONEq(`{"chatId":"c1","content":"hi"}`, string(evt.Data))

	send(t, sender, map[string]any{"action": "new-message", "payload": map[string]any{"content": "lost"}})
	errFrame := readWire(t, sender)
	req.Equal(string(domain.KindError), errFrame.Event)
}

func TestRequireAuthRejectsAnonymousUpgrade(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, SocketOptions{RequireAuth: true}, false)
	url := "ws" + strings.TrimPrefix(srv.url, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	req.Error(err)
	req.NotNil(resp)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	token, err := srv.jwt.Issue("u1", "Uma", nil)
	req.NoError(err)
	srv.dial(t, token)
}

func TestStrictTopicsGuardNotificationFeeds(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, SocketOptions{SendBuffer: 8}, true)
	token, err := srv.jwt.Issue("u1", "Uma", nil)
	req.NoError(err)
	conn := srv.dial(t, token)

	send(t, conn, map[string]any{"action": "join", "topic": "user-notifications:u2"})
	req.Equal(string(domain.KindError), readWire(t, conn).Event)

	send(t, conn, map[string]any{"action": "join", "topic": "lobby"})
	req.Equal(string(domain.KindError), readWire(t, conn).Event)

	send(t, conn, map[string]any{"action": "join", "topic": "user-notifications:u1"})
	req.Equal(string(domain.KindJoined), readWire(t, conn).Event)

	send(t, conn, map[string]any{"action": "join", "topic": "mentorship:m2"})
	req.Equal(string(domain.KindError), readWire(t, conn).Event)

	send(t, conn, map[string]any{"action": "join-mentorship", "topic": "m1"})
	req.Equal(string(domain.KindJoined), readWire(t, conn).Event)
}

func TestNotifyEndpoint(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, SocketOptions{SendBuffer: 8}, false)
	conn := srv.dial(t, "")
	send(t, conn, map[string]any{"action": "join", "topic": "user-notifications:u9"})
	req.Equal(string(domain.KindJoined), readWire(t, conn).Event)

	userToken, err := srv.jwt.Issue("u1", "", nil)
	req.NoError(err)
	serviceToken, err := srv.jwt.Issue("mailer", "", []string{auth.RoleService})
	req.NoError(err)

	post := func(token, body string) *http.Response {
		r, err := http.NewRequest(http.MethodPost, srv.url+"/api/realtime/notify", strings.NewReader(body))
		req.NoError(err)
		r.Header.Set("Content-Type", "application/json")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(r)
		req.NoError(err)
		_ = resp.Body.Close()
		return resp
	}

	body := `{"kind":"notification-created","ids":{"userId":"u9"},"payload":{"content":"ping"}}`
	req.Equal(http.StatusUnauthorized, post("", body).StatusCode)
	req.Equal(http.StatusForbidden, post(userToken, body).StatusCode)
	req.Equal(http.StatusBadRequest, post(serviceToken, `{"kind":"teleported"}`).StatusCode)
	req.Equal(http.StatusBadRequest, post(serviceToken, `{"kind":"answer-created","ids":{}}`).StatusCode)
	req.Equal(http.StatusOK, post(serviceToken, body).StatusCode)

	evt := readWire(t, conn)
	req.Equal("user-notifications:u9", evt.Topic)
	req.Equal(string(domain.KindNewNotification), evt.Event)
}

func TestStatsEndpoint(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, SocketOptions{SendBuffer: 8}, false)
	srv.dial(t, "")
	adminToken, err := srv.jwt.Issue("root", "", []string{auth.RoleAdmin})
	req.NoError(err)

	r, err := http.NewRequest(http.MethodGet, srv.url+"/api/realtime/stats", nil)
	req.NoError(err)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := http.DefaultClient.Do(r)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var stats infrastructure.HubStats
	req.NoError(json.NewDecoder(resp.Body).Decode(&stats))
	req.Equal(1, stats.Sessions)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000/"})
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	require.True(t, check(r))
	r.Header.Set("Origin", "http://LOCALHOST:3000")
	require.True(t, check(r))
	r.Header.Set("Origin", "http://evil.example")
	require.False(t, check(r))
	require.True(t, originChecker([]string{"*"})(r))
}
