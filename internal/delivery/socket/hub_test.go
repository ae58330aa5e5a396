package socket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"committeehub/internal/domain"
)

func startHub(t *testing.T, svc *memCommittees) (*Hub, string) {
	t.Helper()
	router := NewRouter(discardLogger())
	NewCommitteeHandlers(discardLogger(), svc, &fakeAuth{}).Register(router)
	hub := NewHub(router, discardLogger())
	srv := httptest.NewServer(hub.ServeWS(NewUpgrader(nil, true)))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Event: event, Data: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 5*time.Second, 10*time.Millisecond)
}

func TestHub_CreateBroadcastsToEveryConnection(t *testing.T) {
	hub, url := startHub(t, newMemCommittees())
	admin := dial(t, url)
	observer := dial(t, url)
	waitForClients(t, hub, 2)

	send(t, admin, EventCreateCommittee, map[string]string{
		"token": "admin-token", "title": "Tech Club", "description": "d",
		"location": "Room 1", "meeting_time": "Mon 5pm", "head": "Alice",
	})

	// The requester gets its success reply first, then the broadcast list.
	reply := receive(t, admin)
	assert.Equal(t, EventCreateCommittee, reply.Event)
	assert.JSONEq(t, `{"success":"`+MsgCommitteeCreated+`"}`, string(reply.Data))
	list := receive(t, admin)
	assert.Equal(t, EventGetCommittees, list.Event)
	assert.JSONEq(t, `{"committees":[{"id":"techclub","title":"Tech Club"}],"count":1}`, string(list.Data))

	// The observer sent nothing and only sees the broadcast.
	seen := receive(t, observer)
	assert.Equal(t, EventGetCommittees, seen.Event)
	assert.JSONEq(t, `{"committees":[{"id":"techclub","title":"Tech Club"}],"count":1}`, string(seen.Data))

	send(t, observer, EventGetCommittee, "techclub")
	got := receive(t, observer)
	assert.Equal(t, EventGetCommittee, got.Event)
	var c domain.Committee
	require.NoError(t, json.Unmarshal(got.Data, &c))
	assert.Equal(t, *domain.NewCommittee("Tech Club", "d", "Room 1", "Mon 5pm", "Alice"), c)
}

func TestHub_RepliesStayWithSender(t *testing.T) {
	hub, url := startHub(t, newMemCommittees())
	a := dial(t, url)
	b := dial(t, url)
	waitForClients(t, hub, 2)

	send(t, a, EventGetCommittee, "doesnotexist")
	got := receive(t, a)
	assert.Equal(t, EventGetCommittee, got.Event)
	assert.JSONEq(t, `{"error":"Committee doesn't exist."}`, string(got.Data))

	// b must not have received anything: its next frame is the reply to its own request.
	send(t, b, EventGetCommittees, nil)
	own := receive(t, b)
	assert.Equal(t, EventGetCommittees, own.Event)
	assert.JSONEq(t, `{"committees":[],"count":0}`, string(own.Data))
}

func TestHub_PreservesPerConnectionOrder(t *testing.T) {
	hub, url := startHub(t, newMemCommittees(domain.NewCommittee("Tech Club", "d", "Room 1", "Mon 5pm", "Alice")))
	conn := dial(t, url)
	waitForClients(t, hub, 1)

	send(t, conn, EventGetCommittee, "techclub")
	send(t, conn, EventGetCommittee, "missing")
	send(t, conn, "nope", nil)

	first := receive(t, conn)
	assert.Contains(t, string(first.Data), `"id":"techclub"`)
	second := receive(t, conn)
	assert.Contains(t, string(second.Data), `"error"`)
	third := receive(t, conn)
	assert.Equal(t, EventError, third.Event)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, url := startHub(t, newMemCommittees())
	conn := dial(t, url)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
	require.NoError(t, hub.Broadcast(EventGetCommittees, domain.NewCommitteeList(nil)))
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub, url := startHub(t, newMemCommittees())
	conn := dial(t, url)
	waitForClients(t, hub, 1)

	hub.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, hub.Count())
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://svc.example/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	anyOrigin := NewUpgrader(nil, true)
	assert.True(t, anyOrigin.CheckOrigin(req("https://evil.example")))

	listed := NewUpgrader([]string{"https://app.example"}, false)
	assert.True(t, listed.CheckOrigin(req("https://app.example")))
	assert.False(t, listed.CheckOrigin(req("https://evil.example")))

	assert.Nil(t, NewUpgrader(nil, false).CheckOrigin)
}

func TestClient_EnqueueAfterCloseIsDropped(t *testing.T) {
	c := &Client{id: "c1", send: make(chan []byte, 1)}
	assert.True(t, c.enqueue([]byte("a")))
	assert.False(t, c.enqueue([]byte("b")), "queue full")
	c.close()
	c.close()
	assert.False(t, c.enqueue([]byte("c")))
}
