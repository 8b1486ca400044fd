package assist

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestRelay(t *testing.T) *Relay {
	t.Helper()

	r, err := NewRelay(Options{
		AtMostOnce: true,
		Now:        func() time.Time { return testClock },
	})
	require.NoError(t, err)
	return r
}

// attachConn registers a connection with the relay the way the event loop
// would, without running pumps. Frames queued for it are read straight from
// the send channel.
func attachConn(r *Relay) *conn {
	id := r.nextID.Add(1)
	c := &conn{
		id:     id,
		send:   make(chan []byte, sendQueueSize),
		logger: r.logger,
	}
	r.conns[id] = c
	return c
}

type receivedFrame struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func takeFrame(t *testing.T, c *conn) receivedFrame {
	t.Helper()

	select {
	case data := <-c.send:
		var f receivedFrame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	default:
		t.Fatal("expected a queued frame, send queue is empty")
		return receivedFrame{}
	}
}

func requireNoFrames(t *testing.T, c *conn) {
	t.Helper()
	require.Empty(t, c.send, "expected no queued frames")
}

func drainFrames(c *conn) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func joinVisitor(r *Relay, c *conn, sessionID, userName, page string) {
	payload := fmt.Sprintf(`{"sessionId":%q,"userName":%q`, sessionID, userName)
	if page != "" {
		payload += fmt.Sprintf(`,"page":%q`, page)
	}
	payload += "}"
	r.dispatch(c.id, []byte(`{"type":"JOIN_AS_USER","payload":`+payload+`}`))
}

func joinAdmin(r *Relay, c *conn, adminID int32, adminName string) {
	r.dispatch(c.id, []byte(fmt.Sprintf(
		`{"type":"JOIN_AS_ADMIN","payload":{"adminId":%d,"adminName":%q}}`, adminID, adminName)))
}

func TestNewRelayRequiresAtMostOnce(t *testing.T) {
	_, err := NewRelay(Options{})
	assert.Error(t, err)

	r, err := NewRelay(Options{AtMostOnce: true})
	assert.NoError(t, err)
	assert.NotNil(t, r)
}

func TestVisitorJoinBroadcastsToAllAdmins(t *testing.T) {
	r := newTestRelay(t)

	admin1 := attachConn(r)
	admin2 := attachConn(r)
	joinAdmin(r, admin1, 1, "Op One")
	joinAdmin(r, admin2, 2, "Op Two")
	drainFrames(admin1)
	drainFrames(admin2)

	visitor := attachConn(r)
	joinVisitor(r, visitor, "s1", "Alice", "/home")

	for _, admin := range []*conn{admin1, admin2} {
		f := takeFrame(t, admin)
		assert.Equal(t, TypeUserJoined, f.Type)

		var p map[string]any
		require.NoError(t, json.Unmarshal(f.Payload, &p))
		assert.Equal(t, "s1", p["sessionId"])
		assert.Equal(t, "Alice", p["userName"])
		assert.Equal(t, "/home", p["page"])

		// Optional identity fields are omitted entirely when absent.
		assert.NotContains(t, p, "userEmail")
		assert.NotContains(t, p, "userId")
	}

	// The joining visitor receives no acknowledgment.
	requireNoFrames(t, visitor)
}

func TestVisitorJoinDefaultsPageToUnknown(t *testing.T) {
	r := newTestRelay(t)

	admin := attachConn(r)
	joinAdmin(r, admin, 1, "Op")
	drainFrames(admin)

	visitor := attachConn(r)
	joinVisitor(r, visitor, "s1", "Alice", "")

	f := takeFrame(t, admin)
	var p map[string]any
	require.NoError(t, json.Unmarshal(f.Payload, &p))
	assert.Equal(t, "unknown", p["page"])
}

func TestAdminJoinSnapshotGoesOnlyToJoiner(t *testing.T) {
	r := newTestRelay(t)

	firstAdmin := attachConn(r)
	joinAdmin(r, firstAdmin, 1, "Op One")
	drainFrames(firstAdmin)

	visitor := attachConn(r)
	joinVisitor(r, visitor, "s1", "Alice", "/home")
	drainFrames(firstAdmin)

	joiner := attachConn(r)
	joinAdmin(r, joiner, 2, "Op Two")

	f := takeFrame(t, joiner)
	require.Equal(t, TypeAdminJoined, f.Type)

	var welcome AdminWelcomePayload
	require.NoError(t, json.Unmarshal(f.Payload, &welcome))
	require.Len(t, welcome.ActiveSessions, 1)
	assert.Equal(t, "s1", welcome.ActiveSessions[0].SessionID)
	require.Len(t, welcome.ActiveSessions[0].Users, 1)
	assert.Equal(t, "Alice", welcome.ActiveSessions[0].Users[0].UserName)
	assert.Equal(t, "/home", welcome.ActiveSessions[0].Users[0].Page)

	// Already-connected admins do not receive the snapshot.
	requireNoFrames(t, firstAdmin)
}

func TestAdminChatFansOutToSessionOnly(t *testing.T) {
	r := newTestRelay(t)

	admin := attachConn(r)
	joinAdmin(r, admin, 1, "Op One")
	drainFrames(admin)

	tabOne := attachConn(r)
	tabTwo := attachConn(r)
	other := attachConn(r)
	joinVisitor(r, tabOne, "s1", "Alice", "/home")
	joinVisitor(r, tabTwo, "s1", "Alice", "/pricing")
	joinVisitor(r, other, "s2", "Bob", "/home")
	drainFrames(admin)

	r.dispatch(admin.id, []byte(
		`{"type":"CHAT_MESSAGE","payload":{"message":"hi","sessionId":"s1","isFromAdmin":true}}`))

	for _, tab := range []*conn{tabOne, tabTwo} {
		f := takeFrame(t, tab)
		assert.Equal(t, TypeChatMessage, f.Type)

		var p ChatDeliveryPayload
		require.NoError(t, json.Unmarshal(f.Payload, &p))
		assert.Equal(t, "hi", p.Message)
		assert.Equal(t, "Op One", p.SenderName)
		assert.True(t, p.IsFromAdmin)
		assert.Equal(t, testClock.Format(time.RFC3339), p.Timestamp)
	}

	requireNoFrames(t, other)
	requireNoFrames(t, admin)
}

func TestAdminChatToEmptySessionIsDropped(t *testing.T) {
	r := newTestRelay(t)

	admin := attachConn(r)
	joinAdmin(r, admin, 1, "Op One")
	drainFrames(admin)

	r.dispatch(admin.id, []byte(
		`{"type":"CHAT_MESSAGE","payload":{"message":"anyone?","sessionId":"ghost","isFromAdmin":true}}`))

	// No error, no queueing for later delivery.
	requireNoFrames(t, admin)
}

func TestVisitorChatBroadcastsToAllAdmins(t *testing.T) {
	r := newTestRelay(t)

	admin1 := attachConn(r)
	admin2 := attachConn(r)
	joinAdmin(r, admin1, 1, "Op One")
	joinAdmin(r, admin2, 2, "Op Two")

	visitor := attachConn(r)
	joinVisitor(r, visitor, "s1", "Alice", "/home")
	drainFrames(admin1)
	drainFrames(admin2)

	r.dispatch(visitor.id, []byte(
		`{"type":"CHAT_MESSAGE","payload":{"message":"help please","isFromAdmin":false}}`))

	for _, admin := range []*conn{admin1, admin2} {
		f := takeFrame(t, admin)
		assert.Equal(t, TypeChatMessage, f.Type)

		var p ChatDeliveryPayload
		require.NoError(t, json.Unmarshal(f.Payload, &p))
		assert.Equal(t, "help please", p.Message)
		assert.Equal(t, "Alice", p.SenderName)
		assert.Equal(t, "s1", p.SessionID)
		assert.False(t, p.IsFromAdmin)
	}
}

func TestChatFromUnregisteredSenderIsIgnored(t *testing.T) {
	r := newTestRelay(t)

	admin := attachConn(r)
	joinAdmin(r, admin, 1, "Op One")
	drainFrames(admin)

	stranger := attachConn(r)
	r.dispatch(stranger.id, []byte(
		`{"type":"CHAT_MESSAGE","payload":{"message":"boo","isFromAdmin":false}}`))

	requireNoFrames(t, stranger)
	requireNoFrames(t, admin)
}

func TestDisconnectCleansSessionRegistry(t *testing.T) {
	r := newTestRelay(t)

	admin := attachConn(r)
	joinAdmin(r, admin, 1, "Op One")
	drainFrames(admin)

	visitor := attachConn(r)
	joinVisitor(r, visitor, "s1", "Alice", "/home")
	drainFrames(admin)

	r.handleDisconnect(visitor.id)

	// Join followed by disconnect restores the registry exactly.
	assert.Empty(t, r.visitors)
	assert.Empty(t, r.sessions)
	assert.NotContains(t, r.conns, visitor.id)

	f := takeFrame(t, admin)
	assert.Equal(t, TypeUserLeft, f.Type)

	var p VisitorLeftPayload
	require.NoError(t, json.Unmarshal(f.Payload, &p))
	assert.Equal(t, "s1", p.SessionID)
	assert.Equal(t, "Alice", p.UserName)
}

func TestSharedSessionSurvivesPartialDisconnect(t *testing.T) {
	r := newTestRelay(t)

	tabOne := attachConn(r)
	tabTwo := attachConn(r)
	joinVisitor(r, tabOne, "s1", "Alice", "/home")
	joinVisitor(r, tabTwo, "s1", "Alice", "/pricing")

	r.handleDisconnect(tabOne.id)

	require.Contains(t, r.sessions, "s1")
	assert.Len(t, r.sessions["s1"], 1)
	assert.Contains(t, r.visitors, tabTwo.id)

	r.handleDisconnect(tabTwo.id)

	// Last socket out removes the session key entirely: no dangling empty sets.
	assert.NotContains(t, r.sessions, "s1")
	assert.Empty(t, r.visitors)
}

func TestAdminDisconnectIsSilent(t *testing.T) {
	r := newTestRelay(t)

	leaving := attachConn(r)
	staying := attachConn(r)
	joinAdmin(r, leaving, 1, "Op One")
	joinAdmin(r, staying, 2, "Op Two")
	drainFrames(leaving)
	drainFrames(staying)

	visitor := attachConn(r)
	joinVisitor(r, visitor, "s1", "Alice", "/home")
	drainFrames(leaving)
	drainFrames(staying)

	r.handleDisconnect(leaving.id)

	assert.NotContains(t, r.admins, leaving.id)
	requireNoFrames(t, staying)
	requireNoFrames(t, visitor)
}

func TestMalformedFrameGetsErrorReplyAndConnectionSurvives(t *testing.T) {
	r := newTestRelay(t)

	c := attachConn(r)
	r.dispatch(c.id, []byte(`{not json`))

	f := takeFrame(t, c)
	require.Equal(t, TypeError, f.Type)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(f.Payload, &p))
	assert.NotEmpty(t, p.Message)

	// The connection stays open and can still join.
	joinVisitor(r, c, "s1", "Alice", "/home")
	assert.Contains(t, r.visitors, c.id)
}

func TestUnknownTypeGetsErrorReplyWithoutBroadcast(t *testing.T) {
	r := newTestRelay(t)

	admin := attachConn(r)
	joinAdmin(r, admin, 1, "Op One")
	drainFrames(admin)

	c := attachConn(r)
	r.dispatch(c.id, []byte(`{"type":"BOGUS"}`))

	f := takeFrame(t, c)
	require.Equal(t, TypeError, f.Type)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(f.Payload, &p))
	assert.NotEmpty(t, p.Message)

	requireNoFrames(t, admin)
}

func TestHandlerlessEnumTypeIsIgnored(t *testing.T) {
	r := newTestRelay(t)

	c := attachConn(r)
	r.dispatch(c.id, []byte(`{"type":"ADMIN_JOINED","payload":{}}`))

	// Known enum member with no handler: logged server-side, nothing surfaced.
	requireNoFrames(t, c)
}

func TestJoinPayloadValidation(t *testing.T) {
	r := newTestRelay(t)

	c := attachConn(r)

	// Missing userName.
	r.dispatch(c.id, []byte(`{"type":"JOIN_AS_USER","payload":{"sessionId":"s1"}}`))
	f := takeFrame(t, c)
	assert.Equal(t, TypeError, f.Type)
	assert.Empty(t, r.visitors)

	// Missing adminId.
	r.dispatch(c.id, []byte(`{"type":"JOIN_AS_ADMIN","payload":{"adminName":"Op"}}`))
	f = takeFrame(t, c)
	assert.Equal(t, TypeError, f.Type)
	assert.Empty(t, r.admins)
}

func TestVisitorChatUsesRegisteredSessionID(t *testing.T) {
	r := newTestRelay(t)

	admin := attachConn(r)
	joinAdmin(r, admin, 1, "Op One")

	visitor := attachConn(r)
	joinVisitor(r, visitor, "s1", "Alice", "/home")
	drainFrames(admin)

	// A spoofed payload sessionId is ignored in favor of the registration.
	r.dispatch(visitor.id, []byte(
		`{"type":"CHAT_MESSAGE","payload":{"message":"hi","sessionId":"spoofed","isFromAdmin":false}}`))

	f := takeFrame(t, admin)
	var p ChatDeliveryPayload
	require.NoError(t, json.Unmarshal(f.Payload, &p))
	assert.Equal(t, "s1", p.SessionID)
}
