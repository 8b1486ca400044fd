/*
Package assist contains the remote-assistance relay.

This file defines the Relay struct, the owner of all connection and session
registries. A single event-loop goroutine processes attach, frame and
disconnect events one at a time, so the registries need no locking: every
read-modify-write happens inside the loop.
*/
package assist

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"kwakhanya/internal/pkg/logx"
)

const eventQueueSize = 256

// Visitor is the registration record for a connected visitor socket. It is
// created by a valid JOIN_AS_USER frame and destroyed on disconnect.
type Visitor struct {
	connID    uint64
	UserID    *int32
	UserName  string
	UserEmail *string
	SessionID string
	Page      string
}

// Admin is the registration record for a connected admin socket.
type Admin struct {
	connID    uint64
	AdminID   int32
	AdminName string

	// Sessions tracks which sessions the admin has opened. It is populated
	// for parity with the operator dashboard but is not consulted when
	// fanning out visitor events: every admin receives every visitor-sourced
	// broadcast regardless of this set.
	Sessions map[string]struct{}
}

// Options configures a Relay.
type Options struct {
	// AtMostOnce acknowledges the delivery contract: frames are relayed
	// best-effort, with no persistence, acknowledgment or replay. The relay
	// refuses to start under any other contract.
	AtMostOnce bool

	// Now supplies timestamps for relayed chat messages. Defaults to
	// time.Now. Injected so tests can pin the clock.
	Now func() time.Time
}

type frame struct {
	connID uint64
	data   []byte
}

// Relay accepts visitor and admin sockets, tracks which visitor sockets
// belong to which named session, and forwards chat and presence events
// between the two sides. All state lives in process memory for the lifetime
// of the Relay; nothing is persisted.
type Relay struct {
	opts Options

	// Registries. Owned exclusively by the Run goroutine.
	conns    map[uint64]*conn
	visitors map[uint64]*Visitor
	admins   map[uint64]*Admin

	// sessions maps a session identifier to the set of visitor connection
	// ids joined under it. Invariant: a key is removed the moment its set
	// becomes empty, and every member id has a visitors entry.
	sessions map[string]map[uint64]struct{}

	// nextID assigns opaque connection ids. Atomic because HandleConn runs
	// in per-connection handler goroutines.
	nextID atomic.Uint64

	attach      chan *conn
	frames      chan frame
	disconnects chan uint64
	stopCh      chan struct{}
	doneCh      chan struct{}

	logger zerolog.Logger
}

// NewRelay constructs a Relay. The caller owns the listening server; the
// relay is only handed upgraded connections via HandleConn.
func NewRelay(opts Options) (*Relay, error) {
	if !opts.AtMostOnce {
		return nil, errors.New("assist: relay only supports at-most-once delivery")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Relay{
		opts:        opts,
		conns:       make(map[uint64]*conn),
		visitors:    make(map[uint64]*Visitor),
		admins:      make(map[uint64]*Admin),
		sessions:    make(map[string]map[uint64]struct{}),
		attach:      make(chan *conn),
		frames:      make(chan frame, eventQueueSize),
		disconnects: make(chan uint64, eventQueueSize),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logx.Logger().With().Str("component", "AssistRelay").Logger(),
	}, nil
}

// Run starts the relay event loop. It blocks until Shutdown is called and
// must run in its own goroutine.
func (r *Relay) Run() {
	defer func() {
		for _, c := range r.conns {
			c.shutdown()
		}
		close(r.doneCh)
		r.logger.Info().Msg("Relay event loop stopped.")
	}()

	r.logger.Info().Msg("Relay event loop started.")

	for {
		select {
		case c := <-r.attach:
			// No actor state yet: sockets that never send a valid join frame
			// stay anonymous and clean up as no-ops on close.
			r.conns[c.id] = c

		case f := <-r.frames:
			r.dispatch(f.connID, f.data)

		case id := <-r.disconnects:
			r.handleDisconnect(id)

		case <-r.stopCh:
			return
		}
	}
}

// Shutdown stops the event loop and closes every tracked connection.
func (r *Relay) Shutdown() {
	close(r.stopCh)
	<-r.doneCh
}

// HandleConn adopts an already-upgraded socket. It starts the write pump and
// runs the read pump in the calling goroutine, returning when the connection
// closes.
func (r *Relay) HandleConn(ws Socket) {
	id := r.nextID.Add(1)
	c := &conn{
		id:     id,
		ws:     ws,
		send:   make(chan []byte, sendQueueSize),
		logger: r.logger.With().Uint64("conn_id", id).Logger(),
	}

	select {
	case r.attach <- c:
	case <-r.stopCh:
		_ = ws.Close()
		return
	}

	go c.writePump()
	c.readPump(r)
}

func (r *Relay) reportFrame(id uint64, data []byte) {
	select {
	case r.frames <- frame{connID: id, data: data}:
	case <-r.stopCh:
	}
}

func (r *Relay) reportDisconnect(id uint64) {
	select {
	case r.disconnects <- id:
	case <-r.stopCh:
	}
}

// dispatch parses and validates one inbound frame and routes it by type.
// Malformed frames earn an ERROR reply; the connection stays open.
func (r *Relay) dispatch(id uint64, data []byte) {
	c, ok := r.conns[id]
	if !ok {
		// Frame raced a disconnect already processed for this id.
		return
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to parse inbound frame.")
		r.sendError(c, "Invalid message format")
		return
	}

	if !env.Type.Valid() {
		r.logger.Warn().Str("msg_type", string(env.Type)).Msg("Frame failed schema validation.")
		r.sendError(c, "Invalid message")
		return
	}

	switch env.Type {
	case TypeJoinAsUser:
		r.handleVisitorJoin(c, env.Payload)

	case TypeJoinAsAdmin:
		r.handleAdminJoin(c, env.Payload)

	case TypeChatMessage:
		r.handleChat(c, env.Payload)

	default:
		// Valid enum member with no server-side handler (e.g. a client
		// echoing ADMIN_JOINED). Logged and ignored, no error surfaced.
		r.logger.Info().Str("msg_type", string(env.Type)).Msg("Ignoring message type with no handler.")
	}
}

// handleVisitorJoin registers a VisitorConnection, inserts the socket into
// the session registry and broadcasts USER_JOINED to every connected admin.
// No acknowledgment is sent back to the joining visitor.
func (r *Relay) handleVisitorJoin(c *conn, raw []byte) {
	var p VisitorJoinPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.SessionID == "" || p.UserName == "" {
		r.logger.Warn().Uint64("conn_id", c.id).Msg("Rejected visitor join with invalid payload.")
		r.sendError(c, "Invalid message")
		return
	}

	if p.Page == "" {
		p.Page = "unknown"
	}

	r.visitors[c.id] = &Visitor{
		connID:    c.id,
		UserID:    p.UserID,
		UserName:  p.UserName,
		UserEmail: p.UserEmail,
		SessionID: p.SessionID,
		Page:      p.Page,
	}

	members, ok := r.sessions[p.SessionID]
	if !ok {
		members = make(map[uint64]struct{})
		r.sessions[p.SessionID] = members
	}
	members[c.id] = struct{}{}

	r.broadcastToAdmins(outEnvelope{
		Type: TypeUserJoined,
		Payload: VisitorPresencePayload{
			SessionID: p.SessionID,
			UserName:  p.UserName,
			UserEmail: p.UserEmail,
			UserID:    p.UserID,
			Page:      p.Page,
		},
	})

	r.logger.Info().
		Str("user_name", p.UserName).
		Str("session_id", p.SessionID).
		Msg("Visitor joined session.")
}

// handleAdminJoin registers an AdminConnection and replies, to the joining
// admin only, with a snapshot of every currently active session. There is no
// later refresh: admins joining afterwards learn about older sessions only
// through this snapshot plus subsequent join/leave events.
func (r *Relay) handleAdminJoin(c *conn, raw []byte) {
	var p AdminJoinPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.AdminID == nil || p.AdminName == "" {
		r.logger.Warn().Uint64("conn_id", c.id).Msg("Rejected admin join with invalid payload.")
		r.sendError(c, "Invalid message")
		return
	}

	r.admins[c.id] = &Admin{
		connID:    c.id,
		AdminID:   *p.AdminID,
		AdminName: p.AdminName,
		Sessions:  make(map[string]struct{}),
	}

	snapshot := make([]SessionSnapshot, 0, len(r.sessions))
	for sessionID, members := range r.sessions {
		users := make([]SessionVisitor, 0, len(members))
		for id := range members {
			v, ok := r.visitors[id]
			if !ok {
				continue
			}
			users = append(users, SessionVisitor{
				UserName:  v.UserName,
				UserEmail: v.UserEmail,
				UserID:    v.UserID,
				Page:      v.Page,
			})
		}
		snapshot = append(snapshot, SessionSnapshot{SessionID: sessionID, Users: users})
	}

	r.sendTo(c, outEnvelope{
		Type:    TypeAdminJoined,
		Payload: AdminWelcomePayload{ActiveSessions: snapshot},
	})

	r.logger.Info().
		Str("admin_name", p.AdminName).
		Int32("admin_id", *p.AdminID).
		Msg("Admin joined.")
}

// handleChat forwards a CHAT_MESSAGE. Admin replies fan out to the visitor
// sockets of the named session only; visitor messages broadcast to every
// connected admin regardless of session, so any operator can pick up any
// conversation. Messages from unregistered senders are silently ignored.
func (r *Relay) handleChat(c *conn, raw []byte) {
	var p ChatPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Warn().Uint64("conn_id", c.id).Msg("Rejected chat frame with invalid payload.")
		r.sendError(c, "Invalid message")
		return
	}

	timestamp := r.opts.Now().UTC().Format(time.RFC3339)

	if p.IsFromAdmin {
		admin, ok := r.admins[c.id]
		if !ok {
			return
		}

		members, ok := r.sessions[p.SessionID]
		if !ok {
			// No visitors currently under this session: drop, no queueing.
			return
		}

		env := outEnvelope{
			Type: TypeChatMessage,
			Payload: ChatDeliveryPayload{
				Message:     p.Message,
				SenderName:  admin.AdminName,
				IsFromAdmin: true,
				Timestamp:   timestamp,
			},
		}
		for id := range members {
			if target, ok := r.conns[id]; ok {
				r.sendTo(target, env)
			}
		}

		r.logger.Info().
			Str("admin_name", admin.AdminName).
			Str("session_id", p.SessionID).
			Msg("Relayed admin chat message to session.")
		return
	}

	visitor, ok := r.visitors[c.id]
	if !ok {
		return
	}

	r.broadcastToAdmins(outEnvelope{
		Type: TypeChatMessage,
		Payload: ChatDeliveryPayload{
			Message:     p.Message,
			SenderName:  visitor.UserName,
			SessionID:   visitor.SessionID,
			IsFromAdmin: false,
			Timestamp:   timestamp,
		},
	})

	r.logger.Info().
		Str("user_name", visitor.UserName).
		Str("session_id", visitor.SessionID).
		Msg("Relayed visitor chat message to admins.")
}

// handleDisconnect removes whatever registration the socket holds. Admin
// departures are silent; visitor departures shrink the session registry and
// broadcast USER_LEFT to admins. Empty session entries are deleted so the
// registry never dangles.
func (r *Relay) handleDisconnect(id uint64) {
	c, ok := r.conns[id]
	if !ok {
		return
	}
	delete(r.conns, id)
	c.shutdown()

	if admin, ok := r.admins[id]; ok {
		delete(r.admins, id)
		r.logger.Info().Str("admin_name", admin.AdminName).Msg("Admin disconnected.")
	}

	visitor, ok := r.visitors[id]
	if !ok {
		return
	}
	delete(r.visitors, id)

	if members, ok := r.sessions[visitor.SessionID]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(r.sessions, visitor.SessionID)
		}
	}

	r.broadcastToAdmins(outEnvelope{
		Type: TypeUserLeft,
		Payload: VisitorLeftPayload{
			SessionID: visitor.SessionID,
			UserName:  visitor.UserName,
		},
	})

	r.logger.Info().
		Str("user_name", visitor.UserName).
		Str("session_id", visitor.SessionID).
		Msg("Visitor disconnected.")
}

// broadcastToAdmins fans one event out to every connected admin socket. A
// failed or skipped delivery to one admin never affects the rest.
func (r *Relay) broadcastToAdmins(env outEnvelope) {
	for id := range r.admins {
		if c, ok := r.conns[id]; ok {
			r.sendTo(c, env)
		}
	}
}

// sendTo marshals and queues one frame for one connection, best-effort.
func (r *Relay) sendTo(c *conn, env outEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error().Err(err).Str("msg_type", string(env.Type)).Msg("Failed to marshal outbound frame.")
		return
	}
	c.enqueue(data)
}

// sendError replies with an ERROR frame to the offending socket only.
func (r *Relay) sendError(c *conn, message string) {
	r.sendTo(c, outEnvelope{
		Type:    TypeError,
		Payload: ErrorPayload{Message: message},
	})
}
