/*
Package assist contains the remote-assistance relay: it tracks visitor and admin
socket connections, groups visitors into named sessions, and forwards chat and
presence events between the two sides.

This file defines the wire protocol: the frame envelope, the closed set of
message types, and the payload structures exchanged with clients.
*/
package assist

import "encoding/json"

// MessageType identifies the kind of frame being exchanged.
type MessageType string

const (
	// TypeJoinAsUser registers the sending socket as a visitor in a session.
	TypeJoinAsUser MessageType = "JOIN_AS_USER"

	// TypeJoinAsAdmin registers the sending socket as an admin operator.
	TypeJoinAsAdmin MessageType = "JOIN_AS_ADMIN"

	// TypeAdminJoined carries the active-session snapshot sent to a newly joined admin.
	TypeAdminJoined MessageType = "ADMIN_JOINED"

	// TypeAdminLeft is reserved for admin departure events.
	TypeAdminLeft MessageType = "ADMIN_LEFT"

	// TypeUserJoined notifies admins that a visitor joined a session.
	TypeUserJoined MessageType = "USER_JOINED"

	// TypeUserLeft notifies admins that a visitor disconnected.
	TypeUserLeft MessageType = "USER_LEFT"

	// TypeChatMessage carries a chat message in either direction.
	TypeChatMessage MessageType = "CHAT_MESSAGE"

	// TypeError carries a human-readable error back to the offending socket.
	TypeError MessageType = "ERROR"
)

// Valid reports whether t belongs to the closed message-type enumeration.
func (t MessageType) Valid() bool {
	switch t {
	case TypeJoinAsUser, TypeJoinAsAdmin, TypeAdminJoined, TypeAdminLeft,
		TypeUserJoined, TypeUserLeft, TypeChatMessage, TypeError:
		return true
	}
	return false
}

// Envelope is the inbound frame envelope. Payload is left raw so each handler
// can bind its own payload shape; the top-level sessionId/userId/adminId
// fields are optional and unvalidated.
type Envelope struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	UserID    *int32          `json:"userId,omitempty"`
	AdminID   *int32          `json:"adminId,omitempty"`
}

// outEnvelope is the outbound frame shape. Outbound frames carry only a type
// and an event-specific payload.
type outEnvelope struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// VisitorJoinPayload is the JOIN_AS_USER payload. SessionID and UserName are
// required; the session identifier is accepted verbatim from the client and
// is not validated for uniqueness or format.
type VisitorJoinPayload struct {
	SessionID string  `json:"sessionId"`
	UserName  string  `json:"userName"`
	UserEmail *string `json:"userEmail,omitempty"`
	UserID    *int32  `json:"userId,omitempty"`
	Page      string  `json:"page,omitempty"`
}

// AdminJoinPayload is the JOIN_AS_ADMIN payload.
type AdminJoinPayload struct {
	AdminID   *int32 `json:"adminId"`
	AdminName string `json:"adminName"`
}

// ChatPayload is the inbound CHAT_MESSAGE payload.
type ChatPayload struct {
	Message     string `json:"message"`
	SessionID   string `json:"sessionId,omitempty"`
	IsFromAdmin bool   `json:"isFromAdmin"`
}

// VisitorPresencePayload is the USER_JOINED payload broadcast to admins.
type VisitorPresencePayload struct {
	SessionID string  `json:"sessionId"`
	UserName  string  `json:"userName"`
	UserEmail *string `json:"userEmail,omitempty"`
	UserID    *int32  `json:"userId,omitempty"`
	Page      string  `json:"page"`
}

// VisitorLeftPayload is the USER_LEFT payload broadcast to admins.
type VisitorLeftPayload struct {
	SessionID string `json:"sessionId"`
	UserName  string `json:"userName"`
}

// SessionVisitor describes one visitor inside a session snapshot.
type SessionVisitor struct {
	UserName  string  `json:"userName"`
	UserEmail *string `json:"userEmail,omitempty"`
	UserID    *int32  `json:"userId,omitempty"`
	Page      string  `json:"page"`
}

// SessionSnapshot describes one active session and its visitors.
type SessionSnapshot struct {
	SessionID string           `json:"sessionId"`
	Users     []SessionVisitor `json:"users"`
}

// AdminWelcomePayload is the ADMIN_JOINED payload sent only to the joining
// admin. It is the sole mechanism by which a new admin learns about sessions
// that were already active at its join instant.
type AdminWelcomePayload struct {
	ActiveSessions []SessionSnapshot `json:"activeSessions"`
}

// ChatDeliveryPayload is the outbound CHAT_MESSAGE payload. SessionID is set
// only on visitor-sourced messages; admin replies are already session-scoped
// by their fan-out. Timestamp is RFC 3339 UTC.
type ChatDeliveryPayload struct {
	Message     string `json:"message"`
	SenderName  string `json:"senderName"`
	SessionID   string `json:"sessionId,omitempty"`
	IsFromAdmin bool   `json:"isFromAdmin"`
	Timestamp   string `json:"timestamp"`
}

// ErrorPayload is the ERROR payload returned to an offending socket.
type ErrorPayload struct {
	Message string `json:"message"`
}
