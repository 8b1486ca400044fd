/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleAssistSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to WebSocket, and handing it to the assistance relay.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/limiter"
	"kwakhanya/internal/pkg/logx"
	"kwakhanya/internal/pkg/resp"
)

// HandleAssistSocket creates an HTTP HandlerFunc to process remote-assistance
// WebSocket connection requests. Visitors and admins identify themselves in
// their first frame, so the upgrade itself carries no identity.
func HandleAssistSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		logx.Info("Assistance WebSocket connection established", "ip", ip)

		deps.Relay.HandleConn(conn)
	}
}
