/*
Package handler provides the HTTP handler function for WebSocket connection
upgrading and initialization.

HandleWebSocket rate-limits and upgrades the connection, then starts the
client pumps. The connection only becomes reachable by user id after its
join frame registers it with the presence tracker.
*/
package handler

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"duochat/internal/app/chat"
	"duochat/internal/pkg/errs"
	"duochat/internal/pkg/limiter"
	"duochat/internal/pkg/logx"
	"duochat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that processes WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
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

		client := chat.NewClient(deps.Hub, deps.EventRouter, conn)

		deps.Hub.Add(client)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", client.ID)

		// The request context dies with the handler; the pumps outlive it.
		client.ReadPump(context.Background())
	}
}
