// Package ws is the transport layer: it upgrades connections, decodes
// tagged envelopes, and owns the only writer goroutine per socket. All
// business decisions stay behind the dispatcher and services.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"orbit-gateway/contract"
	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
	"orbit-gateway/errors"
	"orbit-gateway/runtime"
	"orbit-gateway/services"
	"orbit-gateway/sink"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type Server struct {
	log           *slog.Logger
	gate          contract.IIdentityGate
	dispatcher    *runtime.Dispatcher
	notifications services.INotificationService
	auth          services.IAuthService
	upgrader      websocket.Upgrader
	bufferSize    int
}

func NewServer(log *slog.Logger, gate contract.IIdentityGate, dispatcher *runtime.Dispatcher,
	notifications services.INotificationService, auth services.IAuthService, bufferSize int) *Server {
	return &Server{
		log:           log,
		gate:          gate,
		dispatcher:    dispatcher,
		notifications: notifications,
		auth:          auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		bufferSize: bufferSize,
	}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/auth/register", s.handleRegister)
	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/events/notify", s.handleNotify)
}

// handleWS resolves the credential through the identity gate before the
// upgrade; a connection that cannot be mapped to a user never reaches the
// registry.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	credential := r.URL.Query().Get("token")
	if credential == "" {
		credential = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	userID, err := s.gate.Resolve(credential)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()
	connSink := sink.NewConnectionSink(s.bufferSize)

	s.dispatcher.Connect(connID, connSink)
	if err := s.dispatcher.Bind(connID, userID); err != nil {
		s.dispatcher.Disconnect(connID)
		_ = conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		s.dispatcher.Disconnect(connID)
		_ = conn.Close()
		s.log.Debug("Client disconnected", "user", userID, "conn", connID)
	}()

	go s.writePump(ctx, conn, connSink)
	s.readPump(ctx, conn, connID, connSink)
}

// readPump handles one inbound event at a time for this connection; many
// connections run their pumps concurrently.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, connID string, connSink *sink.ConnectionSink) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Type == "" {
			s.fail(ctx, connSink, errors.ErrInvalidEvent)
			continue
		}
		if err := s.handleEvent(ctx, connID, connSink, envelope); err != nil {
			s.fail(ctx, connSink, err)
		}
	}
}

func (s *Server) handleEvent(ctx context.Context, connID string, connSink *sink.ConnectionSink, envelope Envelope) error {
	switch envelope.Type {
	case TypeJoinRoom:
		payload, err := decode[JoinRoomPayload](envelope.Payload)
		if err != nil {
			return err
		}
		messages, cursor, err := s.dispatcher.JoinRoom(connID, domain.RoomID(payload.Room))
		if err != nil {
			return err
		}
		return connSink.Consume(ctx, event.RoomHistory{
			Room: domain.RoomID(payload.Room), Messages: messages, Cursor: cursor,
		})

	case TypeLeaveRoom:
		payload, err := decode[LeaveRoomPayload](envelope.Payload)
		if err != nil {
			return err
		}
		return s.dispatcher.LeaveRoom(connID, domain.RoomID(payload.Room))

	case TypeSendMessage:
		payload, err := decode[SendMessagePayload](envelope.Payload)
		if err != nil {
			return err
		}
		// The sender receives its own message through the fan-out like any
		// other member: one source of truth for order and content.
		_, err = s.dispatcher.SendMessage(ctx, connID, domain.RoomID(payload.Room), payload.Content)
		return err

	case TypeUpdateMessage:
		payload, err := decode[UpdateMessagePayload](envelope.Payload)
		if err != nil {
			return err
		}
		_, err = s.dispatcher.UpdateMessage(ctx, connID, uuid.MustParse(payload.MessageID), payload.Content)
		return err

	case TypeDeleteMessage:
		payload, err := decode[DeleteMessagePayload](envelope.Payload)
		if err != nil {
			return err
		}
		_, err = s.dispatcher.DeleteMessage(ctx, connID, uuid.MustParse(payload.MessageID))
		return err

	case TypeHistory:
		payload, err := decode[HistoryPayload](envelope.Payload)
		if err != nil {
			return err
		}
		messages, cursor, err := s.dispatcher.History(connID, domain.RoomID(payload.Room),
			domain.Direction(payload.Direction), payload.Cursor, payload.PageSize)
		if err != nil {
			return err
		}
		return connSink.Consume(ctx, event.RoomHistory{
			Room: domain.RoomID(payload.Room), Messages: messages, Cursor: cursor,
		})

	case TypeSubscribeNotifications:
		userID, err := s.dispatcher.SubscribeNotifications(connID)
		if err != nil {
			return err
		}
		notifications, cursor, err := s.notifications.ListFor(userID, nil, 0)
		if err != nil {
			return err
		}
		return connSink.Consume(ctx, event.NotificationList{
			UserID: userID, Notifications: notifications, Cursor: cursor,
		})

	default:
		return errors.ErrInvalidEvent
	}
}

// writePump is the only goroutine writing to the socket. It drains the
// connection's sink, serializes frames, and keeps the connection alive
// with pings.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, connSink *sink.ConnectionSink) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		case evt := <-connSink.Events:
			raw, ok, err := encodeEvent(evt)
			if err != nil {
				s.log.Error("Failed to encode outbound event", "error", err)
				continue
			}
			if !ok {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// fail converts an error into a caller-visible failure frame with a stable
// reason code. Internal detail never crosses the boundary, and a failing
// operation never closes the connection.
func (s *Server) fail(ctx context.Context, connSink *sink.ConnectionSink, err error) {
	code := errors.ReasonCode(err)
	if code == errors.CodeInternal {
		s.log.Error("Unclassified operation failure", "error", err)
	}
	_ = connSink.Consume(ctx, event.Failure{Code: code, Message: reasonText(code)})
}

func reasonText(code string) string {
	switch code {
	case errors.CodeUnauthorized:
		return "authentication required"
	case errors.CodeForbidden:
		return "operation not allowed"
	case errors.CodeNotFound:
		return "resource not found"
	case errors.CodeCapacityExceeded:
		return "room is full"
	case errors.CodePersistence:
		return "storage unavailable"
	case errors.CodeInvalidEvent:
		return "malformed event"
	default:
		return "internal error"
	}
}
