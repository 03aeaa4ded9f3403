package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"orbit-gateway/auth"
	"orbit-gateway/contract"
	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
	"orbit-gateway/infrastructure/ws"
	"orbit-gateway/moderation"
	"orbit-gateway/projection"
	"orbit-gateway/repositories"
	"orbit-gateway/runtime"
	"orbit-gateway/runtime/workers"
	"orbit-gateway/services"
)

// BaseWsSuite boots a full in-process gateway (storage, workers, websocket
// transport) and exposes helpers for driving it over the wire. Setting
// GATEWAY_ADDR points the suite at an external instance instead; scenarios
// that seed state directly are skipped in that mode.
type BaseWsSuite struct {
	suite.Suite
	Config Config

	base      string
	srv       *httptest.Server
	db        *badger.DB
	sup       *workers.Supervisor
	cancel    context.CancelFunc
	conns     []*websocket.Conn
	Directory *repositories.BadgerDirectory
	Gate      *auth.Gate
}

func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.GatewayAddr != "" {
		s.base = "http://" + s.Config.GatewayAddr
		return
	}
	s.bootGateway()
}

func (s *BaseWsSuite) TearDownSuite() {
	for _, conn := range s.conns {
		_ = conn.Close()
	}
	if s.srv == nil {
		return
	}
	s.srv.Close()
	s.cancel()
	s.sup.Stop()
	_ = s.db.Close()
}

// bootGateway wires the same component graph as the production entrypoint,
// on an ephemeral port and a throwaway database.
func (s *BaseWsSuite) bootGateway() {
	log := logs.GetLoggerFromLevel(slog.LevelError)

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20)) // Reduced to 16 Mo for testing (avoid 20 Go of storage)
	s.Require().NoError(err)
	s.db = db

	moderator, err := moderation.NewModerator([]string{"badger", "escroc"}, '*')
	s.Require().NoError(err)

	s.Directory = repositories.NewBadgerDirectory(db)
	messageRepository := repositories.NewMessageRepository(db, log)
	notificationRepository := repositories.NewNotificationRepository(db, log)
	userRepository := repositories.NewUserRepository(db)

	s.Gate = auth.NewGate("e2e-secret", time.Hour)
	chatService := services.NewChatService(log, messageRepository, s.Directory, &moderator, 100)
	authService := services.NewAuthService(log, userRepository, s.Directory, s.Gate)

	events := make(chan event.DomainEvent, 100)
	registry := runtime.NewRegistry()
	rooms := runtime.NewRooms(log, s.Directory)
	timeline := projection.NewTimeline(100)
	s.sup = workers.NewSupervisor(log, time.Second)

	dispatcher := runtime.NewDispatcher(log, registry, rooms, s.sup, chatService,
		events, 100, 50)
	notificationService := services.NewNotificationService(log, notificationRepository,
		dispatcher.Emit, 100)

	s.sup.Add(workers.NewEventFanout(log, registry, rooms, events,
		[]contract.EventSink{timeline}, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	dispatcher.Start(ctx)
	go s.sup.Run(ctx)

	mux := http.NewServeMux()
	ws.NewServer(log, s.Gate, dispatcher, notificationService, authService, 32).Routes(mux)
	s.srv = httptest.NewServer(mux)
	s.base = s.srv.URL
}

// RequireInProcess skips scenarios that reach into the gateway's storage
// when the suite targets an external instance.
func (s *BaseWsSuite) RequireInProcess() {
	if s.Directory == nil {
		s.T().Skip("scenario seeds state directly; set GATEWAY_ADDR= to run in-process")
	}
}

func (s *BaseWsSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Register creates an account over HTTP and returns its session token.
func (s *BaseWsSuite) Register(email, password, displayName string) string {
	body, err := json.Marshal(map[string]string{
		"email": email, "password": password, "display_name": displayName,
	})
	s.Require().NoError(err)

	resp, err := http.Post(s.base+"/auth/register", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var token struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&token))
	s.Require().NotEmpty(token.Token)
	return token.Token
}

// Login exchanges credentials for a fresh token.
func (s *BaseWsSuite) Login(email, password string) string {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	s.Require().NoError(err)

	resp, err := http.Post(s.base+"/auth/login", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var token struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&token))
	return token.Token
}

// Notify pushes a notification through the ingestion endpoint.
func (s *BaseWsSuite) Notify(userID string, kind domain.NotificationType, content string) {
	body, err := json.Marshal(map[string]any{
		"user_id": userID, "type": string(kind), "content": content,
	})
	s.Require().NoError(err)

	resp, err := http.Post(s.base+"/events/notify", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusAccepted, resp.StatusCode)
}

// UserID resolves the subject of a token, the same way the gateway does.
func (s *BaseWsSuite) UserID(token string) string {
	s.RequireInProcess()
	userID, err := s.Gate.Resolve(token)
	s.Require().NoError(err)
	return userID
}

// Dial opens an authenticated websocket to the gateway.
func (s *BaseWsSuite) Dial(token string) *websocket.Conn {
	url := strings.Replace(s.base, "http", "ws", 1) + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	s.Require().NoError(err)
	// Closed at suite teardown: s.T() inside a Run step is the step's own
	// *testing.T, so a Cleanup registered here would close the connection as
	// soon as the step ends, while later steps still use it.
	s.conns = append(s.conns, conn)
	return conn
}

// Send writes one event frame on the socket.
func (s *BaseWsSuite) Send(conn *websocket.Conn, frameType string, payload any) {
	raw, err := json.Marshal(payload)
	s.Require().NoError(err)
	frame, err := json.Marshal(ws.Envelope{Type: frameType, Payload: raw})
	s.Require().NoError(err)

	if s.Config.DebugJSON {
		s.T().Logf("SEND %s", frame)
	}
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, frame))
}

// AwaitFrame reads until a frame of the wanted type arrives, skipping
// interleaved status frames. Delivery order is only guaranteed within a
// frame type for a single room, so scenarios match on type.
func (s *BaseWsSuite) AwaitFrame(conn *websocket.Conn, frameType string) ws.Envelope {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		s.Require().NoError(err, "waiting for %q frame", frameType)

		var envelope ws.Envelope
		s.Require().NoError(json.Unmarshal(raw, &envelope))
		if s.Config.DebugJSON {
			s.T().Logf("RECV %s", raw)
		}
		if envelope.Type == ws.TypeError && frameType != ws.TypeError {
			s.Require().Failf("unexpected error frame", "%s", envelope.Payload)
		}
		if envelope.Type == frameType {
			return envelope
		}
	}
}

// DecodePayload unmarshals an envelope payload into the wanted DTO.
func DecodePayload[T any](s *BaseWsSuite, envelope ws.Envelope) T {
	var payload T
	s.Require().NoError(json.Unmarshal(envelope.Payload, &payload))
	return payload
}
