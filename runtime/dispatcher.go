package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"orbit-gateway/contract"
	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
	"orbit-gateway/errors"
	"orbit-gateway/runtime/workers"
	"orbit-gateway/services"

	"github.com/google/uuid"
)

// Dispatcher is the single entry point for inbound client operations and
// outbound business events. It resolves targets through the registry and
// room manager, funnels mutating commands through per-room workers, and
// forwards every event to the fan-out worker, the only component that
// performs the actual send.
//
// Per connection the lifecycle is CONNECTED (unauthenticated) ->
// AUTHENTICATED -> DISCONNECTED; join and leave never change that
// top-level state.
type Dispatcher struct {
	mu          sync.Mutex
	log         *slog.Logger
	registry    contract.IRegistry
	rooms       contract.IRooms
	supervisor  contract.ISupervisor
	pipeline    services.IChatService
	events      chan event.DomainEvent
	commands    map[domain.RoomID]chan domain.Command
	bufferSize  int
	historyPage int
	ctx         context.Context
}

func NewDispatcher(log *slog.Logger, registry contract.IRegistry, rooms contract.IRooms,
	supervisor contract.ISupervisor, pipeline services.IChatService,
	events chan event.DomainEvent, bufferSize, historyPage int) *Dispatcher {
	return &Dispatcher{
		log:         log,
		registry:    registry,
		rooms:       rooms,
		supervisor:  supervisor,
		pipeline:    pipeline,
		events:      events,
		commands:    make(map[domain.RoomID]chan domain.Command),
		bufferSize:  bufferSize,
		historyPage: historyPage,
	}
}

// Start pins the context under which room workers are spawned. Must be
// called before any connection is accepted.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctx = ctx
}

// Connect registers an unauthenticated handle for a new connection.
func (d *Dispatcher) Connect(connID string, sink contract.EventSink) {
	d.registry.Register(connID, sink)
	d.log.Debug("Connection registered", "conn", connID)
}

// Bind attaches the gate-approved identity to a connection.
func (d *Dispatcher) Bind(connID, userID string) error {
	return d.registry.BindIdentity(connID, userID)
}

// Disconnect removes the connection and cascades the cleanup: the
// connection leaves every room it was in, and later broadcasts no longer
// resolve it. In-flight persistence writes complete normally; their result
// is simply not delivered here anymore.
func (d *Dispatcher) Disconnect(connID string) {
	userID, _ := d.registry.UserOf(connID)
	joined := d.registry.Unregister(connID)
	for _, room := range joined {
		d.rooms.Leave(room, connID)
		if domain.KindOf(room) == domain.RoomKindChat {
			d.notifyStatus(room, userID, "left")
		}
	}
	d.log.Debug("Connection unregistered", "conn", connID, "rooms", len(joined))
}

// JoinRoom adds the connection to a room and returns the first history page
// for the room_history reply. Membership and capacity policy live in the
// room manager.
func (d *Dispatcher) JoinRoom(connID string, room domain.RoomID) ([]domain.Message, *string, error) {
	userID, ok := d.registry.UserOf(connID)
	if !ok {
		return nil, nil, errors.ErrUnauthorized
	}
	if err := d.rooms.Join(room, connID, userID); err != nil {
		return nil, nil, err
	}
	d.registry.AddRoom(connID, room)
	d.ensureWorker(room)
	d.notifyStatus(room, userID, "joined")

	return d.pipeline.History(room, domain.NewestFirst, nil, d.historyPage)
}

// LeaveRoom is an idempotent removal; leaving a room never fails for a
// connection that isn't in it.
func (d *Dispatcher) LeaveRoom(connID string, room domain.RoomID) error {
	userID, ok := d.registry.UserOf(connID)
	if !ok {
		return errors.ErrUnauthorized
	}
	d.rooms.Leave(room, connID)
	d.registry.RemoveRoom(connID, room)
	d.notifyStatus(room, userID, "left")
	return nil
}

// SendMessage funnels a new message through the room's worker and waits for
// its reply. The enqueue order on the room channel is the accepted order,
// and therefore the room's broadcast and storage order.
func (d *Dispatcher) SendMessage(ctx context.Context, connID string, room domain.RoomID,
	content string) (domain.Message, error) {
	userID, ok := d.registry.UserOf(connID)
	if !ok {
		return domain.Message{}, errors.ErrUnauthorized
	}
	if !d.rooms.IsMember(room, connID) {
		return domain.Message{}, errors.ErrForbidden
	}

	cmd := domain.SendMessageCommand{
		Room:     room,
		SenderID: userID,
		Content:  content,
		Done:     make(chan domain.Reply, 1),
	}
	return d.dispatch(ctx, room, cmd, cmd.Done)
}

// UpdateMessage routes an edit through the worker of the room the message
// lives in, so observers see updates in order with new messages.
func (d *Dispatcher) UpdateMessage(ctx context.Context, connID string, messageID uuid.UUID,
	content string) (domain.Message, error) {
	userID, ok := d.registry.UserOf(connID)
	if !ok {
		return domain.Message{}, errors.ErrUnauthorized
	}

	existing, err := d.pipeline.FindMessage(messageID)
	if err != nil {
		return domain.Message{}, err
	}

	cmd := domain.UpdateMessageCommand{
		Room:        existing.Room,
		MessageID:   messageID,
		RequesterID: userID,
		Content:     content,
		Done:        make(chan domain.Reply, 1),
	}
	return d.dispatch(ctx, existing.Room, cmd, cmd.Done)
}

func (d *Dispatcher) DeleteMessage(ctx context.Context, connID string,
	messageID uuid.UUID) (domain.Message, error) {
	userID, ok := d.registry.UserOf(connID)
	if !ok {
		return domain.Message{}, errors.ErrUnauthorized
	}

	existing, err := d.pipeline.FindMessage(messageID)
	if err != nil {
		return domain.Message{}, err
	}

	cmd := domain.DeleteMessageCommand{
		Room:        existing.Room,
		MessageID:   messageID,
		RequesterID: userID,
		Done:        make(chan domain.Reply, 1),
	}
	return d.dispatch(ctx, existing.Room, cmd, cmd.Done)
}

// History serves a finite page; it does not go through the room worker
// because reads don't participate in the write order.
func (d *Dispatcher) History(connID string, room domain.RoomID, direction domain.Direction,
	cursor *string, pageSize int) ([]domain.Message, *string, error) {
	if _, ok := d.registry.UserOf(connID); !ok {
		return nil, nil, errors.ErrUnauthorized
	}
	return d.pipeline.History(room, direction, cursor, pageSize)
}

// SubscribeNotifications joins the connection to its user's private
// channel. Stored notifications are listed by the caller afterwards.
func (d *Dispatcher) SubscribeNotifications(connID string) (string, error) {
	userID, ok := d.registry.UserOf(connID)
	if !ok {
		return "", errors.ErrUnauthorized
	}
	room := domain.NotificationRoom(userID)
	if err := d.rooms.Join(room, connID, userID); err != nil {
		return "", err
	}
	d.registry.AddRoom(connID, room)
	return userID, nil
}

// Emit hands a business-side event to the fan-out worker. The channel is
// buffered; a saturated pipeline drops the event rather than blocking the
// business caller. Dropped notification pushes keep their durable copy, so
// the log carries the ids needed to trace the lost live delivery.
func (d *Dispatcher) Emit(e event.DomainEvent) {
	select {
	case d.events <- e:
	default:
		if pushed, ok := e.(event.NotificationPushed); ok {
			d.log.Warn("Event channel full, dropping notification push",
				"notification", pushed.Notification.ID,
				"user", pushed.Notification.UserID)
			return
		}
		d.log.Warn(fmt.Sprintf("Event channel full, dropping event for room %s", e.RoomID()))
	}
}

func (d *Dispatcher) notifyStatus(room domain.RoomID, userID, status string) {
	d.Emit(event.RoomStatus{Room: room, UserID: userID, Status: status, At: time.Now().UTC()})
}

func (d *Dispatcher) dispatch(ctx context.Context, room domain.RoomID, cmd domain.Command,
	done chan domain.Reply) (domain.Message, error) {
	commands := d.ensureWorker(room)

	select {
	case <-ctx.Done():
		return domain.Message{}, ctx.Err()
	case commands <- cmd:
	}

	select {
	case <-ctx.Done():
		// The write may still complete; it just won't be delivered here.
		return domain.Message{}, ctx.Err()
	case reply := <-done:
		return reply.Message, reply.Err
	}
}

// ensureWorker lazily creates the room's command channel and starts its
// worker under supervision. The channel survives worker restarts.
func (d *Dispatcher) ensureWorker(room domain.RoomID) chan domain.Command {
	d.mu.Lock()
	defer d.mu.Unlock()

	if commands, ok := d.commands[room]; ok {
		return commands
	}
	commands := make(chan domain.Command, d.bufferSize)
	d.commands[room] = commands
	d.supervisor.Start(d.ctx, workers.NewRoomWorker(room, d.pipeline, commands, d.events, d.log))
	return commands
}
