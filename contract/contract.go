//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself.
// Supervision (panic recovery, restarts) is the supervisor's job.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding manual naming in the interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives events addressed to one consumer. Implementations must
// not block: the fan-out loop delivers sequentially to preserve ordering.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks live connections and their bound identities.
type IRegistry interface {
	Register(connID string, sink EventSink)
	BindIdentity(connID, userID string) error
	Unregister(connID string) []domain.RoomID
	ConnectionsFor(userID string) []string
	SinkFor(connID string) (EventSink, bool)
	UserOf(connID string) (string, bool)
	AddRoom(connID string, room domain.RoomID)
	RemoveRoom(connID string, room domain.RoomID)
	RoomsOf(connID string) []domain.RoomID
}

// IRooms maps room ids to member connection sets.
type IRooms interface {
	Join(room domain.RoomID, connID, userID string) error
	Leave(room domain.RoomID, connID string)
	MembersOf(room domain.RoomID) []string
	IsMember(room domain.RoomID, connID string) bool
}

// IDirectory is the external lookup for user/membership/capacity facts.
type IDirectory interface {
	IsMember(userID string, room domain.RoomID) (bool, error)
	RoomCapacity(room domain.RoomID) (*int, error)
	LookupUser(userID string) (domain.UserProfile, error)
}

// IIdentityGate maps an inbound connection credential to a user id.
type IIdentityGate interface {
	Resolve(credential string) (string, error)
}
