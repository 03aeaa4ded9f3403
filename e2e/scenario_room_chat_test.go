package e2e

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"orbit-gateway/domain"
	"orbit-gateway/infrastructure/ws"
)

type testRoomChatSuite struct {
	BaseWsSuite
}

func TestRoomChatSuite(t *testing.T) {
	suite.Run(t, &testRoomChatSuite{})
}

// awaitStatus reads room_status frames until the wanted member transition
// arrives. A member always sees its own join first, so peers' transitions
// come behind it.
func (s *testRoomChatSuite) awaitStatus(conn *websocket.Conn, userID, status string) {
	for {
		envelope := s.AwaitFrame(conn, ws.TypeRoomStatus)
		payload := DecodePayload[ws.RoomStatusPayload](&s.BaseWsSuite, envelope)
		if payload.UserID == userID && payload.Status == status {
			return
		}
	}
}

func (s *testRoomChatSuite) TestFullChatFlow() {
	s.RequireInProcess()
	room := domain.RoomID("e2e-room")

	var aliceToken, bobToken string
	var aliceID, bobID string
	s.Run("Step 0: Register members and seed the room", func() {
		s.Step("Registering Alice and Bob")
		aliceToken = s.Register("alice@example.com", "Sup3r$ecretPass", "Alice")
		bobToken = s.Register("bob@example.com", "An0ther$ecret!", "Bob")
		aliceID = s.UserID(aliceToken)
		bobID = s.UserID(bobToken)

		s.Require().NoError(s.Directory.AddMember(aliceID, room))
		s.Require().NoError(s.Directory.AddMember(bobID, room))
	})

	var alice, bob *websocket.Conn
	s.Run("Step 1: Join the room over the socket", func() {
		s.Step("Alice joins, then Bob")
		alice = s.Dial(aliceToken)
		s.Send(alice, ws.TypeJoinRoom, ws.JoinRoomPayload{Room: string(room)})

		history := DecodePayload[ws.RoomHistoryPayload](&s.BaseWsSuite,
			s.AwaitFrame(alice, ws.TypeRoomHistory))
		s.Require().Empty(history.Messages)

		bob = s.Dial(bobToken)
		s.Send(bob, ws.TypeJoinRoom, ws.JoinRoomPayload{Room: string(room)})
		s.AwaitFrame(bob, ws.TypeRoomHistory)

		// Alice is told that Bob arrived
		s.awaitStatus(alice, bobID, "joined")
	})

	var firstID string
	s.Run("Step 2: Messages reach every member, censored and in order", func() {
		s.Step("Alice greets, Bob answers")
		s.Send(alice, ws.TypeSendMessage, ws.SendMessagePayload{
			Room: string(room), Content: "hello badger",
		})
		for _, conn := range []*websocket.Conn{alice, bob} {
			first := DecodePayload[ws.MessageDTO](&s.BaseWsSuite,
				s.AwaitFrame(conn, ws.TypeNewMessage))
			s.Require().Equal("hello ******", first.Content)
			s.Require().Equal(aliceID, first.Sender)
			firstID = first.ID
		}

		s.Send(bob, ws.TypeSendMessage, ws.SendMessagePayload{
			Room: string(room), Content: "hi Alice",
		})
		for _, conn := range []*websocket.Conn{alice, bob} {
			second := DecodePayload[ws.MessageDTO](&s.BaseWsSuite,
				s.AwaitFrame(conn, ws.TypeNewMessage))
			s.Require().Equal("hi Alice", second.Content)
			s.Require().Equal(bobID, second.Sender)
		}
	})

	s.Run("Step 3: Edits are broadcast to the room", func() {
		s.Step("Alice edits her greeting")
		s.Send(alice, ws.TypeUpdateMessage, ws.UpdateMessagePayload{
			MessageID: firstID, Content: "hello everyone",
		})

		for _, conn := range []*websocket.Conn{alice, bob} {
			updated := DecodePayload[ws.MessageDTO](&s.BaseWsSuite,
				s.AwaitFrame(conn, ws.TypeMessageUpdated))
			s.Require().Equal(firstID, updated.ID)
			s.Require().Equal("hello everyone", updated.Content)
			s.Require().True(updated.Edited)
		}
	})

	s.Run("Step 4: History reflects the edit, newest first", func() {
		s.Send(bob, ws.TypeHistory, ws.HistoryPayload{Room: string(room)})
		history := DecodePayload[ws.RoomHistoryPayload](&s.BaseWsSuite,
			s.AwaitFrame(bob, ws.TypeRoomHistory))

		s.Require().Len(history.Messages, 2)
		s.Require().Equal("hi Alice", history.Messages[0].Content)
		s.Require().Equal("hello everyone", history.Messages[1].Content)
		s.Require().True(history.Messages[1].Edited)
	})

	s.Run("Step 5: Deletes are broadcast and durable", func() {
		s.Step("Alice removes her message")
		s.Send(alice, ws.TypeDeleteMessage, ws.DeleteMessagePayload{MessageID: firstID})

		for _, conn := range []*websocket.Conn{alice, bob} {
			deleted := DecodePayload[ws.MessageDeletedPayload](&s.BaseWsSuite,
				s.AwaitFrame(conn, ws.TypeMessageDeleted))
			s.Require().Equal(firstID, deleted.MessageID)
		}

		s.Send(bob, ws.TypeHistory, ws.HistoryPayload{Room: string(room)})
		history := DecodePayload[ws.RoomHistoryPayload](&s.BaseWsSuite,
			s.AwaitFrame(bob, ws.TypeRoomHistory))
		s.Require().Len(history.Messages, 1)
	})

	s.Run("Step 6: Non-members are rejected with a stable reason", func() {
		s.Step("Mallory tries to join")
		malloryToken := s.Register("mallory@example.com", "Evil$Passw0rd", "Mallory")
		mallory := s.Dial(malloryToken)

		s.Send(mallory, ws.TypeJoinRoom, ws.JoinRoomPayload{Room: string(room)})
		failure := DecodePayload[ws.ErrorPayload](&s.BaseWsSuite,
			s.AwaitFrame(mallory, ws.TypeError))
		s.Require().Equal("FORBIDDEN", failure.Code)
		s.Require().Equal("operation not allowed", failure.Message)
	})

	s.Run("Step 7: A fresh login yields a working session", func() {
		token := s.Login("alice@example.com", "Sup3r$ecretPass")
		conn := s.Dial(token)
		s.Send(conn, ws.TypeHistory, ws.HistoryPayload{Room: string(room)})
		history := DecodePayload[ws.RoomHistoryPayload](&s.BaseWsSuite,
			s.AwaitFrame(conn, ws.TypeRoomHistory))
		s.Require().Len(history.Messages, 1)
	})
}
