package e2e

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"orbit-gateway/domain"
	"orbit-gateway/infrastructure/ws"
)

type testNotificationsSuite struct {
	BaseWsSuite
}

func TestNotificationsSuite(t *testing.T) {
	suite.Run(t, &testNotificationsSuite{})
}

func (s *testNotificationsSuite) TestNotificationFanout() {
	s.RequireInProcess()

	token := s.Register("carol@example.com", "C4rol$ecret!", "Carol")
	carolID := s.UserID(token)

	var phone, laptop *websocket.Conn
	s.Run("Step 0: Two devices subscribe to the private channel", func() {
		s.Step("Carol connects from phone and laptop")
		phone = s.Dial(token)
		laptop = s.Dial(token)

		for _, device := range []*websocket.Conn{phone, laptop} {
			s.Send(device, ws.TypeSubscribeNotifications, struct{}{})
			list := DecodePayload[ws.NotificationListPayload](&s.BaseWsSuite,
				s.AwaitFrame(device, ws.TypeNotificationList))
			s.Require().Empty(list.Notifications)
		}
	})

	s.Run("Step 1: A pushed notification reaches every device once", func() {
		s.Step("Someone likes Carol's post")
		s.Notify(carolID, domain.NotificationLike, "Alice liked your post")

		for _, device := range []*websocket.Conn{phone, laptop} {
			notification := DecodePayload[ws.NotificationDTO](&s.BaseWsSuite,
				s.AwaitFrame(device, ws.TypeNotification))
			s.Require().Equal(carolID, notification.UserID)
			s.Require().Equal("LIKE", notification.Type)
			s.Require().Equal("Alice liked your post", notification.Content)
		}
	})

	s.Run("Step 2: Offline notifications stay durable", func() {
		s.Step("Carol goes offline, then comes back")
		_ = phone.Close()
		_ = laptop.Close()

		s.Notify(carolID, domain.NotificationComment, "Bob commented on your post")

		tablet := s.Dial(token)
		s.Send(tablet, ws.TypeSubscribeNotifications, struct{}{})
		list := DecodePayload[ws.NotificationListPayload](&s.BaseWsSuite,
			s.AwaitFrame(tablet, ws.TypeNotificationList))

		// Newest first: the comment pushed while offline leads the list
		s.Require().Len(list.Notifications, 2)
		s.Require().Equal("COMMENT", list.Notifications[0].Type)
		s.Require().Equal("LIKE", list.Notifications[1].Type)
	})
}
