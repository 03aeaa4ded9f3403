package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationComment    NotificationType = "COMMENT"
	NotificationSubComment NotificationType = "SUB_COMMENT"
	NotificationLike       NotificationType = "LIKE"
	NotificationFollow     NotificationType = "FOLLOW"
	NotificationReport     NotificationType = "REPORT"
)

// Valid reports whether the type is one of the enumerated kinds.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationComment, NotificationSubComment,
		NotificationLike, NotificationFollow, NotificationReport:
		return true
	}
	return false
}

// Refs points a notification at the business entities that triggered it.
// All references are optional.
type Refs struct {
	ArticleID *int64 `json:"article_id,omitempty"`
	CommentID *int64 `json:"comment_id,omitempty"`
	PlanetID  *int64 `json:"planet_id,omitempty"`
}

// Notification is a persisted record targeted at a single user.
// It is created by a business action and deleted only by its target user.
type Notification struct {
	ID        uuid.UUID
	UserID    string
	Type      NotificationType
	Content   string
	Refs      Refs
	CreatedAt time.Time
}

// UserProfile is the narrow view of a user exposed by the directory.
type UserProfile struct {
	ID          string
	DisplayName string
	Avatar      string
}
