package models

import "time"

// Routing keys published on the user_events exchange. These are integration
// contracts between the user and order contexts, not domain entities.
const (
	RoutingKeyUserCreated = "user.created"
	RoutingKeyUserDeleted = "user.deleted"
)

// UserCreatedEvent is the payload published under user.created.
type UserCreatedEvent struct {
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDeletedEvent is the payload published under user.deleted.
type UserDeletedEvent struct {
	UserID    int       `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// EventKind is the closed set of event variants the consumer dispatches on.
// Routing keys outside the set map to KindIgnored rather than falling
// through on the raw string.
type EventKind int

const (
	KindIgnored EventKind = iota
	KindUserCreated
	KindUserDeleted
)

// KindForRoutingKey maps a routing key to its dispatch variant. The queue
// binding is user.*, so keys like user.updated can legitimately arrive here;
// they come back as KindIgnored.
func KindForRoutingKey(key string) EventKind {
	switch key {
	case RoutingKeyUserCreated:
		return KindUserCreated
	case RoutingKeyUserDeleted:
		return KindUserDeleted
	default:
		return KindIgnored
	}
}

// String returns the kind name for logging.
func (k EventKind) String() string {
	switch k {
	case KindUserCreated:
		return "user_created"
	case KindUserDeleted:
		return "user_deleted"
	default:
		return "ignored"
	}
}
