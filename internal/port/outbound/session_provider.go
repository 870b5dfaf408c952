package outbound

import (
	"context"
	"time"
)

// Session is the single active session of the proxy.
type Session struct {
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionProvider reports the active session.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (Session, bool)
}

// SessionStore creates the active session.
type SessionStore interface {
	SessionProvider
	// CreateSession starts a session owned by owner. It fails with a
	// failure.SessionInUseError when another owner holds the session.
	CreateSession(ctx context.Context, owner string) (Session, error)
}
