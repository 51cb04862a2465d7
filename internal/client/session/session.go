// Package session keeps the signed-in actor between CLI invocations.
package session

import (
	"errors"
	"time"

	"biokeeper/internal/shared/models"
)

var (
	ErrNoSession    = errors.New("not logged in, run `biokeeper auth login`")
	ErrAccessDenied = errors.New("access_denied")
)

// Session identifies the actor whose id goes into every write path. It is
// built once at login and never changed afterwards.
type Session struct {
	ActorID  int64
	Role     models.AccessRights
	Login    string
	IssuedAt time.Time
}

// CanWrite reports whether the role allows mutations.
func (s Session) CanWrite() bool { return s.Role == models.AccessFull }
