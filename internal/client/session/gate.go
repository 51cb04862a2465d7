package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"biokeeper/internal/shared/models"
)

// Authenticator is the part of the service the gate talks to.
type Authenticator interface {
	Login(ctx context.Context, login, password string) (int64, error)
	Role(ctx context.Context, id int64) (models.AccessRights, error)
	Register(ctx context.Context, u models.User) (models.User, error)
}

// Gate turns credentials into a stored Session. Read-only accounts are
// turned away before anything is persisted.
type Gate struct {
	auth   Authenticator
	store  *Store
	logger *zap.Logger
	now    func() time.Time
}

func NewGate(auth Authenticator, store *Store, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{auth: auth, store: store, logger: logger, now: time.Now}
}

func (g *Gate) Login(ctx context.Context, login, password string) (Session, error) {
	id, err := g.auth.Login(ctx, login, password)
	if err != nil {
		return Session{}, err
	}
	return g.open(ctx, id, login)
}

// Register creates the account and signs it in.
func (g *Gate) Register(ctx context.Context, u models.User) (Session, error) {
	created, err := g.auth.Register(ctx, u)
	if err != nil {
		return Session{}, err
	}
	return g.open(ctx, created.UserID, u.Login)
}

func (g *Gate) open(ctx context.Context, id int64, login string) (Session, error) {
	role, err := g.auth.Role(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if role == models.AccessReadOnly {
		g.logger.Info("read-only account turned away", zap.Int64("user_id", id))
		return Session{}, ErrAccessDenied
	}
	sess := Session{ActorID: id, Role: role, Login: login, IssuedAt: g.now().UTC()}
	if err := g.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	g.logger.Debug("session opened", zap.Int64("user_id", id), zap.String("role", string(role)))
	return sess, nil
}

func (g *Gate) Logout(ctx context.Context) error { return g.store.Clear(ctx) }

// Require returns the current session or ErrNoSession.
func (g *Gate) Require(ctx context.Context) (Session, error) {
	return g.store.Load(ctx)
}
