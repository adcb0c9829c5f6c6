package store

import (
	"context"
	"errors"

	"taskboard/internal/model"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUser(ctx context.Context, user model.User) error
}

// TaskFilter narrows ListTasks. Zero value means no filtering.
type TaskFilter struct {
	Status model.TaskStatus
}

type TaskStore interface {
	CreateTask(ctx context.Context, task model.Task) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session model.Session) error
	GetSessionByToken(ctx context.Context, token string) (model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// Store bundles the per-entity stores a single backend provides.
type Store interface {
	UserStore
	TaskStore
	SessionStore
}
