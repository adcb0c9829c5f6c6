// Package memory provides an in-memory Store used by tests and by
// DB-less runs of the server.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

type Store struct {
	mu sync.RWMutex

	usersByID       map[string]model.User
	userIDByEmail   map[string]string
	tasksByID       map[string]model.Task
	sessionsByToken map[string]model.Session

	now func() time.Time
}

func New() *Store {
	return &Store{
		usersByID:       make(map[string]model.User),
		userIDByEmail:   make(map[string]string),
		tasksByID:       make(map[string]model.Task),
		sessionsByToken: make(map[string]model.Session),
		now:             time.Now,
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) CreateUser(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userIDByEmail[user.Email]; ok {
		return store.ErrConflict
	}
	s.usersByID[user.ID] = user
	s.userIDByEmail[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userIDByEmail[email]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return s.usersByID[id], nil
}

func (s *Store) UpdateUser(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.usersByID[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	if existing.Email != user.Email {
		if _, taken := s.userIDByEmail[user.Email]; taken {
			return store.ErrConflict
		}
		delete(s.userIDByEmail, existing.Email)
		s.userIDByEmail[user.Email] = user.ID
	}
	s.usersByID[user.ID] = user
	return nil
}

func (s *Store) CreateTask(_ context.Context, task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasksByID[task.ID]; ok {
		return store.ErrConflict
	}
	s.tasksByID[task.ID] = task
	return nil
}

func (s *Store) GetTask(_ context.Context, id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasksByID[id]
	if !ok {
		return model.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (s *Store) ListTasks(_ context.Context, userID string, filter store.TaskFilter) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Task, 0)
	for _, task := range s.tasksByID {
		if task.UserID != userID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		result = append(result, task)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) UpdateTask(_ context.Context, task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasksByID[task.ID]; !ok {
		return store.ErrNotFound
	}
	s.tasksByID[task.ID] = task
	return nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasksByID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tasksByID, id)
	return nil
}

func (s *Store) CreateSession(_ context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessionsByToken[session.Token]; ok {
		return store.ErrConflict
	}
	s.sessionsByToken[session.Token] = session
	return nil
}

func (s *Store) GetSessionByToken(_ context.Context, token string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessionsByToken[token]
	if !ok {
		return model.Session{}, store.ErrNotFound
	}
	return session, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessionsByToken[token]; !ok {
		return store.ErrNotFound
	}
	delete(s.sessionsByToken, token)
	return nil
}

func (s *Store) DeleteExpiredSessions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, session := range s.sessionsByToken {
		if session.Expired(now) {
			delete(s.sessionsByToken, token)
			removed++
		}
	}
	return removed, nil
}
