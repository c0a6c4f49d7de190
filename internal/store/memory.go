package store

import (
	"sync"
	"time"

	"taskapi/internal/models"
)

// MemoryUserStore keeps users in process memory. The mutex makes the
// email-uniqueness check-and-insert atomic.
type MemoryUserStore struct {
	mu      sync.Mutex
	nextID  int
	byID    map[int]models.User
	byEmail map[string]int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		nextID:  1,
		byID:    make(map[int]models.User),
		byEmail: make(map[string]int),
	}
}

func (s *MemoryUserStore) CreateUser(email, passwordHash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return 0, ErrDuplicateEmail
	}
	user := models.User{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.nextID++
	s.byID[user.ID] = user
	s.byEmail[email] = user.ID
	return user.ID, nil
}

func (s *MemoryUserStore) UserByEmail(email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemoryUserStore) UserByID(id int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// MemoryTaskStore keeps tasks in process memory. The order slice preserves
// insertion order for listing.
type MemoryTaskStore struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]models.Task
	order  []int
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		nextID: 1,
		byID:   make(map[int]models.Task),
	}
}

func (s *MemoryTaskStore) CreateTask(task models.Task) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	s.byID[task.ID] = task
	s.order = append(s.order, task.ID)
	return task.ID, nil
}

func (s *MemoryTaskStore) TaskByID(id int) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.byID[id]
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return task, nil
}

func (s *MemoryTaskStore) ListTasksByOwner(ownerID int) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []models.Task{}
	for _, id := range s.order {
		if task, ok := s.byID[id]; ok && task.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (s *MemoryTaskStore) UpdateTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[task.ID]
	if !ok {
		return ErrNotFound
	}
	// id and owner are immutable
	task.OwnerID = current.OwnerID
	s.byID[task.ID] = task
	return nil
}

func (s *MemoryTaskStore) DeleteTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, got := range s.order {
		if got == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
