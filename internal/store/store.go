package store

import (
	"errors"

	"taskapi/internal/models"
)

var (
	// ErrNotFound is returned when a user or task id has no row behind it.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a registration loses the
	// check-and-insert race or the email is simply taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore persists credentials. CreateUser must be atomic: two concurrent
// calls with the same email yield exactly one success and one
// ErrDuplicateEmail.
type UserStore interface {
	CreateUser(email, passwordHash string) (int, error)
	UserByEmail(email string) (models.User, error)
	UserByID(id int) (models.User, error)
}

// TaskStore persists tasks. It does no ownership filtering beyond
// ListTasksByOwner; point operations are scoped by the caller.
type TaskStore interface {
	CreateTask(task models.Task) (int, error)
	TaskByID(id int) (models.Task, error)
	ListTasksByOwner(ownerID int) ([]models.Task, error)
	UpdateTask(task models.Task) error
	DeleteTask(id int) error
}
