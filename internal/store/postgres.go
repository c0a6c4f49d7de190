package store

import (
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"taskapi/internal/models"
)

func CreateTableIfNotExists(db *sql.DB) {
	query := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    password VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users (id),
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    deadline TIMESTAMPTZ NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE
);
`

	if _, err := db.Exec(query); err != nil {
		log.Fatalf("Error creating tables: %v", err)
	}
}

func DeleteAllTables(db *sql.DB) {
	query := `
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS users;
    `

	if _, err := db.Exec(query); err != nil {
		log.Fatalf("Error deleting tables: %v", err)
	}
}

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// CreateUser relies on the UNIQUE constraint for the check-and-insert: a
// concurrent duplicate surfaces as a unique violation, never as two rows.
func (s *PostgresUserStore) CreateUser(email, passwordHash string) (int, error) {
	var id int
	err := s.db.QueryRow(
		"INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id",
		email, passwordHash,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}

func (s *PostgresUserStore) UserByEmail(email string) (models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, password, created_at FROM users WHERE email = $1", email))
}

func (s *PostgresUserStore) UserByID(id int) (models.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, password, created_at FROM users WHERE id = $1", id))
}

func (s *PostgresUserStore) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

type PostgresTaskStore struct {
	db *sql.DB
}

func NewPostgresTaskStore(db *sql.DB) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

func (s *PostgresTaskStore) CreateTask(task models.Task) (int, error) {
	var id int
	err := s.db.QueryRow(
		"INSERT INTO tasks (user_id, name, description, deadline, completed) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		task.OwnerID, task.Name, task.Description, task.Deadline, task.Completed,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresTaskStore) TaskByID(id int) (models.Task, error) {
	var task models.Task
	err := s.db.QueryRow(
		"SELECT id, user_id, name, description, deadline, completed FROM tasks WHERE id = $1",
		id,
	).Scan(&task.ID, &task.OwnerID, &task.Name, &task.Description, &task.Deadline, &task.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *PostgresTaskStore) ListTasksByOwner(ownerID int) ([]models.Task, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, description, deadline, completed FROM tasks WHERE user_id = $1 ORDER BY id",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		err := rows.Scan(&task.ID, &task.OwnerID, &task.Name, &task.Description, &task.Deadline, &task.Completed)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask replaces every mutable field; id and owner stay put.
func (s *PostgresTaskStore) UpdateTask(task models.Task) error {
	res, err := s.db.Exec(
		"UPDATE tasks SET name = $1, description = $2, deadline = $3, completed = $4 WHERE id = $5",
		task.Name, task.Description, task.Deadline, task.Completed, task.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresTaskStore) DeleteTask(id int) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
