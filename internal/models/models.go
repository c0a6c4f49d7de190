package models

import (
	"encoding/json"
	"time"
)

// User is never serialized to the wire; registration and authentication
// responses only carry the id or a token.
type User struct {
	ID           int
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Task struct {
	ID          int
	OwnerID     int
	Name        string
	Description string
	Deadline    time.Time
	Completed   bool
}

// taskJSON is the wire and cache shape of a Task. The deadline travels as an
// RFC3339 string rendered in UTC so a posted value round-trips byte-for-byte.
type taskJSON struct {
	ID          int    `json:"id"`
	OwnerID     int    `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Completed   bool   `json:"completed"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		Deadline:    t.Deadline.UTC().Format(time.RFC3339),
		Completed:   t.Completed,
	})
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var w taskJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	deadline, err := time.Parse(time.RFC3339, w.Deadline)
	if err != nil {
		return err
	}
	*t = Task{
		ID:          w.ID,
		OwnerID:     w.OwnerID,
		Name:        w.Name,
		Description: w.Description,
		Deadline:    deadline,
		Completed:   w.Completed,
	}
	return nil
}
