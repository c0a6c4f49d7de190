package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapi/internal/models"
)

func TestMemoryUserStoreCreateAndLookup(t *testing.T) {
	s := NewMemoryUserStore()

	id, err := s.CreateUser("a@example.com", "hash-a")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	byEmail, err := s.UserByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "hash-a", byEmail.PasswordHash)

	byID, err := s.UserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	_, err = s.UserByEmail("missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UserByID(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserStoreDuplicateEmail(t *testing.T) {
	s := NewMemoryUserStore()

	_, err := s.CreateUser("a@example.com", "hash-1")
	require.NoError(t, err)

	_, err = s.CreateUser("a@example.com", "hash-2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// case-sensitive exact match: a different casing is a different email
	_, err = s.CreateUser("A@example.com", "hash-3")
	assert.NoError(t, err)
}

func TestMemoryUserStoreConcurrentDuplicate(t *testing.T) {
	s := NewMemoryUserStore()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateUser("race@example.com", "hash")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, wins, "exactly one registration must win")
}

func TestMemoryTaskStoreCRUD(t *testing.T) {
	s := NewMemoryTaskStore()
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := s.CreateTask(models.Task{OwnerID: 1, Name: "task1", Description: "d1", Deadline: deadline})
	require.NoError(t, err)
	second, err := s.CreateTask(models.Task{OwnerID: 1, Name: "task2", Description: "d2", Deadline: deadline})
	require.NoError(t, err)
	_, err = s.CreateTask(models.Task{OwnerID: 2, Name: "other", Description: "", Deadline: deadline})
	require.NoError(t, err)

	tasks, err := s.ListTasksByOwner(1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	// insertion order
	assert.Equal(t, first, tasks[0].ID)
	assert.Equal(t, second, tasks[1].ID)

	got, err := s.TaskByID(first)
	require.NoError(t, err)
	assert.Equal(t, "task1", got.Name)

	got.Name = "renamed"
	got.Completed = true
	got.OwnerID = 42 // must be ignored
	require.NoError(t, s.UpdateTask(got))

	got, err = s.TaskByID(first)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.True(t, got.Completed)
	assert.Equal(t, 1, got.OwnerID, "owner is immutable")

	require.NoError(t, s.DeleteTask(first))
	assert.ErrorIs(t, s.DeleteTask(first), ErrNotFound)
	_, err = s.TaskByID(first)
	assert.ErrorIs(t, err, ErrNotFound)

	tasks, err = s.ListTasksByOwner(1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, second, tasks[0].ID)
}

func TestMemoryTaskStoreEmptyList(t *testing.T) {
	s := NewMemoryTaskStore()

	tasks, err := s.ListTasksByOwner(7)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestMemoryTaskStoreUpdateMissing(t *testing.T) {
	s := NewMemoryTaskStore()
	err := s.UpdateTask(models.Task{ID: 1, Name: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}
