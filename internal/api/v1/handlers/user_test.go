package handlers_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/users", "", map[string]interface{}{
		"email":    "a@example.com",
		"password": "password",
	})
	require.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	decodeJSON(t, resp, &result)
	id, ok := result["id"].(float64)
	require.True(t, ok)
	assert.Equal(t, float64(int(id)), id, "id must be an integer")
}

func TestRegisterSchemaInvalid(t *testing.T) {
	app := newTestApp()

	cases := []map[string]interface{}{
		{"invalid": "invalid", "password": "password"}, // email missing
		{"email": 0, "password": "password"},           // email wrong type
		{"email": "a@example.com", "password": true},   // password wrong type
		{"email": "a@example.com"},                     // password missing
	}
	for _, body := range cases {
		resp := doJSON(t, app, "POST", "/users", "", body)
		assert.Equal(t, 422, resp.StatusCode, "body %v", body)
	}
}

func TestRegisterMalformedEmail(t *testing.T) {
	app := newTestApp()

	for _, email := range []string{"invalid", "a@", "@example.com", "a@@example.com", "a@b@c"} {
		resp := doJSON(t, app, "POST", "/users", "", map[string]interface{}{
			"email":    email,
			"password": "password",
		})
		assert.Equal(t, 400, resp.StatusCode, "email %q", email)
	}
}

func TestRegisterEmptyPassword(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/users", "", map[string]interface{}{
		"email":    "a@example.com",
		"password": "",
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp()

	registerUser(t, app, "dup@example.com", "password1")

	resp := doJSON(t, app, "POST", "/users", "", map[string]interface{}{
		"email":    "dup@example.com",
		"password": "password2",
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRegisterDuplicateEmailConcurrent(t *testing.T) {
	app := newTestApp()

	const attempts = 8
	var wg sync.WaitGroup
	statuses := make([]int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := doJSON(t, app, "POST", "/users", "", map[string]interface{}{
				"email":    "race@example.com",
				"password": "password",
			})
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created := 0
	for _, status := range statuses {
		switch status {
		case 201:
			created++
		case 400:
		default:
			t.Fatalf("unexpected status %d", status)
		}
	}
	assert.Equal(t, 1, created, "exactly one concurrent registration must win")
}
