package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Created, 201},
		{OK, 200},
		{NoContent, 204},
		{SchemaInvalid, 422},
		{BadRequest, 400},
		{Unauthorized, 401},
		{NotFound, 404},
		{ServerError, 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.kind.Status())
	}
}

func TestRunAllPass(t *testing.T) {
	ran := 0
	pass := func() *Outcome {
		ran++
		return nil
	}
	out := Run(pass, pass, pass)
	assert.Nil(t, out)
	assert.Equal(t, 3, ran)
}

func TestRunShortCircuitsOnFirstFailure(t *testing.T) {
	ran := []string{}
	stage := func(name string, out *Outcome) Stage {
		return func() *Outcome {
			ran = append(ran, name)
			return out
		}
	}

	out := Run(
		stage("structural", nil),
		stage("presence", Fail(BadRequest, "missing header")),
		stage("authentication", Fail(Unauthorized, "never evaluated")),
	)

	assert.NotNil(t, out)
	assert.Equal(t, BadRequest, out.Kind)
	assert.Equal(t, "missing header", out.Message)
	assert.Equal(t, []string{"structural", "presence"}, ran)
}

func TestRunFirstFailureWinsOverLater(t *testing.T) {
	out := Run(
		func() *Outcome { return Fail(SchemaInvalid, "bad shape") },
		func() *Outcome { return Fail(NotFound, "unreachable") },
	)
	assert.Equal(t, SchemaInvalid, out.Kind)
}

func TestRunNoStages(t *testing.T) {
	assert.Nil(t, Run())
}
