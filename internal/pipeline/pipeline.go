// Package pipeline classifies every inbound request into one outcome. Each
// handler composes an ordered list of stages; the first failing stage decides
// the response and nothing after it runs.
package pipeline

// Kind tags every possible request outcome.
type Kind int

const (
	Created Kind = iota + 1
	OK
	NoContent
	SchemaInvalid
	BadRequest
	Unauthorized
	NotFound
	// ServerError is reserved for infrastructure faults (store or hashing
	// errors); it is not part of the request classification proper.
	ServerError
)

// Status maps an outcome to its canonical HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Created:
		return 201
	case OK:
		return 200
	case NoContent:
		return 204
	case SchemaInvalid:
		return 422
	case BadRequest:
		return 400
	case Unauthorized:
		return 401
	case NotFound:
		return 404
	default:
		return 500
	}
}

// Outcome is a terminal stage failure. A nil *Outcome means the stage passed.
type Outcome struct {
	Kind    Kind
	Message string
}

func Fail(kind Kind, message string) *Outcome {
	return &Outcome{Kind: kind, Message: message}
}

// Stage is one fallible check. Stages run in the order given and may record
// verified facts (parsed body, authenticated subject) for later stages via
// their closures.
type Stage func() *Outcome

// Run evaluates stages in order and short-circuits on the first failure.
func Run(stages ...Stage) *Outcome {
	for _, stage := range stages {
		if out := stage(); out != nil {
			return out
		}
	}
	return nil
}
