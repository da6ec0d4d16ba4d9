package scoring

import "errors"

// Expected, user-facing outcomes. Handlers map these to status codes; none
// of them is ever fatal and nothing is retried.
var (
	ErrAlreadyVoted = errors.New("already voted for this bird")
	ErrOwnBird      = errors.New("cannot vote for your own bird")
	ErrInvalidScore = errors.New("score must be between 1 and 10")
	ErrNotFound     = errors.New("bird not found")
)
