package session

import "github.com/dmitrijs2005/gophprofile/internal/client/models"

// Result is the outcome of every mutating coordinator operation. On
// failure Error holds a localized, human-readable message and Code its
// classification.
type Result struct {
	Success bool
	Session *models.Session
	Error   string
	Code    ErrorCode
}

// Err returns nil for a successful result and an *AccountError otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &AccountError{Code: r.Code, Message: r.Error}
}

func succeeded(s *models.Session) Result {
	return Result{Success: true, Session: s}
}

// State is the coordinator's session state.
type State int

const (
	// StateUnknown lasts until the first session notification arrives.
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the coordinator state delivered to
// subscribers.
type Snapshot struct {
	State     State
	Session   *models.Session
	Profile   *models.ProfileRecord
	Connected bool
}

// Initializing reports whether the first session notification is still
// pending.
func (s Snapshot) Initializing() bool {
	return s.State == StateUnknown
}
