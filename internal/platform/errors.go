package platform

import "errors"

// Sentinel errors for the conditions the orchestrator pattern-matches on.
// Wrapped errors carry the platform's message text; match with errors.Is.
var (
	// ErrAuth means the credential was rejected (or missing entirely).
	ErrAuth = errors.New("platform credential rejected")
	// ErrAppNotFound means no app matches the identifier under this credential.
	ErrAppNotFound = errors.New("app not found")
	// ErrRateLimited means the API quota is exhausted; raised before the
	// substantive call is attempted.
	ErrRateLimited = errors.New("api rate limit exhausted")
	// ErrUpdateFailed means the config update returned an empty result.
	ErrUpdateFailed = errors.New("config update failed")
)
