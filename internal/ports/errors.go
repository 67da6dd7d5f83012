package ports

import "errors"

var (
	// ErrMissingAPIKey: required credential absent from the environment.
	ErrMissingAPIKey = errors.New("required api key is not set")

	// ErrRemoteRequest: non-success HTTP status from an external service.
	ErrRemoteRequest = errors.New("remote request failed")

	// ErrRemoteJob: the remote service accepted the job but reported a
	// processing error.
	ErrRemoteJob = errors.New("remote job failed")

	// ErrPollTimeout: a polling loop exhausted its time budget.
	ErrPollTimeout = errors.New("polling timed out")
)
