package client

// uploadFailedMessage is what the player sees when a score did not reach the
// server; the result is still evaluated and kept locally.
const uploadFailedMessage = "score upload failed, result kept locally"

// ErrorKind classifies a submission rejection.
type ErrorKind string

// Submission error kinds.
const (
	KindValidation  ErrorKind = "validation"
	KindRateLimited ErrorKind = "rate_limited"
	KindTransient   ErrorKind = "transient"
	KindServer      ErrorKind = "server"
)

// SubmissionError carries a user-facing message for a rejected or failed
// submission. Raw causes stay out of the message.
type SubmissionError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	return e.Message
}
