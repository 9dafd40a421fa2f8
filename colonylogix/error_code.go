package colonylogix

const (
	// INVALID_ARGUMENT_ERROR_CODE represents an error for invalid input arguments.
	INVALID_ARGUMENT_ERROR_CODE = 3
	// NOT_FOUND_ERROR_CODE represents an error for a resource not being found.
	NOT_FOUND_ERROR_CODE = 5
	// FAILED_PRECONDITION_ERROR_CODE represents an error for a failed precondition.
	FAILED_PRECONDITION_ERROR_CODE = 9
	// INTERNAL_ERROR_CODE represents an internal engine error.
	INTERNAL_ERROR_CODE = 13
)

// Error is the error type returned by all engine operations. The code uses
// gRPC status numbering so callers bridging to a game server can map it
// directly.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(message string, code int) *Error {
	return &Error{Message: message, Code: code}
}
