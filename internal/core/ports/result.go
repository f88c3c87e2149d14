package ports

// Result is the uniform outcome of every client operation. Operations never
// return a Go error to callers: transport failures, server-reported failures
// and authorization failures all collapse into Success=false with a
// human-readable Message. When Success is false, Data still holds the
// operation's typed empty default (list fields non-nil) so callers can
// destructure unconditionally.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// OK wraps data in a successful Result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failed Result carrying the operation's empty default and the
// most specific message available.
func Fail[T any](data T, message string) Result[T] {
	return Result[T]{Success: false, Data: data, Message: message}
}

// Ack is the payload of operations that return no data beyond the outcome.
type Ack struct{}
