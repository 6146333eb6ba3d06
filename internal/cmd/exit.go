package cmd

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
}

// NewExitError creates an ExitError. An empty message means the command
// has already reported the problem.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func (e *ExitError) Error() string {
	return e.Message
}
