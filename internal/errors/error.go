package errors

import "errors"

var (
	ErrSyntax         = errors.New("sgf syntax error")
	ErrRecordNotFound = errors.New("record was not found")
	ErrRecordTooDeep  = errors.New("game tree is nested too deep to be stored")
	ErrBodyTooLarge   = errors.New("request body too large")
	ErrInternal       = errors.New("internal error")
)

// SyntaxError is the single structural failure the parser reports.
// It carries no position.
type SyntaxError struct {
	Message string
}

func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{Message: message}
}

func (e *SyntaxError) Error() string {
	return e.Message
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
