package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLinked          = errors.New("amenity not linked to place")
)

// ClientError is a request the client must fix; Message is rendered verbatim.
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string { return e.Message }

func NewClientError(msg string) error { return &ClientError{Message: msg} }

var ErrNotJSON = NewClientError("Not a JSON")

func Missing(field string) error { return NewClientError("Missing " + field) }

func Invalid(field string) error { return NewClientError("Invalid " + field) }
