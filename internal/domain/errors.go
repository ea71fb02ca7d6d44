package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuestionBankNotFound indicates the question bank could not be loaded.
	ErrQuestionBankNotFound = errors.New("question bank not found")
	// ErrInvalidQuestionBank is returned when loaded questions break engine invariants.
	ErrInvalidQuestionBank = errors.New("invalid question bank")
	// ErrQuestionNotFound indicates a submitted question ID is not the current one.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option index is invalid.
	ErrOptionNotFound = errors.New("option not found")
	// ErrQuizComplete is returned when answering after the last question.
	ErrQuizComplete = errors.New("quiz already complete")
	// ErrAssignmentInFlight rejects triggers while an assignment is pending.
	ErrAssignmentInFlight = errors.New("house assignment already in progress")
	// ErrNothingToRetry is returned by retry before the quiz resolved a house.
	ErrNothingToRetry = errors.New("no resolved house to retry")
	// ErrUnknownHouse indicates a house name outside the fixed set.
	ErrUnknownHouse = errors.New("unknown house")
	// ErrResultNotFound indicates no sorting result was recorded for a user.
	ErrResultNotFound = errors.New("sorting result not found")
)

// Assignment failure kinds.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrRemoteRejected   = errors.New("remote rejected")
	ErrTransportFailure = errors.New("transport failure")
)

const (
	msgUnauthenticated  = "Authentication token not found. Please log in again."
	msgTransportFailure = "Failed to save house assignment. Please try again."
)

// AssignmentError normalizes every assignment failure into a user-facing message.
type AssignmentError struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *AssignmentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *AssignmentError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unauthenticated builds the error for a missing credential.
func Unauthenticated() *AssignmentError {
	return &AssignmentError{Kind: ErrUnauthenticated, Message: msgUnauthenticated}
}

// RemoteRejected builds the error for a non-success response. detail may be empty.
func RemoteRejected(status int, detail string) *AssignmentError {
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("Failed to assign house. Server responded with %d", status)
	}
	return &AssignmentError{Kind: ErrRemoteRejected, Status: status, Message: msg}
}

// TransportFailure wraps a request that could not be completed.
func TransportFailure(err error) *AssignmentError {
	return &AssignmentError{Kind: ErrTransportFailure, Message: msgTransportFailure, Err: err}
}
