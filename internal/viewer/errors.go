package viewer

import "errors"

var (
	// ErrBusy is returned when a render is requested while another is in
	// flight.
	ErrBusy = errors.New("a render is already in progress")
	// ErrNoDocument is returned by navigation before a document is open.
	ErrNoDocument = errors.New("no document is open")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session is closed")
)
