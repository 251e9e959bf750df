package repository

import "errors"

// Shared repository errors. Handlers match them with errors.Is.
var (
	// ErrDuplicateUser signals a username or email collision on registration.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSong signals that a song is already in the playlist.
	ErrDuplicateSong = errors.New("song already in playlist")
)
