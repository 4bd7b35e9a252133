package scoring

import "github.com/abhisek/penilai/internal/store"

// draftSavedMsg reports the outcome of a background draft save.
type draftSavedMsg struct {
	Err error
}

// syncedMsg reports the outcome of ctrl+s.
type syncedMsg struct {
	Grades []store.Grade
	Err    error
}
