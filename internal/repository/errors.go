package repository

import "errors"

var (
	// ErrNotFound the row does not exist for the scoping user. Missing and
	// foreign-owned ids are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrConflict a uniqueness or concurrent-write conflict surfaced by the store.
	ErrConflict = errors.New("conflict")
)
