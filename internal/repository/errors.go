// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as services
// and handlers to distinguish between different failure scenarios without
// inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as a taken username or a seat already ticketed for a session.
var ErrDuplicate = errors.New("duplicate")

// ErrConflict is returned when a delete cannot be performed because of
// dependent records (e.g. deleting a session that still has tickets).
var ErrConflict = errors.New("conflict")
