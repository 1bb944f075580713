package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrWorkspaceExists   = errors.New("workspace already exists")
	ErrRootWorkspace     = errors.New("the primary workspace cannot be removed")
	ErrLastWorkspace     = errors.New("at least one workspace must exist")
	ErrWorkspaceInUse    = errors.New("workspace is currently in use by collaborators")
	ErrSessionNotFound   = errors.New("session not found")
)

// Validation constants
const (
	MaxSessionNameLength = 32
)
