package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrOwnerRequired  = errors.New("owner is required")
	ErrConfigRequired = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoNames   = errors.New("no object names provided")
	ErrEmptyName = errors.New("object name is required")
	ErrEmptyPath = errors.New("path is required")
)
