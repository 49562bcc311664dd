// Package v1 holds the console's session logic: the in-memory session state,
// the route authorization guards and the login/logout orchestration.
//
// Error Handling:
// This package defines sentinel errors for session lifecycle failures. They
// are wrapped with context using fmt.Errorf("%w") when returned.
//
// Authentication rejections from the workshop API are NOT wrapped: Login and
// Register return the API client's error unchanged so handlers can inspect it
// with errors.As.
//
// Error Checking (in handlers):
//
//	var apiErr *client.APIError
//	switch {
//	case errors.As(err, &apiErr):
//	    c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
//	case errors.Is(err, logicv1.ErrPersistence):
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Session could not be saved"})
//	}
package v1

import "errors"

// Sentinel errors for session operations.
var (
	// ErrAlreadyInitialized indicates Initialize was called more than once.
	ErrAlreadyInitialized = errors.New("session already initialized")

	// ErrEmptyToken indicates an authentication result carried no token.
	// The session is left unchanged.
	ErrEmptyToken = errors.New("authentication result has no token")

	// ErrPersistence indicates the credential store could not be written.
	// The in-memory session has still been updated.
	ErrPersistence = errors.New("credential store write failed")
)
