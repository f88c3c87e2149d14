package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidInput = errors.New("invalid input")
var ErrUnauthorized = errors.New("session unauthorized")
var ErrTimeout = errors.New("request timed out")
var ErrUnavailable = errors.New("backend unavailable")
var ErrNotFound = errors.New("resource not found")
var ErrInvalidTransition = errors.New("invalid booking status transition")
