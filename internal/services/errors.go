package services

import "errors"

// ErrNotFound is returned by repositories for an aggregate that does not exist yet.
var ErrNotFound = errors.New("record not found")
