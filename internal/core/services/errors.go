package services

import "errors"

// ErrNoInspector is returned by SelectPath when no DocumentInspector is configured.
var ErrNoInspector = errors.New("document inspector is required to select by path")
