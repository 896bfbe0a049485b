package dao

import "errors"

// ErrNilEntity is returned when a nil record is saved.
var ErrNilEntity = errors.New("dao: nil entity")
