package db

import "errors"

// timeLayout is how created_at is stored; strftime understands it.
const timeLayout = "2006-01-02 15:04:05"

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")
