package run

import "errors"

var ErrRunNotFound = errors.New("processing run not found")
