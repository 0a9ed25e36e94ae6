package htmset

import "errors"

// errInvalidKey is a precondition violation, not an operational failure.
var errInvalidKey = errors.New("htmset: key must not equal Empty or Tombstone")
