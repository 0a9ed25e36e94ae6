package lockfreeset

import "errors"

// errInvalidKey is a precondition violation (key collides with a sentinel
// slot value); a programming error, not an operational failure.
var errInvalidKey = errors.New("lockfreeset: key must not equal Empty or Tombstone")
