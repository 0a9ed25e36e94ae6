package kcas

import "errors"

// Precondition violations are programming errors, not operational failures:
// the engine panics rather than returning an error, matching the original
// source's assert()-then-abort treatment of the same conditions.
var (
    errTooManyEntries   = errors.New("kcas: descriptor already holds MaxK entries")
    errDuplicateAddress = errors.New("kcas: duplicate address in descriptor")
)
