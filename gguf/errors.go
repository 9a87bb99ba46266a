package gguf

import "errors"

// ErrBadContainer covers magic/version/truncation/type-tag failures while
// parsing the GGUF wire format.
var ErrBadContainer = errors.New("bad gguf container")
