package models

import "errors"

// ErrMalformedDocument is returned for an upload that is not JSON at all.
var ErrMalformedDocument = errors.New("malformed backup document")
