package fetch

import "errors"

// ErrUnexpectedStatus is logged when the server answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")
