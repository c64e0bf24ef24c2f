package subscriptions

import "errors"

// ErrUnknownToken is returned by Confirm when the presented token does not
// match any stored subscription token. It maps to 401 at the HTTP boundary.
var ErrUnknownToken = errors.New("subscription token not recognized")
