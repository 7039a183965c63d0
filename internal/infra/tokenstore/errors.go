package tokenstore

import "errors"

var ErrInvalidTokenData = errors.New("invalid oauth token data")
