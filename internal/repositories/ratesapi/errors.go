package ratesapi

import "errors"

// ErrUnsupportedPair indicates the external source does not quote the
// requested currency pair.
var ErrUnsupportedPair = errors.New("currency pair not quoted by source")

// ErrMalformedResponse indicates the external source answered with a body
// that could not be decoded or failed its own sanity checks.
var ErrMalformedResponse = errors.New("malformed rate source response")
