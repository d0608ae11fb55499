package domain

import "errors"

// Gateway failures have no sentinel here: they are recorded on the attempt
// as DECLINED and never surface past the dispatcher.
var (
	ErrUnauthorized     = errors.New("webhook signature verification failed")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)
