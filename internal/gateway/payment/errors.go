package payment

import "dispatch/internal/pkg/apperr"

var (
	ErrGatewayUnavailable = apperr.Upstream("payment gateway unavailable")
	ErrGatewayRejected    = apperr.Upstream("payment gateway rejected the request")
	ErrReferenceNotFound  = apperr.NotFound("payment reference not found")
	ErrMalformedResponse  = apperr.Upstream("malformed payment gateway response")
)
