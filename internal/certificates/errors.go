package certificates

import "errors"

var (
	ErrEmailRequired    = errors.New("ACME account email is required")
	ErrNoDomains        = errors.New("at least one domain is required")
	ErrEmptyCertificate = errors.New("empty certificate received from ACME server")
)
