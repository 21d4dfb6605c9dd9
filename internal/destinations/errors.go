package destinations

import "errors"

var (
	ErrDestinationNotFound = errors.New("destination not found")
	ErrHostRequired        = errors.New("destination host is required")
	ErrInvalidExportFormat = errors.New("export format must be NGINX or Apache")
	ErrVerificationFailed  = errors.New("trial connection failed, destination not saved")
)
