package monitoring

import "errors"

var (
	ErrTargetNotFound   = errors.New("target not found")
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrHostOrIPRequired = errors.New("host or ip fields missing")
	ErrLocationRequired = errors.New("location field missing")
)
