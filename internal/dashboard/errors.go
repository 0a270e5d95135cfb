package dashboard

import "errors"

var (
	ErrBrochureNotFound   = errors.New("brochure not found")
	ErrChartNotFound      = errors.New("chart not found")
	ErrInvalidChart       = errors.New("invalid chart")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
