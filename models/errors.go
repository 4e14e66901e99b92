package models

import "errors"

var (
	ErrInvalidCountryName = errors.New("invalid country name")
	ErrInvalidPopulation  = errors.New("invalid population")
	ErrInvalidArea        = errors.New("invalid area")

	ErrNetwork          = errors.New("network request failed")
	ErrPermissionDenied = errors.New("network access not granted")
	ErrCountryNotFound  = errors.New("country not found upstream")

	ErrInvalidSortOption = errors.New("invalid sort option")
	ErrStaleResponse     = errors.New("response superseded by a newer request")
	ErrStateClosed       = errors.New("list state is not running")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
	ErrUnsupportedDatabaseDriver       = errors.New("unsupported database driver")

	ErrRecordNotFound = errors.New("record not found")
)
