// Package services holds the business rules for doctors, patients, images and
// reports on top of the repositories.
package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("referenced entity does not exist")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")

	ErrDuplicateDNI    = fmt.Errorf("%w: national id already registered", ErrConflict)
	ErrInUse           = fmt.Errorf("%w: still referenced", ErrConflict)
	ErrAlreadyReported = fmt.Errorf("%w: image already has a report", ErrConflict)
)
