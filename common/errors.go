package common

import (
	"errors"
)

var (
	ErrNilDescriptor = errors.New("transfer descriptor is not set")
	ErrNilSource     = errors.New("transfer source is not set")
	ErrNoJournals    = errors.New("no journal databases found")
)
