package domain

import "github.com/light-bringer/advert-catalog/internal/pkg/apperr"

// Domain errors as sentinel values. Each carries the kind the transports
// map to a status code.
var (
	// Advert errors
	ErrAdvertNotFound  = apperr.New(apperr.NotFound, "advert not found")
	ErrInvalidAdvertID = apperr.New(apperr.Validation, "invalid advert id")
	ErrEmptyTitle      = apperr.New(apperr.Validation, "title cannot be empty")
	ErrInvalidPrice    = apperr.New(apperr.Validation, "price must be a decimal number with at most 9 fractional digits")
	ErrNegativePrice   = apperr.New(apperr.Validation, "price cannot be negative")
	ErrInvalidCategory = apperr.New(apperr.Validation, "category must be one of: for_sale, wanted")
	ErrImageRequired   = apperr.New(apperr.Validation, "image is required")
	ErrInvalidImage    = apperr.New(apperr.Validation, "image must be a jpeg, png, gif or webp file")
	ErrSlugTaken       = apperr.New(apperr.Validation, "slug is already in use")

	// Status errors
	ErrUnknownStatus   = apperr.New(apperr.Validation, "unknown status")
	ErrStatusUnchanged = apperr.New(apperr.Validation, "advert already has this status")
	ErrStatusTerminal  = apperr.New(apperr.Validation, "sold adverts cannot change status")

	// Access errors
	ErrUnauthenticated = apperr.New(apperr.Unauthenticated, "authentication required")
	ErrNotOwner        = apperr.New(apperr.Forbidden, "only the owner can modify this advert")
	ErrOwnerNotFound   = apperr.New(apperr.NotFound, "owner not found")
)
