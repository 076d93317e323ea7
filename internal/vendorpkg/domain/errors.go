package domain

import "errors"

var (
	ErrPhoneNotVerified = errors.New("phone number not verified")
	ErrNoReusableKYC    = errors.New("no reusable kyc media found")
	ErrCategoryRequired = errors.New("store category is required")
	ErrInvalidCategory  = errors.New("unknown store category")
	ErrAlreadySubmitted = errors.New("store already submitted for review")
)
