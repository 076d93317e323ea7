package domain

import "errors"

var (
	ErrInviteNotFound    = errors.New("invite not found")
	ErrInviteExpired     = errors.New("invite link has expired")
	ErrInvalidTransition = errors.New("invite is not in the required state")
)
