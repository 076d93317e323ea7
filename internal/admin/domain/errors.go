package domain

import "errors"

var ErrChecklistIncomplete = errors.New("all verification items must be checked before approval")
