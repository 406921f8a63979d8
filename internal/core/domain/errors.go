package domain

import "github.com/m-mizutani/goerr/v2"

var (
	ErrUnauthorized = goerr.New("caller is not whitelisted")

	ErrInvalidDuration    = goerr.New("duration must be a positive number of minutes")
	ErrInvalidID          = goerr.New("id is not a valid integer")
	ErrAlreadyWhitelisted = goerr.New("id is already whitelisted")
	ErrNotWhitelisted     = goerr.New("id is not whitelisted")
	ErrNotBanned          = goerr.New("user is not banned")

	ErrExternalCall = goerr.New("platform call failed")

	ErrConfigUnreadable = goerr.New("configuration document is unreadable")
	ErrConfigWrite      = goerr.New("configuration document could not be written")
)
