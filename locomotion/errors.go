package locomotion

import "errors"

var (
	ErrMissingBody    = errors.New("locomotion: missing physics body")
	ErrMissingQuerier = errors.New("locomotion: missing physics querier")
	ErrInvalidExtents = errors.New("locomotion: invalid collider extents")
	ErrInvalidConfig  = errors.New("locomotion: invalid motion config")
)
