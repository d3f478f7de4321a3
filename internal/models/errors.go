package models

import "errors"

// Custom errors
var (
	ErrInvalidMarket      = errors.New("invalid market: implied probabilities sum to zero or less")
	ErrMissingOdds        = errors.New("no odds quote available")
	ErrUnknownStat        = errors.New("unknown stat type")
	ErrUnknownSide        = errors.New("unknown side")
	ErrNotFound           = errors.New("record not found")
	ErrInsufficientSample = errors.New("sample size below minimum")
)
