package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDate is returned when a wide-table date header cannot be parsed.
	ErrMalformedDate = errors.New("malformed date column")

	// ErrSchema is returned when a source table lacks the expected identity columns.
	ErrSchema = errors.New("unexpected table schema")

	// ErrUnknownCountry is returned by queries for a country absent from the aggregate.
	ErrUnknownCountry = errors.New("unknown country")

	// ErrInsufficientHistory is returned when a series is too short for lookback.
	ErrInsufficientHistory = errors.New("insufficient history")
)

// MinCountryHistory is the number of dated rows a country query reads back.
const MinCountryHistory = 3

// InsufficientHistoryError reports how many rows were available when a
// lookback needed more.
type InsufficientHistoryError struct {
	Subject string
	Have    int
	Need    int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s: have %d dated rows, need %d", e.Subject, e.Have, e.Need)
}

// Is makes the error match ErrInsufficientHistory.
func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}
