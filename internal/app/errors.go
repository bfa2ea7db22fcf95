package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnectivity
	KindQuery
	KindGeneration
	KindChart
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindQuery:
		return "query"
	case KindGeneration:
		return "generation"
	case KindChart:
		return "chart"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ErrConnection represents a database connection error.
type ErrConnection struct {
	Cause error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

// ErrQuery represents a query execution error.
type ErrQuery struct {
	Query string
	Cause error
}

func (e *ErrQuery) Error() string {
	return fmt.Sprintf("query error: %v", e.Cause)
}

func (e *ErrQuery) Unwrap() error {
	return e.Cause
}

// ErrGeneration represents a failed language model call.
type ErrGeneration struct {
	Cause error
}

func (e *ErrGeneration) Error() string {
	return fmt.Sprintf("generation error: %v", e.Cause)
}

func (e *ErrGeneration) Unwrap() error {
	return e.Cause
}

// ErrChart represents a result that cannot be charted.
type ErrChart struct {
	Cause error
}

func (e *ErrChart) Error() string {
	return fmt.Sprintf("chart error: %v", e.Cause)
}

func (e *ErrChart) Unwrap() error {
	return e.Cause
}

// ErrConfig represents a configuration error.
type ErrConfig struct {
	Cause error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ErrConfig) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of the pipeline error wrapped in err.
func KindOf(err error) ErrorKind {
	var (
		connErr  *ErrConnection
		queryErr *ErrQuery
		genErr   *ErrGeneration
		chartErr *ErrChart
		cfgErr   *ErrConfig
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &connErr):
		return KindConnectivity
	case errors.As(err, &queryErr):
		return KindQuery
	case errors.As(err, &genErr):
		return KindGeneration
	case errors.As(err, &chartErr):
		return KindChart
	case errors.As(err, &cfgErr):
		return KindConfig
	default:
		return KindUnknown
	}
}

// Message renders err for display in a front end.
func Message(err error) string {
	var (
		connErr  *ErrConnection
		queryErr *ErrQuery
		genErr   *ErrGeneration
		chartErr *ErrChart
		cfgErr   *ErrConfig
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &connErr):
		return fmt.Sprintf("Database connection error: %v", connErr.Cause)
	case errors.As(err, &queryErr):
		return fmt.Sprintf("Database error: %v", queryErr.Cause)
	case errors.As(err, &genErr):
		return fmt.Sprintf("Error generating SQL query: %v", genErr.Cause)
	case errors.As(err, &chartErr):
		return fmt.Sprintf("Error generating chart: %v", chartErr.Cause)
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("Configuration error: %v", cfgErr.Cause)
	default:
		return fmt.Sprintf("Error processing query: %v", err)
	}
}
