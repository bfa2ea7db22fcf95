package database

import "context"

// Driver opens sessions against one kind of relational store.
// Implementations must be safe for concurrent use.
type Driver interface {
	// Name returns the driver name used in configuration.
	Name() string

	// Open connects to the store and checks that it is reachable.
	Open(ctx context.Context, dsn string) (*Session, error)
}

// WithSession opens a session, runs fn and always closes the session.
func WithSession(ctx context.Context, drv Driver, dsn string, fn func(*Session) error) (err error) {
	s, err := drv.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
