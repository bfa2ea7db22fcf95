package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "askdb"

// StorePassword saves a profile password in the OS keyring.
func StorePassword(name, password string) error {
	return keyring.Set(keyringService, name, password)
}

// ResolvePassword fills in a profile password from the keyring when the
// profile does not carry one. A missing keyring entry leaves it empty.
func ResolvePassword(conn Connection) (Connection, error) {
	if conn.Password != "" {
		return conn, nil
	}
	password, err := keyring.Get(keyringService, conn.Name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return conn, nil
		}
		return conn, fmt.Errorf("keyring: %w", err)
	}
	conn.Password = password
	return conn, nil
}
