// Package config holds the settings of the command line tool and the
// passwords it keeps in the system keyring.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/console"
)

// KeyringService namespaces every secret shellpath stores.
const KeyringService = "shellpath"

// Secrets stores values in the system keyring.
type Secrets struct {
	service string
}

// NewSecrets creates a Secrets instance with the given service name.
// The service name is used to namespace the stored values in the keyring.
func NewSecrets(service string) (*Secrets, error) {
	if service == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}
	return &Secrets{
		service: service,
	}, nil
}

// Set stores a value in the keyring under the given key.
func (s *Secrets) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	return keyring.Set(s.service, key, value)
}

// SetDefault stores a value in the keyring if it doesn't already exist.
func (s *Secrets) SetDefault(key, value string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	existing, err := keyring.Get(s.service, key)
	if err == nil && existing != "" {
		return nil
	}
	return keyring.Set(s.service, key, value)
}

// Get retrieves a value from the keyring by its key.
// Returns an empty string if the key doesn't exist.
func (s *Secrets) Get(key string) string {
	if key == "" {
		return ""
	}

	value, err := keyring.Get(s.service, key)
	if err != nil {
		return ""
	}
	return value
}

// Exists checks if a key exists in the keyring.
func (s *Secrets) Exists(key string) bool {
	if key == "" {
		return false
	}

	_, err := keyring.Get(s.service, key)
	return err == nil
}

// Delete removes a value from the keyring by its key.
func (s *Secrets) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	return keyring.Delete(s.service, key)
}

// DeleteAll removes all values stored under the service name.
func (s *Secrets) DeleteAll() error {
	return keyring.DeleteAll(s.service)
}

// SetFromInput prompts the user for input and stores the value in the keyring.
func (s *Secrets) SetFromInput(key string, options console.InputOptions) (string, error) {
	value, err := console.Input(options)
	if err != nil {
		return "", err
	}

	if err := s.Set(key, value); err != nil {
		return "", err
	}
	return value, nil
}

// PasswordKey is the keyring key of the SFTP password for user at host.
func PasswordKey(user, host string) string {
	return "sftp:" + user + "@" + strings.ToLower(host)
}

// SFTPPassword finds the password for user at host. SHELLPATH_SFTP_PASSWORD
// and SHELLPATH_SFTP_PASSWORD_FILE win over the keyring.
func (s *Secrets) SFTPPassword(user, host string) string {
	if password := getEnvOrFile("SHELLPATH_SFTP_PASSWORD", "SHELLPATH_SFTP_PASSWORD_FILE"); password != "" {
		return password
	}
	return s.Get(PasswordKey(user, host))
}

// getEnvOrFile gets an environment variable value, or reads it from a file
// if the _FILE variant is set
func getEnvOrFile(envVar, fileVar string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}

	if filePath := os.Getenv(fileVar); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimRight(string(data), "\r\n")
		}
	}
	return ""
}
