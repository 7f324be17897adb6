package profile

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the OS keyring service name secrets are stored under
	KeyringService = "codeview"

	// passwordAccount is the keyring account holding the endpoint password
	passwordAccount = "password"
)

// ErrSecretNotFound is returned by a SecretStore when no secret is stored.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore is the protected store for the endpoint password.
type SecretStore interface {
	Get(account string) (string, error)
	Set(account, value string) error
	Delete(account string) error
}

// KeyringSecrets stores secrets in the OS credential manager.
type KeyringSecrets struct {
	Service string
}

// NewKeyringSecrets returns a SecretStore backed by the OS keyring.
func NewKeyringSecrets() *KeyringSecrets {
	return &KeyringSecrets{Service: KeyringService}
}

func (k *KeyringSecrets) Get(account string) (string, error) {
	v, err := keyring.Get(k.Service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrSecretNotFound
	}
	return v, err
}

func (k *KeyringSecrets) Set(account, value string) error {
	return keyring.Set(k.Service, account, value)
}

func (k *KeyringSecrets) Delete(account string) error {
	err := keyring.Delete(k.Service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
