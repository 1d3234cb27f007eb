// Package keyring stores transport passwords in the operating system's
// keyring, with an encrypted file fallback for hosts that have no keyring
// service.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name passwords are filed under.
const DefaultService = "cookiesync"

// ErrNotFound is returned when no password is stored for an account.
var ErrNotFound = errors.New("password not found")

// Store saves passwords by account, typically "user@host".
type Store interface {
	SetPassword(account, password string) error
	GetPassword(account string) (string, error)
	DeletePassword(account string) error
}

// Logger receives fallback notices.
type Logger interface {
	Warning(format string, args ...interface{})
}

// Keyring is a Store over the OS keyring.
type Keyring struct {
	Service string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

var (
	_ Store = (*Keyring)(nil)
	_ Store = (*FileStore)(nil)
)

func NewKeyring() *Keyring {
	return &Keyring{Service: DefaultService}
}

func (k *Keyring) SetPassword(account, password string) error {
	return keyringSet(k.Service, account, password)
}

func (k *Keyring) GetPassword(account string) (string, error) {
	pw, err := keyringGet(k.Service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return pw, err
}

func (k *Keyring) DeletePassword(account string) error {
	err := keyringDelete(k.Service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// probeAccount is looked up to test whether the keyring service answers.
const probeAccount = "__probe__"

// New returns the OS keyring when it is reachable and otherwise a FileStore
// in configDir. The fallback is reported through log.
func New(configDir string, log Logger) Store {
	kr := NewKeyring()
	_, err := kr.GetPassword(probeAccount)
	if err == nil || errors.Is(err, ErrNotFound) {
		return kr
	}
	if log != nil {
		log.Warning("system keyring unavailable (%v), storing passwords in %s", err, configDir)
	}
	return NewFileStore(configDir)
}
