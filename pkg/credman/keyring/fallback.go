package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/warpdl/cookiesync/pkg/credman/encryption"
)

const (
	keyFileName         = "secret.key"
	credentialsFileName = "credentials.json"
	fileMode            = 0600
)

// FileStore keeps passwords AES-GCM sealed in a JSON file next to a random
// 32-byte key file. Both files are written atomically with 0600 permissions.
type FileStore struct {
	configDir string
	mu        sync.Mutex
}

var (
	fileRandRead = rand.Read
	fileReadFile = os.ReadFile
	fileMkdirAll = os.MkdirAll
	fileTempFile = os.CreateTemp
	fileRename   = os.Rename
	fileRemove   = os.Remove
)

// NewFileStore returns a FileStore rooted at configDir. The directory is
// created on first write.
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.configDir, name)
}

func (f *FileStore) SetPassword(account, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key, err := f.loadOrCreateKey()
	if err != nil {
		return err
	}
	creds, err := f.readCredentials()
	if err != nil {
		return err
	}
	sealed, err := encryption.Seal(password, key)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}
	creds[account] = sealed
	return f.writeCredentials(creds)
}

func (f *FileStore) GetPassword(account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := f.readCredentials()
	if err != nil {
		return "", err
	}
	sealed, ok := creds[account]
	if !ok {
		return "", ErrNotFound
	}
	key, err := f.readKey()
	if err != nil {
		return "", err
	}
	pw, err := encryption.Open(sealed, key)
	if err != nil {
		return "", fmt.Errorf("open password: %w", err)
	}
	return pw, nil
}

func (f *FileStore) DeletePassword(account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := f.readCredentials()
	if err != nil {
		return err
	}
	if _, ok := creds[account]; !ok {
		return ErrNotFound
	}
	delete(creds, account)
	return f.writeCredentials(creds)
}

func (f *FileStore) readKey() ([]byte, error) {
	data, err := fileReadFile(f.path(keyFileName))
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: expected 32, got %d", len(key))
	}
	return key, nil
}

func (f *FileStore) loadOrCreateKey() ([]byte, error) {
	key, err := f.readKey()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	key = make([]byte, 32)
	if _, err := fileRandRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := f.writeAtomic(keyFileName, []byte(hex.EncodeToString(key))); err != nil {
		return nil, err
	}
	return key, nil
}

func (f *FileStore) readCredentials() (map[string]string, error) {
	creds := make(map[string]string)
	data, err := fileReadFile(f.path(credentialsFileName))
	if errors.Is(err, os.ErrNotExist) {
		return creds, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", credentialsFileName, err)
	}
	return creds, nil
}

func (f *FileStore) writeCredentials(creds map[string]string) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return f.writeAtomic(credentialsFileName, data)
}

// writeAtomic replaces name in the config dir through a temp file and rename.
func (f *FileStore) writeAtomic(name string, data []byte) error {
	if err := fileMkdirAll(f.configDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmpFile, err := fileTempFile(f.configDir, "."+name+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		fileRemove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmpFile.Close(); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := fileRename(tmpPath, f.path(name)); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
