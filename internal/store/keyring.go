package store

import (
	"log/slog"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-birthday-server/internal/config"
)

// Keys under which secrets live in the credential keeper.
const (
	credTelegramBotToken = "telegram_bot_token"
	credVKAccessToken    = "vk_access_token"
)

// CredentialKeeper abstracts secret storage so the notification store does
// not care whether tokens live in the OS keyring or only in memory.
type CredentialKeeper interface {
	Get(key string) (string, error)
	Set(key, value string)
}

// KeyringKeeper persists secrets in the OS keyring under the application
// service name. Failures are logged and swallowed; the in-memory settings
// record remains the source of truth for the running process.
type KeyringKeeper struct{}

// Get reads a secret from the OS keyring.
func (KeyringKeeper) Get(key string) (string, error) {
	v, err := keyring.Get(config.KeyringService, key)
	if err != nil {
		slog.Debug(config.ErrKeyringLoad,
			config.LogKeyComponent, config.CompKeyring,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return "", err
	}
	return v, nil
}

// Set writes a secret to the OS keyring. An empty value clears the entry.
func (KeyringKeeper) Set(key, value string) {
	var err error
	if value == "" {
		err = keyring.Delete(config.KeyringService, key)
	} else {
		err = keyring.Set(config.KeyringService, key, value)
	}
	if err != nil {
		slog.Error(config.ErrKeyringSave,
			config.LogKeyComponent, config.CompKeyring,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
	}
}

// MemoryKeeper keeps secrets in process memory only. Used when the keyring
// is disabled and in tests.
type MemoryKeeper struct {
	mu      sync.Mutex
	secrets map[string]string
}

// NewMemoryKeeper creates an empty in-memory keeper.
func NewMemoryKeeper() *MemoryKeeper {
	return &MemoryKeeper{secrets: make(map[string]string)}
}

// Get returns the stored value; missing keys yield an empty string.
func (m *MemoryKeeper) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.secrets[key], nil
}

// Set stores the value.
func (m *MemoryKeeper) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.secrets[key] = value
}

// NewCredentialKeeper selects the keeper implementation based on runtime
// settings.
func NewCredentialKeeper(useKeyring bool) CredentialKeeper {
	if useKeyring {
		return KeyringKeeper{}
	}
	return NewMemoryKeeper()
}
