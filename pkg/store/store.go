package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/tally/pkg/models"
)

const filePerm = 0o600

// FileStore persists the ledger and the settings as two JSON files.
//
// Loading never fails: a missing, unreadable or corrupted file yields the
// default value. A corrupted file is logged and then overwritten by the next
// save, so its old content is lost.
type FileStore struct {
	transactionsPath string
	settingsPath     string
	logger           *log.Logger
}

func NewFileStore(transactionsPath, settingsPath string, logger *log.Logger) *FileStore {
	return &FileStore{
		transactionsPath: transactionsPath,
		settingsPath:     settingsPath,
		logger:           logger,
	}
}

func (s *FileStore) TransactionsPath() string { return s.transactionsPath }
func (s *FileStore) SettingsPath() string     { return s.settingsPath }

// LoadTransactions returns the persisted ledger, or an empty one.
func (s *FileStore) LoadTransactions() []models.Transaction {
	data, ok := s.read(s.transactionsPath)
	if !ok {
		return []models.Transaction{}
	}
	txs, err := decodeTransactions(data)
	if err != nil {
		s.logger.Warn("transactions file is corrupted, starting with an empty ledger", "path", s.transactionsPath, "err", err)
		return []models.Transaction{}
	}
	s.logger.Debug("loaded transactions", "path", s.transactionsPath, "count", len(txs))
	return txs
}

// SaveTransactions replaces the persisted ledger with txs.
func (s *FileStore) SaveTransactions(txs []models.Transaction) error {
	data, err := encodeTransactions(txs)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(s.transactionsPath, data, filePerm); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	s.logger.Debug("saved transactions", "path", s.transactionsPath, "count", len(txs))
	return nil
}

// LoadSettings returns the persisted settings, or the defaults.
func (s *FileStore) LoadSettings() models.Settings {
	data, ok := s.read(s.settingsPath)
	if !ok {
		return models.DefaultSettings()
	}
	settings, err := decodeSettings(data)
	if err != nil {
		s.logger.Warn("settings file is corrupted, using defaults", "path", s.settingsPath, "err", err)
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings replaces the persisted settings.
func (s *FileStore) SaveSettings(settings models.Settings) error {
	data, err := encodeSettings(settings)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(s.settingsPath, data, filePerm); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *FileStore) read(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("file not found, using defaults", "path", path)
		return nil, false
	}
	if err != nil {
		s.logger.Warn("failed to read file, using defaults", "path", path, "err", err)
		return nil, false
	}
	return data, true
}
