package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db      *BadgerDB
	history interfaces.HistoryStorage
	logger  arbor.ILogger
}

// NewManager opens the database and builds its storages
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:      db,
		history: NewHistoryStorage(db, logger),
		logger:  logger,
	}

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// HistoryStorage returns the local history storage
func (m *Manager) HistoryStorage() interfaces.HistoryStorage {
	return m.history
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
