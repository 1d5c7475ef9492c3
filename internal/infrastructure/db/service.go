package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
	badgerdb "github.com/arkade-os/ledgerkit/internal/infrastructure/db/badger"
	sqlitedb "github.com/arkade-os/ledgerkit/internal/infrastructure/db/sqlite"
	watermilldb "github.com/arkade-os/ledgerkit/internal/infrastructure/db/watermill"
	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed sqlite/migration/*
var migrations embed.FS

var (
	eventStoreTypes = map[string]func(...interface{}) (domain.EventRepository, error){
		"watermill": watermilldb.NewEventRepository,
	}
	coinStoreTypes = map[string]func(...interface{}) (domain.CoinRepository, error){
		"badger": badgerdb.NewCoinRepository,
		"sqlite": sqlitedb.NewCoinRepository,
	}
)

const (
	sqliteDbFile = "sqlite.db"
)

type ServiceConfig struct {
	EventStoreType string
	DataStoreType  string

	EventStoreConfig []interface{}
	DataStoreConfig  []interface{}
}

type compacter interface {
	Compact() error
}

type service struct {
	eventStore domain.EventRepository
	coinStore  domain.CoinRepository
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	newEventStore, ok := eventStoreTypes[config.EventStoreType]
	if !ok {
		return nil, fmt.Errorf("event store type %q not supported", config.EventStoreType)
	}
	newCoinStore, ok := coinStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("coin store type %q not supported", config.DataStoreType)
	}

	coinStoreConfig := config.DataStoreConfig
	if config.DataStoreType == "sqlite" {
		db, err := openSqlite(config.DataStoreConfig)
		if err != nil {
			return nil, err
		}
		coinStoreConfig = []interface{}{db}
	}

	coinStore, err := newCoinStore(coinStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to open coin store: %s", err)
	}
	eventStore, err := newEventStore(config.EventStoreConfig...)
	if err != nil {
		coinStore.Close()
		return nil, fmt.Errorf("failed to open event store: %s", err)
	}

	return &service{eventStore, coinStore}, nil
}

// openSqlite opens the db file in the given base dir, or an in-memory db if
// empty, and brings its schema up to date.
func openSqlite(storeConfig []interface{}) (*sql.DB, error) {
	if len(storeConfig) != 1 {
		return nil, fmt.Errorf("invalid data store config")
	}
	baseDir, ok := storeConfig[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}

	var dbFile string
	if baseDir != "" {
		dbFile = filepath.Join(baseDir, sqliteDbFile)
	}
	db, err := sqlitedb.OpenDb(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %s", err)
	}
	if err := migrateSqlite(db); err != nil {
		//nolint:errcheck
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSqlite(db *sql.DB) error {
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to init migration driver: %s", err)
	}
	source, err := iofs.New(migrations, "sqlite/migration")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %s", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "ledgerdb", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %s", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %s", err)
	}
	return nil
}

func (s *service) Events() domain.EventRepository {
	return s.eventStore
}

func (s *service) Coins() domain.CoinRepository {
	return s.coinStore
}

func (s *service) Compact(_ context.Context) error {
	store, ok := s.coinStore.(compacter)
	if !ok {
		return nil
	}
	return store.Compact()
}

func (s *service) Close() {
	s.eventStore.Close()
	s.coinStore.Close()
	log.Debug("closed db service")
}
