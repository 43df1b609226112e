// Package backend selects and assembles the data layer from configuration:
// a durable SQLite store with AMQP change publishing, or an in-memory store
// for local runs and tests.
package backend

import (
	"fmt"

	"dinamifin/internal/amqp"
	"dinamifin/internal/config"
	"dinamifin/internal/log"
	"dinamifin/internal/services"
	"dinamifin/internal/storage"
	"dinamifin/internal/storage/memory"
)

type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) Valid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	}
	return false
}

// Result bundles the assembled store with its optional event publisher.
// Events is nil for backends without a broker; callers pass it through to
// the record service, which treats nil as publish-disabled.
type Result struct {
	Store   services.Store
	Events  services.EventPublisher
	Cleanup func() error
}

// Build assembles the backend named in the configuration.
func Build(cfg *config.Config, logger *log.Logger) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	t := Type(cfg.DataBackend)
	if !t.Valid() {
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}

	logger = logger.WithComponent(log.ComponentBackend)

	switch t {
	case SQLiteBackend:
		return buildSQLite(cfg, logger)
	default:
		return buildMemory(logger)
	}
}

func buildSQLite(cfg *config.Config, logger *log.Logger) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	// The broker is optional: without it writes still land, the worker
	// just never hears about them.
	var events services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events",
				log.FieldError, err.Error())
		} else {
			events = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	logger.Info("Initialized sqlite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", events != nil)

	cleanup := func() error {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err.Error())
			}
		}
		return repo.Close()
	}

	return &Result{Store: repo, Events: events, Cleanup: cleanup}, nil
}

func buildMemory(logger *log.Logger) (*Result, error) {
	store := memory.New()
	logger.Info("Initialized memory backend")
	return &Result{Store: store, Cleanup: store.Close}, nil
}
