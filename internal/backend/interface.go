package backend

import (
	"context"

	"expensetracker/internal/storage"
)

// CleanupFunc releases whatever the store holds open.
type CleanupFunc func() error

// Result contains the store instance and its cleanup function.
type Result struct {
	Store   storage.Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation.
type Config struct {
	Type StoreType

	SQLiteDBPath string
	PostgresURL  string

	// Change events are published only when AMQPURL is set.
	AMQPURL      string
	AMQPExchange string
}

// StoreType names a persistence backend of the data endpoint.
type StoreType string

const (
	MemoryStore   StoreType = "memory"
	SQLiteStore   StoreType = "sqlite"
	PostgresStore StoreType = "postgres"
)

func (st StoreType) String() string {
	return string(st)
}

func (st StoreType) IsValid() bool {
	switch st {
	case MemoryStore, SQLiteStore, PostgresStore:
		return true
	default:
		return false
	}
}
