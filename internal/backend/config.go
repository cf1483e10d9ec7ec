package backend

import (
	"fmt"

	"expensetracker/internal/config"
)

// FromAPIConfig converts the data endpoint config to a store config.
func FromAPIConfig(apiConfig *config.APIConfig) (Config, error) {
	if apiConfig == nil {
		return Config{}, fmt.Errorf("api config is nil")
	}

	storeType := StoreType(apiConfig.Store)
	if !storeType.IsValid() {
		return Config{}, fmt.Errorf("invalid store type in config: %s", apiConfig.Store)
	}

	return Config{
		Type:         storeType,
		SQLiteDBPath: apiConfig.SQLiteDBPath,
		PostgresURL:  apiConfig.PostgresURL,
		AMQPURL:      apiConfig.AMQPURL,
		AMQPExchange: apiConfig.AMQPExchange,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid store type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteStore:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite store")
		}
	case PostgresStore:
		if c.PostgresURL == "" {
			return fmt.Errorf("Postgres URL is required for postgres store")
		}
	}

	if c.AMQPURL != "" && c.AMQPExchange == "" {
		return fmt.Errorf("AMQP exchange is required when AMQP URL is set")
	}
	return nil
}

// StoreTypeStrings returns all valid store type strings.
func StoreTypeStrings() []string {
	types := []StoreType{MemoryStore, SQLiteStore, PostgresStore}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
