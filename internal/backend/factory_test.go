package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
)

func TestFromAPIConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.APIConfig
		want    StoreType
		wantErr bool
	}{
		{"nil config", nil, "", true},
		{"memory", &config.APIConfig{Store: "memory"}, MemoryStore, false},
		{"sqlite", &config.APIConfig{Store: "sqlite", SQLiteDBPath: "x.db"}, SQLiteStore, false},
		{"postgres", &config.APIConfig{Store: "postgres", PostgresURL: "postgres://localhost/db"}, PostgresStore, false},
		{"unknown", &config.APIConfig{Store: "sheets"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAPIConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromAPIConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Type != tt.want {
				t.Errorf("Type = %q, want %q", got.Type, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryStore}, false},
		{"sqlite without path", Config{Type: SQLiteStore}, true},
		{"postgres without url", Config{Type: PostgresStore}, true},
		{"amqp without exchange", Config{Type: MemoryStore, AMQPURL: "amqp://localhost"}, true},
		{"invalid type", Config{Type: "file"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStoreTypeStrings(t *testing.T) {
	got := StoreTypeStrings()
	want := []string{"memory", "sqlite", "postgres"}
	if len(got) != len(want) {
		t.Fatalf("StoreTypeStrings() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StoreTypeStrings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCreateStore(t *testing.T) {
	f := NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	configs := map[string]Config{
		"memory": {Type: MemoryStore},
		"sqlite": {Type: SQLiteStore, SQLiteDBPath: filepath.Join(t.TempDir(), "expenses.db")},
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			res, err := f.CreateStore(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateStore() error = %v", err)
			}
			defer func() {
				if err := res.Cleanup(); err != nil {
					t.Errorf("Cleanup() error = %v", err)
				}
			}()

			created, err := res.Store.CreateExpense(ctx, core.Expense{
				Title: "Coffee", Amount: core.Money{Cents: 250}, Category: core.Food, Date: core.NewDate(2024, 5, 1),
			})
			if err != nil {
				t.Fatalf("CreateExpense() error = %v", err)
			}
			if created.ID.String() != "1" {
				t.Errorf("first id = %q, want 1", created.ID)
			}
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		if _, err := f.CreateStore(ctx, Config{Type: SQLiteStore}); err == nil {
			t.Error("expected error for sqlite without path")
		}
	})
}
