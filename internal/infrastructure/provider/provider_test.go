package provider_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-billing-api/internal/infrastructure/provider"
	"github.com/jhoicas/stock-billing-api/pkg/config"
)

func TestNew_Memory(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{StoreDriver: config.StoreDriverMemory}}
	repos, err := provider.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer repos.Close()

	assert.NotNil(t, repos.Products)
	assert.NotNil(t, repos.StockTransactions)
	assert.NotNil(t, repos.Bills)
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.TxRunner)
}

func TestNew_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{StoreDriver: "sqlite"}}
	_, err := provider.New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
