// Package provider arma los repositorios y el TxRunner según STORE_DRIVER (postgres o memory).
package provider

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-billing-api/internal/application/billing"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-billing-api/pkg/config"
)

// TxRunner cubre las transacciones del libro de stock y de facturación.
type TxRunner interface {
	inventory.TxRunner
	billing.BillingTxRunner
}

// Repositories repos fuera de transacción más el runner transaccional del backend elegido.
type Repositories struct {
	Products          repository.ProductRepository
	StockTransactions repository.StockTransactionRepository
	Bills             repository.BillRepository
	Users             repository.UserRepository
	TxRunner          TxRunner

	close func()
}

// Close libera el pool de conexiones (no-op en memoria).
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// New conecta al backend configurado. Con PostgreSQL aplica migraciones si DB_AUTO_MIGRATE=true.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &Repositories{
			Products:          store.Products(),
			StockTransactions: store.StockTransactions(),
			Bills:             store.Bills(),
			Users:             store.Users(),
			TxRunner:          store,
		}, nil

	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		return &Repositories{
			Products:          postgres.NewProductRepository(pool),
			StockTransactions: postgres.NewStockTransactionRepository(pool),
			Bills:             postgres.NewBillRepository(pool),
			Users:             postgres.NewUserRepository(pool),
			TxRunner:          postgres.NewTxRunner(pool),
			close:             pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.App.StoreDriver)
}
