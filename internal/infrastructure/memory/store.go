// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con STORE_DRIVER=memory para desarrollo local sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-billing-api/internal/application/billing"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ billing.BillingTxRunner = (*Store)(nil)

// state son las "tablas". Los repos guardan copias, nunca punteros del caller.
type state struct {
	products     map[string]entity.Product
	transactions []entity.StockTransaction // orden de inserción
	bills        map[string]entity.Bill
	sequences    map[string]int // día (2006-01-02) -> último consecutivo
	users        map[string]entity.User
}

func newState() *state {
	return &state{
		products:  make(map[string]entity.Product),
		bills:     make(map[string]entity.Bill),
		sequences: make(map[string]int),
		users:     make(map[string]entity.User),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:     make(map[string]entity.Product, len(s.products)),
		transactions: append([]entity.StockTransaction(nil), s.transactions...),
		bills:        make(map[string]entity.Bill, len(s.bills)),
		sequences:    make(map[string]int, len(s.sequences)),
		users:        make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.bills {
		c.bills[k] = copyBill(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store guarda todo bajo un único mutex. Una transacción trabaja sobre una copia del estado
// y solo la publica si fn termina sin error: un rollback simplemente descarta la copia.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Products repo de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{v: view{store: s}} }

// StockTransactions repo del libro de stock fuera de transacción.
func (s *Store) StockTransactions() *StockTransactionRepo {
	return &StockTransactionRepo{v: view{store: s}}
}

// Bills repo de facturas fuera de transacción.
func (s *Store) Bills() *BillRepo { return &BillRepo{v: view{store: s}} }

// BillSequences contador de facturas fuera de transacción.
func (s *Store) BillSequences() *BillSequenceRepo { return &BillSequenceRepo{v: view{store: s}} }

// Users repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{v: view{store: s}} }

// Run ejecuta fn con repos de producto y libro atados a una transacción.
// fn no debe usar los repos no transaccionales del mismo Store: el mutex no es reentrante.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	return s.inTx(ctx, func(v view) error {
		return fn(&ProductRepo{v: v}, &StockTransactionRepo{v: v})
	})
}

// RunBilling ejecuta fn con repos de inventario y facturación atados a una transacción.
func (s *Store) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
	billRepo repository.BillRepository,
	seqRepo repository.BillSequenceRepository,
) error) error {
	return s.inTx(ctx, func(v view) error {
		return fn(&ProductRepo{v: v}, &StockTransactionRepo{v: v}, &BillRepo{v: v}, &BillSequenceRepo{v: v})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(view{tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// view resuelve sobre qué estado opera un repo: el de una transacción abierta (ya bajo el mutex)
// o el del store, tomando el mutex por operación.
type view struct {
	store *Store
	tx    *state
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func copyBill(b entity.Bill) entity.Bill {
	b.Items = append([]entity.BillItem{}, b.Items...)
	return b
}
