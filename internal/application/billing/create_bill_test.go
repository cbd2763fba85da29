package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-billing-api/internal/application/billing"
	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/memory"
)

type fixture struct {
	store   *memory.Store
	stockUC *inventory.StockLedgerUseCase
	billUC  *billing.CreateBillUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	stockUC := inventory.NewStockLedgerUseCase(store, store.StockTransactions(), zerolog.Nop())
	return &fixture{
		store:   store,
		stockUC: stockUC,
		billUC:  billing.NewCreateBillUseCase(store, stockUC, store.Bills(), "", zerolog.Nop()),
	}
}

// product crea un producto con precio de venta price y stock inicial vía IN.
func (f *fixture) product(t *testing.T, sku, price string, stock int) string {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Name:          "Producto " + sku,
		SKU:           sku,
		PurchasePrice: decimal.NewFromInt(1),
		SellingPrice:  decimal.RequireFromString(price),
		MinStockLevel: 1,
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, f.store.Products().Create(ctx, p))
	if stock > 0 {
		_, err := f.stockUC.Apply(ctx, inventory.ApplyInput{ProductID: p.ID, Quantity: stock, Type: entity.TransactionTypeIN})
		require.NoError(t, err)
	}
	return p.ID
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func billRequest(items ...dto.BillItemRequest) dto.CreateBillRequest {
	return dto.CreateBillRequest{
		CustomerName:  "Cliente",
		PaymentMethod: "CASH",
		Items:         items,
	}
}

func TestCreateBill_DosLineasDescuentaStockYCalculaTotales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)
	b := f.product(t, "B", "20.50", 5)

	tax := decimal.RequireFromString("4.05")
	discount := decimal.RequireFromString("1.55")
	req := billRequest(
		dto.BillItemRequest{ProductID: a, Quantity: 2},
		dto.BillItemRequest{ProductID: b, Quantity: 1},
	)
	req.Tax, req.Discount = &tax, &discount

	bill, err := f.billUC.CreateBill(ctx, "u1", "cajero", req)
	require.NoError(t, err)

	assert.Regexp(t, `^BILL-\d{8}-0001$`, bill.BillNumber)
	assert.Equal(t, entity.BillStatusCompleted, bill.Status)
	require.Len(t, bill.Items, 2)
	assert.True(t, decimal.RequireFromString("20.00").Equal(bill.Items[0].LineTotal))
	assert.True(t, decimal.RequireFromString("20.50").Equal(bill.Items[1].LineTotal))
	assert.True(t, decimal.RequireFromString("40.50").Equal(bill.Subtotal))
	assert.True(t, decimal.RequireFromString("43.00").Equal(bill.Total), bill.Total.String())
	assert.Equal(t, "cajero", bill.Username)

	assert.Equal(t, 3, f.stock(t, a))
	assert.Equal(t, 4, f.stock(t, b))

	ledger, err := f.stockUC.ListByProduct(ctx, a)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, entity.TransactionTypeOUT, ledger[0].Type)
	assert.Equal(t, "Bill #"+bill.BillNumber, ledger[0].Notes)
	assert.Equal(t, "cajero", ledger[0].Username)
}

func TestCreateBill_LineaSinStockRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)
	b := f.product(t, "B", "20.50", 1)

	_, err := f.billUC.CreateBill(ctx, "u1", "cajero", billRequest(
		dto.BillItemRequest{ProductID: a, Quantity: 2},
		dto.BillItemRequest{ProductID: b, Quantity: 3},
	))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 5, f.stock(t, a))
	assert.Equal(t, 1, f.stock(t, b))
	all, err := f.stockUC.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "solo las dos entradas iniciales")
	bills, err := f.billUC.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)

	// El consecutivo no se consumió
	bill, err := f.billUC.CreateBill(ctx, "u1", "cajero", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 1}))
	require.NoError(t, err)
	assert.Regexp(t, `-0001$`, bill.BillNumber)
}

func TestCreateBill_NumeracionConsecutiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "1.00", 10)

	first, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 1}))
	require.NoError(t, err)
	second, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 1}))
	require.NoError(t, err)

	assert.Regexp(t, `-0001$`, first.BillNumber)
	assert.Regexp(t, `-0002$`, second.BillNumber)
	assert.Equal(t, first.BillNumber[:len(first.BillNumber)-4], second.BillNumber[:len(second.BillNumber)-4])
}

func TestCreateBill_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)

	_, err := f.billUC.CreateBill(ctx, "", "", billRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 0}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: uuid.NewString(), Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: "nope", Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "product_id no es UUID")

	neg := decimal.NewFromInt(-1)
	req := billRequest(dto.BillItemRequest{ProductID: a, Quantity: 1})
	req.Tax = &neg
	_, err = f.billUC.CreateBill(ctx, "", "", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "impuesto negativo")

	big := decimal.NewFromInt(100)
	req = billRequest(dto.BillItemRequest{ProductID: a, Quantity: 1})
	req.Discount = &big
	_, err = f.billUC.CreateBill(ctx, "", "", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "total negativo")

	assert.Equal(t, 5, f.stock(t, a))
}

func TestCancelBill_DevuelveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)

	bill, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 3}))
	require.NoError(t, err)
	require.Equal(t, 2, f.stock(t, a))

	cancelled, err := f.billUC.Cancel(ctx, bill.ID, "u2", "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusCancelled, cancelled.Status)
	assert.Equal(t, 5, f.stock(t, a))

	ledger, err := f.stockUC.ListByProduct(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeIN, ledger[0].Type)
	assert.Equal(t, "Bill #"+bill.BillNumber+" cancelled", ledger[0].Notes)

	_, err = f.billUC.Cancel(ctx, bill.ID, "u2", "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.billUC.Cancel(ctx, "nope", "u2", "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelBill_ConcurrenteDevuelveUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)

	bill, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 3}))
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, conflicts := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.billUC.Cancel(ctx, bill.ID, "u2", "admin")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 5, f.stock(t, a))

	ledger, err := f.stockUC.ListByProduct(ctx, a)
	require.NoError(t, err)
	assert.Len(t, ledger, 3, "IN inicial, OUT de la factura y un solo IN de anulación")
}

// staleBillRunner entrega un repo de facturas que siempre lee la factura como COMPLETED,
// como una lectura sin lock que no ve la anulación de otra transacción.
type staleBillRunner struct {
	store *memory.Store
}

func (r staleBillRunner) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
	billRepo repository.BillRepository,
	seqRepo repository.BillSequenceRepository,
) error) error {
	return r.store.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
		billRepo repository.BillRepository,
		seqRepo repository.BillSequenceRepository,
	) error {
		return fn(productRepo, txRepo, staleBillRepo{BillRepository: billRepo}, seqRepo)
	})
}

type staleBillRepo struct {
	repository.BillRepository
}

func (r staleBillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	b, err := r.BillRepository.GetByID(ctx, id)
	if b != nil {
		b.Status = entity.BillStatusCompleted
	}
	return b, err
}

func TestCancelBill_LecturaDesactualizadaNoDevuelveDosVeces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)

	bill, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 3}))
	require.NoError(t, err)
	_, err = f.billUC.Cancel(ctx, bill.ID, "u2", "admin")
	require.NoError(t, err)
	require.Equal(t, 5, f.stock(t, a))

	stale := billing.NewCreateBillUseCase(staleBillRunner{store: f.store}, f.stockUC, f.store.Bills(), "", zerolog.Nop())
	_, err = stale.Cancel(ctx, bill.ID, "u3", "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 5, f.stock(t, a), "el stock no se devuelve dos veces")
}

func TestDeleteBill_NoTocaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)

	bill, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 2}))
	require.NoError(t, err)

	require.NoError(t, f.billUC.Delete(ctx, bill.ID))
	_, err = f.billUC.GetByID(ctx, bill.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 3, f.stock(t, a))

	assert.ErrorIs(t, f.billUC.Delete(ctx, bill.ID), domain.ErrNotFound)
}

func TestBillQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)

	bill, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 1}))
	require.NoError(t, err)

	byNumber, err := f.billUC.GetByNumber(ctx, bill.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, byNumber.ID)
	require.Len(t, byNumber.Items, 1)
	assert.Equal(t, "Producto A", byNumber.Items[0].ProductName)

	_, err = f.billUC.GetByNumber(ctx, "BILL-19990101-0001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.billUC.GetByNumber(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "número mal formado")

	now := time.Now()
	inRange, err := f.billUC.ListByDateRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, inRange, 1)
}

func TestReceiptPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10.00", 5)
	bill, err := f.billUC.CreateBill(ctx, "", "", billRequest(dto.BillItemRequest{ProductID: a, Quantity: 1}))
	require.NoError(t, err)

	gen := &fakeGenerator{}
	uc := billing.NewReceiptUseCase(f.store.Bills(), gen)

	out, name, err := uc.ReceiptPDF(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.BillNumber+".pdf", name)
	assert.Equal(t, []byte("%PDF-fake"), out)
	assert.Equal(t, bill.BillNumber, gen.last)

	_, _, err = uc.ReceiptPDF(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type fakeGenerator struct{ last string }

func (g *fakeGenerator) GenerateBillReceipt(_ context.Context, b *entity.Bill) ([]byte, error) {
	g.last = b.BillNumber
	return []byte("%PDF-fake"), nil
}
