package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rmarquez/ventapos-backend/internal/cart"
	"github.com/rmarquez/ventapos-backend/internal/clients"
	"github.com/rmarquez/ventapos-backend/internal/lookups"
	"github.com/rmarquez/ventapos-backend/internal/products"
	"github.com/rmarquez/ventapos-backend/pkg/config"
	"github.com/rmarquez/ventapos-backend/pkg/db"
	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/pagination"
)

func setupSalesTestDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	for _, stmt := range []string{
		`CREATE TABLE clients (
			id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT, phone TEXT,
			address TEXT, country TEXT, created_at DATETIME, updated_at DATETIME
		)`,
		`CREATE TABLE sale_types (id TEXT PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE couriers (id TEXT PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE products (
			id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT,
			price NUMERIC NOT NULL, stock INTEGER NOT NULL DEFAULT 0,
			image_path TEXT, category_id TEXT, created_at DATETIME, updated_at DATETIME
		)`,
		`CREATE TABLE sale_headers (
			id TEXT PRIMARY KEY, client_id TEXT NOT NULL, sale_type_id TEXT NOT NULL,
			courier_id TEXT NOT NULL, total NUMERIC NOT NULL,
			discount NUMERIC NOT NULL DEFAULT 0, created_at DATETIME
		)`,
		`CREATE TABLE sale_details (
			id TEXT PRIMARY KEY, sale_id TEXT NOT NULL, line_no INTEGER NOT NULL,
			product_id TEXT NOT NULL, quantity INTEGER NOT NULL,
			unit_price NUMERIC NOT NULL, subtotal NUMERIC NOT NULL
		)`,
	} {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}
	return client
}

type salesFixture struct {
	client   *db.Client
	service  Service
	repo     Repository
	products products.Repository

	clientID   uuid.UUID
	saleTypeID uuid.UUID
	courierID  uuid.UUID
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()

	client := setupSalesTestDB(t)
	ctx := context.Background()

	clientRepo := clients.NewRepository(client.DB())
	lookupRepo := lookups.NewRepository(client.DB())
	productRepo := products.NewRepository(client.DB())
	repo := NewRepository(client.DB())

	buyer := &models.Client{Name: "Ana Torres"}
	require.NoError(t, clientRepo.Create(ctx, buyer))
	saleType := &models.SaleType{Name: "delivery"}
	require.NoError(t, lookupRepo.CreateSaleType(ctx, saleType))
	courier := &models.Courier{Name: "Moto Norte"}
	require.NoError(t, lookupRepo.CreateCourier(ctx, courier))

	svc, err := NewService(repo, productRepo, clientRepo, lookupRepo, client, nil, nil)
	require.NoError(t, err)

	return &salesFixture{
		client:     client,
		service:    svc,
		repo:       repo,
		products:   productRepo,
		clientID:   buyer.ID,
		saleTypeID: saleType.ID,
		courierID:  courier.ID,
	}
}

func (f *salesFixture) seedProduct(t *testing.T, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, f.products.Create(context.Background(), product))
	return product
}

func (f *salesFixture) meta() Meta {
	return Meta{
		ClientID:   f.clientID,
		SaleTypeID: f.saleTypeID,
		CourierID:  f.courierID,
	}
}

func (f *salesFixture) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.client.DB().Raw("SELECT COUNT(*) FROM "+table).Scan(&count).Error)
	return count
}

func TestCommitPersistsHeaderAndDetails(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	coffee := f.seedProduct(t, "Coffee Beans 500g", "10.00", 10)
	mug := f.seedProduct(t, "Ceramic Mug", "5.00", 4)

	store := cart.NewStore()
	require.NoError(t, store.Add(*coffee, 2))
	require.NoError(t, store.Add(*mug, 1))

	meta := f.meta()
	meta.Discount = decimal.RequireFromString("3.00")

	result, err := f.service.Commit(ctx, store, meta)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, result.SaleID)
	assert.False(t, result.Timestamp.IsZero())
	assert.True(t, result.Total.Equal(decimal.RequireFromString("22.00")),
		"total %s", result.Total)

	sale, err := f.service.GetSale(ctx, result.SaleID)
	require.NoError(t, err)
	assert.True(t, sale.Header.Discount.Equal(decimal.RequireFromString("3.00")))
	require.Len(t, sale.Details, 2)
	assert.Equal(t, coffee.ID, sale.Details[0].ProductID)
	assert.Equal(t, 2, sale.Details[0].Quantity)
	assert.True(t, sale.Details[0].Subtotal.Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, mug.ID, sale.Details[1].ProductID)

	updatedCoffee, err := f.products.FindByID(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, updatedCoffee.Stock)
	updatedMug, err := f.products.FindByID(ctx, mug.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updatedMug.Stock)
}

func TestCommitRejectsEmptyCart(t *testing.T) {
	f := newSalesFixture(t)

	_, err := f.service.Commit(context.Background(), cart.NewStore(), f.meta())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))
	assert.Equal(t, int64(0), f.countRows(t, "sale_headers"))
}

func TestCommitRejectsMissingFields(t *testing.T) {
	f := newSalesFixture(t)

	product := f.seedProduct(t, "Notebook", "2.50", 10)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 1))

	meta := f.meta()
	meta.ClientID = uuid.Nil

	_, err := f.service.Commit(context.Background(), store, meta)
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeMissingField))

	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"clientId"}, details["fields"])

	assert.Equal(t, int64(0), f.countRows(t, "sale_headers"))
	assert.Equal(t, int64(0), f.countRows(t, "sale_details"))
}

func TestCommitRejectsDiscountOutOfRange(t *testing.T) {
	f := newSalesFixture(t)

	product := f.seedProduct(t, "Notebook", "4.00", 10)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 1))

	meta := f.meta()
	meta.Discount = decimal.RequireFromString("4.01")
	_, err := f.service.Commit(context.Background(), store, meta)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidDiscount))

	meta.Discount = decimal.RequireFromString("-1.00")
	_, err = f.service.Commit(context.Background(), store, meta)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidDiscount))

	assert.Equal(t, int64(0), f.countRows(t, "sale_headers"))
}

func TestCommitFullDiscountYieldsZeroTotal(t *testing.T) {
	f := newSalesFixture(t)

	product := f.seedProduct(t, "Sticker Pack", "4.00", 10)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 1))

	meta := f.meta()
	meta.Discount = decimal.RequireFromString("4.00")

	result, err := f.service.Commit(context.Background(), store, meta)
	require.NoError(t, err)
	assert.True(t, result.Total.IsZero(), "total %s", result.Total)
}

func TestCommitRejectsUnknownClient(t *testing.T) {
	f := newSalesFixture(t)

	product := f.seedProduct(t, "Notebook", "2.50", 10)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 1))

	meta := f.meta()
	meta.ClientID = uuid.New()

	_, err := f.service.Commit(context.Background(), store, meta)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, int64(0), f.countRows(t, "sale_headers"))
}

func TestCommitRejectsOversoldStock(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Limited Print", "15.00", 3)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 3))

	// Stock dropped between add and checkout.
	require.NoError(t, f.products.Update(ctx, product.ID, map[string]any{"stock": 2}))

	_, err := f.service.Commit(ctx, store, f.meta())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStockExceeded))

	assert.Equal(t, int64(0), f.countRows(t, "sale_headers"))
	assert.Equal(t, int64(0), f.countRows(t, "sale_details"))

	unchanged, err := f.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unchanged.Stock)
}

type failingDetailRepo struct {
	Repository
	err error
}

func (f *failingDetailRepo) WithTx(tx *gorm.DB) Repository {
	return &failingDetailRepo{Repository: f.Repository.WithTx(tx), err: f.err}
}

func (f *failingDetailRepo) CreateDetail(context.Context, *models.SaleDetail) error {
	return f.err
}

func TestCommitRollsBackWhenDetailInsertFails(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Coffee Beans 500g", "10.00", 10)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 2))

	broken := &failingDetailRepo{Repository: f.repo, err: errors.New("disk full")}
	clientRepo := clients.NewRepository(f.client.DB())
	lookupRepo := lookups.NewRepository(f.client.DB())
	svc, err := NewService(broken, f.products, clientRepo, lookupRepo, f.client, nil, nil)
	require.NoError(t, err)

	_, err = svc.Commit(ctx, store, f.meta())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePersistence))

	// The header insert succeeded inside the tx; the rollback must erase it.
	assert.Equal(t, int64(0), f.countRows(t, "sale_headers"))
	assert.Equal(t, int64(0), f.countRows(t, "sale_details"))

	unchanged, findErr := f.products.FindByID(ctx, product.ID)
	require.NoError(t, findErr)
	assert.Equal(t, 10, unchanged.Stock)
}

type blockingTxRunner struct {
	inner   txRunner
	entered chan struct{}
	release chan struct{}
}

func (b *blockingTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	close(b.entered)
	<-b.release
	return b.inner.WithTx(ctx, fn)
}

func TestCommitRejectsConcurrentAttempt(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Coffee Beans 500g", "10.00", 10)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 1))

	blocking := &blockingTxRunner{
		inner:   f.client,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	clientRepo := clients.NewRepository(f.client.DB())
	lookupRepo := lookups.NewRepository(f.client.DB())
	svc, err := NewService(f.repo, f.products, clientRepo, lookupRepo, blocking, nil, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.Commit(ctx, store, f.meta())
	}()

	<-blocking.entered
	_, secondErr := svc.Commit(ctx, store, f.meta())
	require.Error(t, secondErr)
	assert.True(t, pkgerrors.HasCode(secondErr, pkgerrors.CodeCommitInProgress))

	close(blocking.release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, int64(1), f.countRows(t, "sale_headers"))
}

type recordingObserver struct {
	mu       sync.Mutex
	observed []uuid.UUID
}

func (r *recordingObserver) StockChanged(_ context.Context, productIDs []uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observed = append(r.observed, productIDs...)
}

func TestCommitNotifiesStockObserver(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Coffee Beans 500g", "10.00", 10)
	store := cart.NewStore()
	require.NoError(t, store.Add(*product, 1))

	observer := &recordingObserver{}
	clientRepo := clients.NewRepository(f.client.DB())
	lookupRepo := lookups.NewRepository(f.client.DB())
	svc, err := NewService(f.repo, f.products, clientRepo, lookupRepo, f.client, observer, nil)
	require.NoError(t, err)

	_, err = svc.Commit(ctx, store, f.meta())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{product.ID}, observer.observed)
}

func TestGetSaleNotFound(t *testing.T) {
	f := newSalesFixture(t)

	_, err := f.service.GetSale(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeSaleNotFound))
}

func TestListReturnsNewestFirst(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Coffee Beans 500g", "10.00", 100)
	var committed []uuid.UUID
	for i := 0; i < 3; i++ {
		store := cart.NewStore()
		require.NoError(t, store.Add(*product, 1))
		result, err := f.service.Commit(ctx, store, f.meta())
		require.NoError(t, err)
		committed = append(committed, result.SaleID)
	}

	list, err := f.service.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list.Sales, 2)
	require.NotEmpty(t, list.NextCursor)

	rest, err := f.service.List(ctx, pagination.Params{Limit: 2, Cursor: list.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Sales, 1)

	seen := map[uuid.UUID]bool{}
	for _, h := range append(list.Sales, rest.Sales...) {
		seen[h.ID] = true
	}
	for _, id := range committed {
		assert.True(t, seen[id], "sale %s missing from pages", id)
	}
}
