package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartstore "github.com/rmarquez/ventapos-backend/internal/cart"
	"github.com/rmarquez/ventapos-backend/internal/clients"
	"github.com/rmarquez/ventapos-backend/internal/company"
	"github.com/rmarquez/ventapos-backend/internal/lookups"
	"github.com/rmarquez/ventapos-backend/internal/notifications"
	"github.com/rmarquez/ventapos-backend/internal/products"
	"github.com/rmarquez/ventapos-backend/internal/receipts"
	"github.com/rmarquez/ventapos-backend/internal/sales"
	"github.com/rmarquez/ventapos-backend/pkg/config"
	"github.com/rmarquez/ventapos-backend/pkg/db"
	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

type routerFixture struct {
	handler http.Handler

	clientID   string
	saleTypeID string
	courierID  string
	productID  string
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctx := context.Background()

	client, err := db.New(ctx, config.DBConfig{
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
		`CREATE TABLE company_profiles (
			id TEXT PRIMARY KEY, name TEXT NOT NULL, address TEXT,
			contact TEXT, updated_at DATETIME
		)`,
	} {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}

	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.Disabled})

	productRepo := products.NewRepository(client.DB())
	clientRepo := clients.NewRepository(client.DB())
	lookupRepo := lookups.NewRepository(client.DB())
	saleRepo := sales.NewRepository(client.DB())
	companyRepo := company.NewRepository(client.DB(), company.Profile{Name: "VentaPOS"})

	notificationService, err := notifications.NewService(productRepo, 5, logg, notifications.NewLogNotifier(logg))
	require.NoError(t, err)

	saleService, err := sales.NewService(saleRepo, productRepo, clientRepo, lookupRepo, client, notificationService, nil)
	require.NoError(t, err)

	receiptService, err := receipts.NewService(
		saleService, productRepo, clientRepo, lookupRepo, companyRepo,
		[]receipts.Renderer{receipts.NewTextRenderer(), receipts.NewPDFRenderer()},
		receipts.NewFileSharer(t.TempDir()), nil,
	)
	require.NoError(t, err)

	buyer := &models.Client{Name: "Ana Torres"}
	require.NoError(t, clientRepo.Create(ctx, buyer))
	saleType := &models.SaleType{Name: "delivery"}
	require.NoError(t, lookupRepo.CreateSaleType(ctx, saleType))
	courier := &models.Courier{Name: "Moto Norte"}
	require.NoError(t, lookupRepo.CreateCourier(ctx, courier))
	product := &models.Product{Name: "Coffee Beans 500g", Price: decimal.RequireFromString("10.00"), Stock: 10}
	require.NoError(t, productRepo.Create(ctx, product))

	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	handler := NewRouter(
		cfg, logg, client, cartstore.NewStore(),
		saleService, receiptService, notificationService,
		productRepo, clientRepo, lookupRepo, companyRepo,
	)

	return &routerFixture{
		handler:    handler,
		clientID:   buyer.ID.String(),
		saleTypeID: saleType.ID.String(),
		courierID:  courier.ID.String(),
		productID:  product.ID.String(),
	}
}

func (f *routerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/nope", "").Code)
}

func TestRouterFullSaleFlow(t *testing.T) {
	f := newRouterFixture(t)

	addBody := `{"product_id":"` + f.productID + `","quantity":2}`
	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", addBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	checkoutBody := `{"clientId":"` + f.clientID + `","saleTypeId":"` + f.saleTypeID +
		`","courierId":"` + f.courierID + `","discount":"3.00"}`
	rec = f.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope struct {
		Data struct {
			SaleID string `json:"sale_id"`
			Total  string `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "17", strings.TrimSuffix(envelope.Data.Total, ".00"))

	// Cart is cleared after a durable commit.
	rec = f.do(t, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)

	// Empty cart cannot be committed again.
	rec = f.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_CART")

	rec = f.do(t, http.MethodGet, "/api/v1/sales/"+envelope.Data.SaleID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/sales/"+envelope.Data.SaleID+"/receipt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Torres")

	rec = f.do(t, http.MethodGet, "/api/v1/sales/"+envelope.Data.SaleID+"/receipt?format=text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Coffee Beans 500g")

	rec = f.do(t, http.MethodGet, "/api/v1/sales/", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterLookupsAndCompany(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/sale-types/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery")

	rec = f.do(t, http.MethodPut, "/api/v1/company/", `{"name":"Cafetal del Centro","address":"Av. Central 123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/company/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cafetal del Centro")
}

func TestRouterLowStockSweep(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/inventory/low-stock", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
