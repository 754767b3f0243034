package cart

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
)

func product(name string, price string, stock int) models.Product {
	return models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func TestAddSnapshotsUnitPrice(t *testing.T) {
	t.Parallel()

	store := NewStore()
	p := product("Coffee", "10.00", 10)
	require.NoError(t, store.Add(p, 2))

	// Catalog price changes must not affect lines already in the cart.
	p.Price = decimal.RequireFromString("99.00")
	require.NoError(t, store.Add(p, 1))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestAddRejectsBeyondStock(t *testing.T) {
	t.Parallel()

	store := NewStore()
	p := product("Tea", "5.00", 5)

	require.NoError(t, store.Add(p, 5))
	err := store.Add(p, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStockExceeded))

	// Rejected add leaves the cart unchanged.
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	store := NewStore()
	err := store.Add(product("Sugar", "1.00", 10), 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.True(t, store.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	store := NewStore()
	p := product("Milk", "2.50", 8)
	require.NoError(t, store.Add(p, 1))

	require.NoError(t, store.UpdateQuantity(p.ID, 4))
	assert.Equal(t, 4, store.Lines()[0].Quantity)

	err := store.UpdateQuantity(p.ID, 9)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStockExceeded))
	assert.Equal(t, 4, store.Lines()[0].Quantity)

	err = store.UpdateQuantity(uuid.New(), 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	store := NewStore()
	p := product("Bread", "1.75", 3)
	require.NoError(t, store.Add(p, 2))

	require.NoError(t, store.UpdateQuantity(p.ID, 0))
	assert.Empty(t, store.Lines())
	assert.True(t, store.Subtotal().IsZero())
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore()
	p := product("Eggs", "3.00", 12)
	require.NoError(t, store.Add(p, 1))

	store.Remove(p.ID)
	store.Remove(p.ID)
	store.Remove(uuid.New())
	assert.True(t, store.IsEmpty())
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	t.Parallel()

	store := NewStore()
	first := product("First", "1.00", 10)
	second := product("Second", "2.00", 10)
	third := product("Third", "3.00", 10)

	require.NoError(t, store.Add(first, 1))
	require.NoError(t, store.Add(second, 1))
	require.NoError(t, store.Add(third, 1))
	store.Remove(second.ID)
	require.NoError(t, store.Add(second, 1))

	lines := store.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, first.ID, lines[0].ProductID)
	assert.Equal(t, third.ID, lines[1].ProductID)
	assert.Equal(t, second.ID, lines[2].ProductID)

	// Repeated iteration over the same snapshot yields the same data.
	again := store.Lines()
	assert.Equal(t, lines, again)
}

func TestSubtotalEmptyCart(t *testing.T) {
	t.Parallel()

	store := NewStore()
	assert.True(t, store.Subtotal().IsZero())
}

func TestClear(t *testing.T) {
	t.Parallel()

	store := NewStore()
	require.NoError(t, store.Add(product("A", "4.00", 5), 2))
	store.Clear()
	assert.True(t, store.IsEmpty())
	assert.True(t, store.Subtotal().IsZero())
}

// Subtotal must always equal the sum over current lines regardless of the
// operation sequence applied.
func TestSubtotalInvariantRandomOps(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	catalog := make([]models.Product, 6)
	for i := range catalog {
		catalog[i] = product("P", decimal.NewFromInt(int64(rng.Intn(50)+1)).StringFixed(2), rng.Intn(20)+1)
	}

	store := NewStore()
	for i := 0; i < 500; i++ {
		p := catalog[rng.Intn(len(catalog))]
		switch rng.Intn(4) {
		case 0:
			_ = store.Add(p, rng.Intn(5)+1)
		case 1:
			_ = store.UpdateQuantity(p.ID, rng.Intn(p.Stock+3))
		case 2:
			store.Remove(p.ID)
		case 3:
			// read path only
			_ = store.Subtotal()
		}

		want := decimal.Zero
		for _, line := range store.Lines() {
			want = want.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		require.True(t, store.Subtotal().Equal(want), "iteration %d: subtotal drifted", i)
	}
}
