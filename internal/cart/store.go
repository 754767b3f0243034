package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
)

// Line is one product entry in the in-progress sale. UnitPrice is snapshotted
// when the product is first added and does not follow later catalog edits.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
}

// Subtotal is always derived, never stored.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store holds the register's in-progress sale. All mutations go through one
// mutex; the register has a single logical operator but HTTP handlers may
// overlap.
type Store struct {
	mu    sync.Mutex
	lines map[uuid.UUID]*Line
	order []uuid.UUID
}

func NewStore() *Store {
	return &Store{lines: map[uuid.UUID]*Line{}}
}

// Add inserts a new line or raises the quantity of an existing one. The
// resulting quantity may never exceed the product's stock; a rejected add
// leaves the cart untouched.
func (s *Store) Add(product models.Product, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[product.ID]; ok {
		next := line.Quantity + qty
		if next > product.Stock {
			return stockExceeded(product.ID, product.Stock, next)
		}
		line.Quantity = next
		line.Stock = product.Stock
		return nil
	}

	if qty > product.Stock {
		return stockExceeded(product.ID, product.Stock, qty)
	}

	s.lines[product.ID] = &Line{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  qty,
		UnitPrice: product.Price,
		Stock:     product.Stock,
	}
	s.order = append(s.order, product.ID)
	return nil
}

// UpdateQuantity sets a line's quantity directly. Zero or negative removes
// the line.
func (s *Store) UpdateQuantity(productID uuid.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	if qty <= 0 {
		s.removeLocked(productID)
		return nil
	}
	if qty > line.Stock {
		return stockExceeded(productID, line.Stock, qty)
	}
	line.Quantity = qty
	return nil
}

// Remove deletes a line; removing an absent product is a no-op.
func (s *Store) Remove(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

func (s *Store) removeLocked(productID uuid.UUID) {
	if _, ok := s.lines[productID]; !ok {
		return
	}
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart. Callers invoke this only after a confirmed commit.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = map[uuid.UUID]*Line{}
	s.order = nil
}

// Subtotal sums quantity times unit price over all lines.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, id := range s.order {
		total = total.Add(s.lines[id].Subtotal())
	}
	return total
}

// Lines returns a snapshot of the cart in insertion order. The snapshot is
// detached from the store and safe to iterate repeatedly.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

func stockExceeded(productID uuid.UUID, available, requested int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStockExceeded, "requested quantity exceeds available stock").WithDetails(map[string]any{
		"product_id": productID,
		"available":  available,
		"requested":  requested,
	})
}
