package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/parse"
)

// Store is an in-memory implementation of catalog.Catalog for tests.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	nextProductID int64
	nextInvoiceID int64
	nextOrderID   int64
	nextItemID    int64

	products    map[int64]catalog.Product
	codeIndex   map[string]int64
	invoices    map[int64]invoice
	invoiceNums map[string]int64
	orders      map[int64]catalog.Order
	orderItems  map[int64]catalog.OrderItem
	programs    []catalog.Program
}

type invoice struct {
	id    int64
	items []catalog.OrderItem
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for price-history dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty in-memory catalog seeded with the default
// programs.
func New(opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		nextProductID: 1,
		nextInvoiceID: 1,
		nextOrderID:   1,
		nextItemID:    1,
		products:      make(map[int64]catalog.Product),
		codeIndex:     make(map[string]int64),
		invoices:      make(map[int64]invoice),
		invoiceNums:   make(map[string]int64),
		orders:        make(map[int64]catalog.Order),
		orderItems:    make(map[int64]catalog.OrderItem),
	}
	for i, p := range catalog.DefaultPrograms() {
		p.ID = int64(i + 1)
		s.programs = append(s.programs, p)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ catalog.Catalog = (*Store)(nil)

// Close implements catalog.Catalog.
func (s *Store) Close() error { return nil }

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}

// UpsertProduct inserts or updates a product keyed by item code.
func (s *Store) UpsertProduct(ctx context.Context, item parse.LineItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	if id, ok := s.codeIndex[item.ItemCode]; ok {
		p := s.products[id]
		p.UnitPrice = item.UnitPrice
		p.LastSeen = today
		p.OrderCount++
		if len(p.PriceHistory) == 0 || p.PriceHistory[len(p.PriceHistory)-1].Price != item.UnitPrice {
			p.PriceHistory = append(p.PriceHistory, catalog.PricePoint{Date: today, Price: item.UnitPrice})
		}
		s.products[id] = p
		return id, nil
	}

	id := s.nextProductID
	s.nextProductID++
	s.products[id] = catalog.Product{
		ID:           id,
		ItemCode:     item.ItemCode,
		Description:  item.Description,
		Brand:        item.Brand,
		PackSize:     item.PackSize,
		CategoryCode: item.CategoryCode,
		CategoryName: item.CategoryName,
		UnitPrice:    item.UnitPrice,
		PriceHistory: []catalog.PricePoint{{Date: today, Price: item.UnitPrice}},
		FirstSeen:    today,
		LastSeen:     today,
		OrderCount:   1,
		IsActive:     true,
	}
	s.codeIndex[item.ItemCode] = id
	return id, nil
}

// GetProduct returns a product by ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (catalog.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok, nil
}

// GetProductByCode returns a product by item code.
func (s *Store) GetProductByCode(ctx context.Context, itemCode string) (catalog.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.codeIndex[itemCode]; ok {
		return s.products[id], true, nil
	}
	return catalog.Product{}, false, nil
}

// SearchProducts filters active products, most-ordered first.
func (s *Store) SearchProducts(ctx context.Context, query, category string, limit int) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Product
	q := strings.ToLower(query)
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if category != "" && p.CategoryCode != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(p.ItemCode, query) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].Description < out[j].Description
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ProductsByCategory summarizes active products per category.
func (s *Store) ProductsByCategory(ctx context.Context) ([]catalog.CategorySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCode := make(map[string]*catalog.CategorySummary)
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		sum, ok := byCode[p.CategoryCode]
		if !ok {
			sum = &catalog.CategorySummary{CategoryCode: p.CategoryCode, CategoryName: p.CategoryName}
			byCode[p.CategoryCode] = sum
		}
		sum.AvgPrice = (sum.AvgPrice*float64(sum.Count) + p.UnitPrice) / float64(sum.Count+1)
		sum.Count++
	}

	var out []catalog.CategorySummary
	for _, sum := range byCode {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CategoryCode < out[j].CategoryCode
	})
	return out, nil
}

// FrequentlyOrdered returns the most frequently seen products.
func (s *Store) FrequentlyOrdered(ctx context.Context, limit int) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Product
	for _, p := range s.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].LastSeen > out[j].LastSeen
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AddInvoice records an invoice; duplicates by number are no-ops.
func (s *Store) AddInvoice(ctx context.Context, info parse.InvoiceInfo, totalAmount float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info.Number != "" {
		if id, ok := s.invoiceNums[info.Number]; ok {
			return id, nil
		}
	}
	id := s.nextInvoiceID
	s.nextInvoiceID++
	s.invoices[id] = invoice{id: id}
	if info.Number != "" {
		s.invoiceNums[info.Number] = id
	}
	return id, nil
}

// AddInvoiceItem records one line item against an invoice.
func (s *Store) AddInvoiceItem(ctx context.Context, invoiceID, productID int64, item parse.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("invoice %d not found", invoiceID)
	}
	inv.items = append(inv.items, catalog.OrderItem{
		ProductID: productID,
		Quantity:  item.QuantityShipped,
		UnitPrice: item.UnitPrice,
	})
	s.invoices[invoiceID] = inv
	return nil
}

// CreateOrder creates a new draft order.
func (s *Store) CreateOrder(ctx context.Context, name, deliveryDate, notes string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextOrderID
	s.nextOrderID++
	s.orders[id] = catalog.Order{
		ID:           id,
		Name:         name,
		DeliveryDate: deliveryDate,
		Notes:        notes,
		Status:       catalog.StatusDraft,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}
	return id, nil
}

// GetOrder returns an order with its items.
func (s *Store) GetOrder(ctx context.Context, id int64) (catalog.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return catalog.Order{}, false, nil
	}
	for _, item := range s.sortedOrderItems(id) {
		o.Items = append(o.Items, item)
	}
	return o, true, nil
}

// ListOrders returns orders newest first.
func (s *Store) ListOrders(ctx context.Context, status string, limit int) ([]catalog.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Order
	for _, o := range s.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AddOrderItem adds an item to an order and recomputes the total.
func (s *Store) AddOrderItem(ctx context.Context, orderID, productID int64, quantity int, programs []string, notes string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return 0, fmt.Errorf("order %d not found", orderID)
	}
	p, ok := s.products[productID]
	if !ok {
		return 0, fmt.Errorf("product %d not found", productID)
	}

	id := s.nextItemID
	s.nextItemID++
	s.orderItems[id] = catalog.OrderItem{
		ID:           id,
		OrderID:      orderID,
		ProductID:    productID,
		Quantity:     quantity,
		Programs:     append([]string(nil), programs...),
		Notes:        notes,
		ItemCode:     p.ItemCode,
		Description:  p.Description,
		Brand:        p.Brand,
		PackSize:     p.PackSize,
		UnitPrice:    p.UnitPrice,
		CategoryName: p.CategoryName,
	}
	s.updateOrderTotal(orderID)
	return id, nil
}

// UpdateOrderItem updates quantity, programs, or notes; nil arguments
// leave the field unchanged.
func (s *Store) UpdateOrderItem(ctx context.Context, itemID int64, quantity *int, programs []string, notes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.orderItems[itemID]
	if !ok {
		return fmt.Errorf("order item %d not found", itemID)
	}
	if quantity != nil {
		item.Quantity = *quantity
	}
	if programs != nil {
		item.Programs = append([]string(nil), programs...)
	}
	if notes != nil {
		item.Notes = *notes
	}
	s.orderItems[itemID] = item
	s.updateOrderTotal(item.OrderID)
	return nil
}

// RemoveOrderItem deletes an order item and recomputes the total.
func (s *Store) RemoveOrderItem(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.orderItems[itemID]
	if !ok {
		return fmt.Errorf("order item %d not found", itemID)
	}
	delete(s.orderItems, itemID)
	s.updateOrderTotal(item.OrderID)
	return nil
}

// UpdateOrderStatus sets an order's status.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}
	o.Status = status
	s.orders[orderID] = o
	return nil
}

// DuplicateOrder copies an order and its items into a new draft.
func (s *Store) DuplicateOrder(ctx context.Context, orderID int64, newName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.orders[orderID]
	if !ok {
		return 0, fmt.Errorf("order %d not found", orderID)
	}
	if newName == "" {
		newName = "Copy of " + src.Name
	}

	id := s.nextOrderID
	s.nextOrderID++
	s.orders[id] = catalog.Order{
		ID:        id,
		Name:      newName,
		Notes:     src.Notes,
		Status:    catalog.StatusDraft,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	for _, item := range s.sortedOrderItems(orderID) {
		itemID := s.nextItemID
		s.nextItemID++
		item.ID = itemID
		item.OrderID = id
		s.orderItems[itemID] = item
	}
	s.updateOrderTotal(id)
	return id, nil
}

// ListPrograms returns the seeded funding programs.
func (s *Store) ListPrograms(ctx context.Context, activeOnly bool) ([]catalog.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Program
	for _, p := range s.programs {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// callers must hold mu.
func (s *Store) sortedOrderItems(orderID int64) []catalog.OrderItem {
	var items []catalog.OrderItem
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// callers must hold mu.
func (s *Store) updateOrderTotal(orderID int64) {
	total := 0.0
	for _, item := range s.orderItems {
		if item.OrderID != orderID {
			continue
		}
		if p, ok := s.products[item.ProductID]; ok {
			total += float64(item.Quantity) * p.UnitPrice
		}
	}
	o := s.orders[orderID]
	o.TotalEstimate = total
	s.orders[orderID] = o
}
