package catalog

import (
	"context"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/parse"
)

// Catalog is the persistence boundary for parsed invoice data and the
// ordering workflow built on top of it. Implementations must make
// UpsertProduct idempotent on the item code: a second call with the
// same code updates the record, and appends a price-history entry only
// when the unit price changed since the last call.
type Catalog interface {
	Close() error

	// Products
	UpsertProduct(ctx context.Context, item parse.LineItem) (int64, error)
	GetProduct(ctx context.Context, id int64) (Product, bool, error)
	GetProductByCode(ctx context.Context, itemCode string) (Product, bool, error)
	SearchProducts(ctx context.Context, query, category string, limit int) ([]Product, error)
	ProductsByCategory(ctx context.Context) ([]CategorySummary, error)
	FrequentlyOrdered(ctx context.Context, limit int) ([]Product, error)

	// Invoice history
	AddInvoice(ctx context.Context, info parse.InvoiceInfo, totalAmount float64) (int64, error)
	AddInvoiceItem(ctx context.Context, invoiceID, productID int64, item parse.LineItem) error

	// Orders
	CreateOrder(ctx context.Context, name, deliveryDate, notes string) (int64, error)
	GetOrder(ctx context.Context, id int64) (Order, bool, error)
	ListOrders(ctx context.Context, status string, limit int) ([]Order, error)
	AddOrderItem(ctx context.Context, orderID, productID int64, quantity int, programs []string, notes string) (int64, error)
	UpdateOrderItem(ctx context.Context, itemID int64, quantity *int, programs []string, notes *string) error
	RemoveOrderItem(ctx context.Context, itemID int64) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
	DuplicateOrder(ctx context.Context, orderID int64, newName string) (int64, error)

	// Programs
	ListPrograms(ctx context.Context, activeOnly bool) ([]Program, error)
}

// Order statuses.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusDelivered = "delivered"
)

// PricePoint is one dated entry in a product's price history.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Product is a catalog record accumulated from invoice line items.
type Product struct {
	ID           int64        `json:"id"`
	ItemCode     string       `json:"item_code"`
	Description  string       `json:"description"`
	Brand        string       `json:"brand"`
	PackSize     string       `json:"pack_size"`
	CategoryCode string       `json:"category_code"`
	CategoryName string       `json:"category_name"`
	UnitPrice    float64      `json:"unit_price"`
	PriceHistory []PricePoint `json:"price_history"`
	FirstSeen    string       `json:"first_seen"`
	LastSeen     string       `json:"last_seen"`
	OrderCount   int          `json:"order_count"`
	IsActive     bool         `json:"is_active"`
}

// CategorySummary aggregates the catalog per category.
type CategorySummary struct {
	CategoryCode string  `json:"category_code"`
	CategoryName string  `json:"category_name"`
	Count        int     `json:"count"`
	AvgPrice     float64 `json:"avg_price"`
}

// Order is a draft or submitted GFS order with its items.
type Order struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	DeliveryDate  string      `json:"delivery_date,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Status        string      `json:"status"`
	TotalEstimate float64     `json:"total_estimate"`
	CreatedAt     string      `json:"created_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem is one order line, joined with the product fields needed
// for display.
type OrderItem struct {
	ID        int64    `json:"id"`
	OrderID   int64    `json:"order_id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Programs  []string `json:"programs,omitempty"`
	Notes     string   `json:"notes,omitempty"`

	ItemCode     string  `json:"item_code"`
	Description  string  `json:"description"`
	Brand        string  `json:"brand"`
	PackSize     string  `json:"pack_size"`
	UnitPrice    float64 `json:"unit_price"`
	CategoryName string  `json:"category_name"`
}

// Program is a funding program an order item can be charged against.
type Program struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
	Category  string `json:"category"`
	IsActive  bool   `json:"is_active"`
}

// DefaultPrograms seeds a fresh catalog with the meal programs used by
// the ordering workflow.
func DefaultPrograms() []Program {
	return []Program{
		{Name: "National School Lunch", ShortCode: "NSLP", Category: "Federal", IsActive: true},
		{Name: "School Breakfast", ShortCode: "SBP", Category: "Federal", IsActive: true},
		{Name: "After School Snack", ShortCode: "ASSP", Category: "Federal", IsActive: true},
		{Name: "Summer Food Service", ShortCode: "SFSP", Category: "Federal", IsActive: true},
		{Name: "A La Carte", ShortCode: "ALC", Category: "Local", IsActive: true},
		{Name: "Catering", ShortCode: "CATER", Category: "Local", IsActive: true},
	}
}
