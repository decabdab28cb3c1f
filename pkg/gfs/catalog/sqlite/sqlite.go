package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/parse"
)

// Store implements catalog.Catalog on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ catalog.Catalog = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for price-history and seen dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (creating if needed) a catalog database with WAL mode
// enabled and the schema initialized.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS gfs_products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	gfs_item_code TEXT UNIQUE NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	brand TEXT NOT NULL DEFAULT '',
	pack_size TEXT NOT NULL DEFAULT '',
	category_code TEXT NOT NULL DEFAULT '',
	category_name TEXT NOT NULL DEFAULT '',
	unit_price REAL NOT NULL DEFAULT 0,
	price_history TEXT NOT NULL DEFAULT '[]',
	first_seen TEXT,
	last_seen TEXT,
	order_count INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_products_category ON gfs_products(category_code);

CREATE TABLE IF NOT EXISTS gfs_orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	delivery_date TEXT,
	notes TEXT,
	status TEXT NOT NULL DEFAULT 'draft',
	total_estimate REAL NOT NULL DEFAULT 0,
	created_date TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS gfs_order_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 1,
	programs TEXT,
	notes TEXT,
	FOREIGN KEY(order_id) REFERENCES gfs_orders(id) ON DELETE CASCADE,
	FOREIGN KEY(product_id) REFERENCES gfs_products(id)
);

CREATE TABLE IF NOT EXISTS gfs_invoice_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	invoice_number TEXT UNIQUE,
	invoice_date TEXT,
	location TEXT,
	total_amount REAL
);

CREATE TABLE IF NOT EXISTS gfs_invoice_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	invoice_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	quantity INTEGER,
	unit_price REAL,
	extended_price REAL,
	FOREIGN KEY(invoice_id) REFERENCES gfs_invoice_history(id),
	FOREIGN KEY(product_id) REFERENCES gfs_products(id)
);

CREATE TABLE IF NOT EXISTS gfs_programs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	short_code TEXT UNIQUE,
	category TEXT,
	is_active INTEGER NOT NULL DEFAULT 1
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}

	for _, p := range catalog.DefaultPrograms() {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO gfs_programs (name, short_code, category, is_active) VALUES (?, ?, ?, 1)`,
			p.Name, p.ShortCode, p.Category)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}

// UpsertProduct adds or updates a product from invoice data. Existing
// products get their order count bumped and a price-history entry
// appended when the unit price changed since the last entry.
func (s *Store) UpsertProduct(ctx context.Context, item parse.LineItem) (int64, error) {
	var (
		id          int64
		historyJSON string
		orderCount  int
	)
	today := s.today()

	err := s.db.QueryRowContext(ctx,
		`SELECT id, price_history, order_count FROM gfs_products WHERE gfs_item_code = ?`,
		item.ItemCode).Scan(&id, &historyJSON, &orderCount)
	switch {
	case err == sql.ErrNoRows:
		history, _ := json.Marshal([]catalog.PricePoint{{Date: today, Price: item.UnitPrice}})
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO gfs_products (
				gfs_item_code, description, brand, pack_size,
				category_code, category_name, unit_price,
				price_history, first_seen, last_seen, order_count
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			item.ItemCode, item.Description, item.Brand, item.PackSize,
			item.CategoryCode, item.CategoryName, item.UnitPrice,
			string(history), today, today)
		if err != nil {
			return 0, fmt.Errorf("insert product: %w", err)
		}
		return res.LastInsertId()
	case err != nil:
		return 0, fmt.Errorf("lookup product: %w", err)
	}

	var history []catalog.PricePoint
	if historyJSON != "" {
		if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
			return 0, fmt.Errorf("decode price history: %w", err)
		}
	}
	if len(history) == 0 || history[len(history)-1].Price != item.UnitPrice {
		history = append(history, catalog.PricePoint{Date: today, Price: item.UnitPrice})
	}
	updated, _ := json.Marshal(history)

	_, err = s.db.ExecContext(ctx, `
		UPDATE gfs_products SET
			unit_price = ?,
			price_history = ?,
			last_seen = ?,
			order_count = ?
		WHERE id = ?`,
		item.UnitPrice, string(updated), today, orderCount+1, id)
	if err != nil {
		return 0, fmt.Errorf("update product: %w", err)
	}
	return id, nil
}

const productColumns = `id, gfs_item_code, description, brand, pack_size,
	category_code, category_name, unit_price, price_history,
	COALESCE(first_seen, ''), COALESCE(last_seen, ''), order_count, is_active`

func scanProduct(row interface{ Scan(...any) error }) (catalog.Product, error) {
	var (
		p           catalog.Product
		historyJSON string
	)
	err := row.Scan(&p.ID, &p.ItemCode, &p.Description, &p.Brand, &p.PackSize,
		&p.CategoryCode, &p.CategoryName, &p.UnitPrice, &historyJSON,
		&p.FirstSeen, &p.LastSeen, &p.OrderCount, &p.IsActive)
	if err != nil {
		return catalog.Product{}, err
	}
	if historyJSON != "" {
		if err := json.Unmarshal([]byte(historyJSON), &p.PriceHistory); err != nil {
			return catalog.Product{}, fmt.Errorf("decode price history: %w", err)
		}
	}
	return p, nil
}

// GetProduct returns a product by ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (catalog.Product, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM gfs_products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, err
	}
	return p, true, nil
}

// GetProductByCode returns a product by its GFS item code.
func (s *Store) GetProductByCode(ctx context.Context, itemCode string) (catalog.Product, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM gfs_products WHERE gfs_item_code = ?`, itemCode)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, err
	}
	return p, true, nil
}

// SearchProducts filters active products by free-text query and/or
// category code, most-ordered first.
func (s *Store) SearchProducts(ctx context.Context, query, category string, limit int) ([]catalog.Product, error) {
	sqlStr := `SELECT ` + productColumns + ` FROM gfs_products WHERE is_active = 1`
	var args []any

	if query != "" {
		sqlStr += ` AND (description LIKE ? OR brand LIKE ? OR gfs_item_code LIKE ?)`
		like := "%" + query + "%"
		args = append(args, like, like, like)
	}
	if category != "" {
		sqlStr += ` AND category_code = ?`
		args = append(args, category)
	}
	sqlStr += ` ORDER BY order_count DESC, description LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ProductsByCategory summarizes active products per category.
func (s *Store) ProductsByCategory(ctx context.Context) ([]catalog.CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_code, category_name, COUNT(*) AS count,
		       AVG(unit_price) AS avg_price
		FROM gfs_products
		WHERE is_active = 1
		GROUP BY category_code
		ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []catalog.CategorySummary
	for rows.Next() {
		var c catalog.CategorySummary
		if err := rows.Scan(&c.CategoryCode, &c.CategoryName, &c.Count, &c.AvgPrice); err != nil {
			return nil, err
		}
		summaries = append(summaries, c)
	}
	return summaries, rows.Err()
}

// FrequentlyOrdered returns the most frequently seen active products.
func (s *Store) FrequentlyOrdered(ctx context.Context, limit int) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM gfs_products
		WHERE is_active = 1
		ORDER BY order_count DESC, last_seen DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// AddInvoice records an invoice. When the invoice number was already
// recorded the call is a no-op and the existing identifier is
// returned.
func (s *Store) AddInvoice(ctx context.Context, info parse.InvoiceInfo, totalAmount float64) (int64, error) {
	if info.Number != "" {
		var id int64
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM gfs_invoice_history WHERE invoice_number = ?`,
			info.Number).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}
	}

	var number, date any
	if info.Number != "" {
		number = info.Number
	}
	if info.Date != nil {
		date = info.Date.Format("2006-01-02")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO gfs_invoice_history (invoice_number, invoice_date, location, total_amount)
		VALUES (?, ?, ?, ?)`,
		number, date, info.Location, totalAmount)
	if err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	return res.LastInsertId()
}

// AddInvoiceItem records one line item against an invoice.
func (s *Store) AddInvoiceItem(ctx context.Context, invoiceID, productID int64, item parse.LineItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gfs_invoice_items (invoice_id, product_id, quantity, unit_price, extended_price)
		VALUES (?, ?, ?, ?, ?)`,
		invoiceID, productID, item.QuantityShipped, item.UnitPrice, item.ExtendedPrice)
	return err
}

// CreateOrder creates a new draft order.
func (s *Store) CreateOrder(ctx context.Context, name, deliveryDate, notes string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO gfs_orders (name, delivery_date, notes, status)
		VALUES (?, ?, ?, ?)`,
		name, nullable(deliveryDate), nullable(notes), catalog.StatusDraft)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return res.LastInsertId()
}

// GetOrder returns an order with all of its items.
func (s *Store) GetOrder(ctx context.Context, id int64) (catalog.Order, bool, error) {
	var o catalog.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(delivery_date, ''), COALESCE(notes, ''),
		       status, total_estimate, created_date
		FROM gfs_orders WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.DeliveryDate, &o.Notes, &o.Status, &o.TotalEstimate, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return catalog.Order{}, false, nil
	}
	if err != nil {
		return catalog.Order{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity,
		       COALESCE(oi.programs, ''), COALESCE(oi.notes, ''),
		       p.gfs_item_code, p.description, p.brand, p.pack_size,
		       p.unit_price, p.category_name
		FROM gfs_order_items oi
		JOIN gfs_products p ON oi.product_id = p.id
		WHERE oi.order_id = ?
		ORDER BY oi.id`, id)
	if err != nil {
		return catalog.Order{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item         catalog.OrderItem
			programsJSON string
		)
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&programsJSON, &item.Notes,
			&item.ItemCode, &item.Description, &item.Brand, &item.PackSize,
			&item.UnitPrice, &item.CategoryName)
		if err != nil {
			return catalog.Order{}, false, err
		}
		if programsJSON != "" {
			if err := json.Unmarshal([]byte(programsJSON), &item.Programs); err != nil {
				return catalog.Order{}, false, fmt.Errorf("decode programs: %w", err)
			}
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return catalog.Order{}, false, err
	}
	return o, true, nil
}

// ListOrders returns orders newest first, optionally filtered by
// status. Items are not loaded.
func (s *Store) ListOrders(ctx context.Context, status string, limit int) ([]catalog.Order, error) {
	sqlStr := `SELECT id, name, COALESCE(delivery_date, ''), COALESCE(notes, ''),
		status, total_estimate, created_date FROM gfs_orders`
	var args []any
	if status != "" {
		sqlStr += ` WHERE status = ?`
		args = append(args, status)
	}
	sqlStr += ` ORDER BY created_date DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []catalog.Order
	for rows.Next() {
		var o catalog.Order
		err := rows.Scan(&o.ID, &o.Name, &o.DeliveryDate, &o.Notes,
			&o.Status, &o.TotalEstimate, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// AddOrderItem adds an item to an order and recomputes the order
// total.
func (s *Store) AddOrderItem(ctx context.Context, orderID, productID int64, quantity int, programs []string, notes string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO gfs_order_items (order_id, product_id, quantity, programs, notes)
		VALUES (?, ?, ?, ?, ?)`,
		orderID, productID, quantity, programsJSON(programs), nullable(notes))
	if err != nil {
		return 0, fmt.Errorf("insert order item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, s.updateOrderTotal(ctx, orderID)
}

// UpdateOrderItem updates an order item's quantity, programs, or
// notes; nil arguments leave the field unchanged.
func (s *Store) UpdateOrderItem(ctx context.Context, itemID int64, quantity *int, programs []string, notes *string) error {
	var orderID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT order_id FROM gfs_order_items WHERE id = ?`, itemID).Scan(&orderID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("order item %d not found", itemID)
	}
	if err != nil {
		return err
	}

	if quantity != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE gfs_order_items SET quantity = ? WHERE id = ?`, *quantity, itemID); err != nil {
			return err
		}
	}
	if programs != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE gfs_order_items SET programs = ? WHERE id = ?`, programsJSON(programs), itemID); err != nil {
			return err
		}
	}
	if notes != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE gfs_order_items SET notes = ? WHERE id = ?`, *notes, itemID); err != nil {
			return err
		}
	}
	return s.updateOrderTotal(ctx, orderID)
}

// RemoveOrderItem deletes an order item and recomputes the order
// total.
func (s *Store) RemoveOrderItem(ctx context.Context, itemID int64) error {
	var orderID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT order_id FROM gfs_order_items WHERE id = ?`, itemID).Scan(&orderID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("order item %d not found", itemID)
	}
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM gfs_order_items WHERE id = ?`, itemID); err != nil {
		return err
	}
	return s.updateOrderTotal(ctx, orderID)
}

func (s *Store) updateOrderTotal(ctx context.Context, orderID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE gfs_orders SET total_estimate = COALESCE((
			SELECT SUM(oi.quantity * p.unit_price)
			FROM gfs_order_items oi
			JOIN gfs_products p ON oi.product_id = p.id
			WHERE oi.order_id = ?
		), 0) WHERE id = ?`, orderID, orderID)
	return err
}

// UpdateOrderStatus sets an order's status.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE gfs_orders SET status = ? WHERE id = ?`, status, orderID)
	return err
}

// DuplicateOrder copies an order and its items into a new draft.
func (s *Store) DuplicateOrder(ctx context.Context, orderID int64, newName string) (int64, error) {
	var (
		name  string
		notes sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, notes FROM gfs_orders WHERE id = ?`, orderID).Scan(&name, &notes)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("order %d not found", orderID)
	}
	if err != nil {
		return 0, err
	}

	if newName == "" {
		newName = "Copy of " + name
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO gfs_orders (name, notes, status) VALUES (?, ?, ?)`,
		newName, notes, catalog.StatusDraft)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO gfs_order_items (order_id, product_id, quantity, programs, notes)
		SELECT ?, product_id, quantity, programs, notes
		FROM gfs_order_items WHERE order_id = ?`, newID, orderID)
	if err != nil {
		return 0, err
	}
	return newID, s.updateOrderTotal(ctx, newID)
}

// ListPrograms returns the funding programs, ordered by category then
// name.
func (s *Store) ListPrograms(ctx context.Context, activeOnly bool) ([]catalog.Program, error) {
	sqlStr := `SELECT id, name, COALESCE(short_code, ''), COALESCE(category, ''), is_active FROM gfs_programs`
	if activeOnly {
		sqlStr += ` WHERE is_active = 1`
	}
	sqlStr += ` ORDER BY category, name`

	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []catalog.Program
	for rows.Next() {
		var p catalog.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.ShortCode, &p.Category, &p.IsActive); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func programsJSON(programs []string) any {
	if len(programs) == 0 {
		return nil
	}
	data, _ := json.Marshal(programs)
	return string(data)
}
