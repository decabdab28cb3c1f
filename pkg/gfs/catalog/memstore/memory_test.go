package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/parse"
)

func item(code, desc string, price float64) parse.LineItem {
	return parse.LineItem{
		ItemCode:    code,
		Description: desc,
		UnitPrice:   price,
	}
}

func TestUpsertProduct(t *testing.T) {
	day := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return day }))
	ctx := context.Background()

	id, err := s.UpsertProduct(ctx, item("123456", "Fresh Broccoli", 12.50))
	if err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}

	// Same price: count bumps, history does not.
	if _, err := s.UpsertProduct(ctx, item("123456", "Fresh Broccoli", 12.50)); err != nil {
		t.Fatal(err)
	}
	p, ok, err := s.GetProduct(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetProduct: ok=%v err=%v", ok, err)
	}
	if p.OrderCount != 2 {
		t.Errorf("order count = %d, want 2", p.OrderCount)
	}
	if len(p.PriceHistory) != 1 {
		t.Errorf("history = %+v, want single entry", p.PriceHistory)
	}

	// New price appends with the current date.
	day = time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	if _, err := s.UpsertProduct(ctx, item("123456", "Fresh Broccoli", 13.25)); err != nil {
		t.Fatal(err)
	}
	p, _, err = s.GetProduct(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.PriceHistory) != 2 {
		t.Fatalf("history = %+v, want two entries", p.PriceHistory)
	}
	if p.PriceHistory[1] != (catalog.PricePoint{Date: "2026-02-03", Price: 13.25}) {
		t.Errorf("appended entry = %+v", p.PriceHistory[1])
	}
	if p.FirstSeen != "2026-01-05" || p.LastSeen != "2026-02-03" {
		t.Errorf("first_seen=%q last_seen=%q", p.FirstSeen, p.LastSeen)
	}
}

func TestSearchProducts(t *testing.T) {
	s := New()
	ctx := context.Background()

	seed := []parse.LineItem{
		{ItemCode: "111111", Description: "Chicken Breast", Brand: "Gordon", CategoryCode: "MT"},
		{ItemCode: "222222", Description: "Chicken Tenders", Brand: "Packer", CategoryCode: "FR"},
		{ItemCode: "333333", Description: "Green Beans", Brand: "Markon", CategoryCode: "PR"},
	}
	for _, li := range seed {
		if _, err := s.UpsertProduct(ctx, li); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.UpsertProduct(ctx, seed[1]); err != nil {
		t.Fatal(err)
	}

	got, err := s.SearchProducts(ctx, "chicken", "", 50)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(got) != 2 || got[0].ItemCode != "222222" {
		t.Errorf("got %+v, want tenders first of 2", got)
	}

	got, err = s.SearchProducts(ctx, "", "PR", 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ItemCode != "333333" {
		t.Errorf("category filter got %+v", got)
	}
}

func TestOrderLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	p1, err := s.UpsertProduct(ctx, item("111111", "Broccoli", 12.50))
	if err != nil {
		t.Fatal(err)
	}
	p2, err := s.UpsertProduct(ctx, item("222222", "Carrots", 8.00))
	if err != nil {
		t.Fatal(err)
	}

	orderID, err := s.CreateOrder(ctx, "Week 12", "2026-03-20", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	item1, err := s.AddOrderItem(ctx, orderID, p1, 4, []string{"NSLP"}, "")
	if err != nil {
		t.Fatalf("AddOrderItem: %v", err)
	}
	if _, err := s.AddOrderItem(ctx, orderID, p2, 2, nil, ""); err != nil {
		t.Fatal(err)
	}

	o, ok, err := s.GetOrder(ctx, orderID)
	if err != nil || !ok {
		t.Fatalf("GetOrder: ok=%v err=%v", ok, err)
	}
	if len(o.Items) != 2 {
		t.Fatalf("got %d items", len(o.Items))
	}
	if o.Items[0].Description != "Broccoli" {
		t.Errorf("joined description = %q", o.Items[0].Description)
	}
	if want := 4*12.50 + 2*8.00; o.TotalEstimate != want {
		t.Errorf("total = %v, want %v", o.TotalEstimate, want)
	}

	qty := 6
	if err := s.UpdateOrderItem(ctx, item1, &qty, nil, nil); err != nil {
		t.Fatalf("UpdateOrderItem: %v", err)
	}
	if err := s.RemoveOrderItem(ctx, item1); err != nil {
		t.Fatalf("RemoveOrderItem: %v", err)
	}
	o, _, err = s.GetOrder(ctx, orderID)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Items) != 1 || o.TotalEstimate != 16.00 {
		t.Errorf("after removal: items=%d total=%v", len(o.Items), o.TotalEstimate)
	}
}

func TestDuplicateOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	productID, err := s.UpsertProduct(ctx, item("111111", "Broccoli", 12.50))
	if err != nil {
		t.Fatal(err)
	}
	orderID, err := s.CreateOrder(ctx, "Week 12", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddOrderItem(ctx, orderID, productID, 3, nil, ""); err != nil {
		t.Fatal(err)
	}

	copyID, err := s.DuplicateOrder(ctx, orderID, "")
	if err != nil {
		t.Fatalf("DuplicateOrder: %v", err)
	}
	o, ok, err := s.GetOrder(ctx, copyID)
	if err != nil || !ok {
		t.Fatalf("GetOrder copy: ok=%v err=%v", ok, err)
	}
	if o.Name != "Copy of Week 12" || o.Status != catalog.StatusDraft {
		t.Errorf("copy = %+v", o)
	}
	if len(o.Items) != 1 || o.TotalEstimate != 37.50 {
		t.Errorf("copy items=%d total=%v", len(o.Items), o.TotalEstimate)
	}
}

func TestAddInvoiceDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	info := parse.InvoiceInfo{Number: "928374651"}
	id1, err := s.AddInvoice(ctx, info, 100)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.AddInvoice(ctx, info, 200)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("duplicate invoice ids %d != %d", id1, id2)
	}
}

func TestListPrograms(t *testing.T) {
	s := New()

	got, err := s.ListPrograms(context.Background(), true)
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("got %d programs, want 6", len(got))
	}
}
