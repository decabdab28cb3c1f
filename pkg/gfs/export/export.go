// Package export renders orders as XLSX workbooks for sending to the
// distributor.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog"
)

// Service produces XLSX bytes for order exports.
type Service struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

func NewService(cat catalog.Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: cat, logger: logger}
}

// ExportOrderXLSX returns an XLSX workbook (as bytes) for one order:
// a header block with the order name, delivery date, and status, then
// one row per item, then the estimated total.
func (s *Service) ExportOrderXLSX(ctx context.Context, orderID int64) ([]byte, error) {
	start := time.Now()

	order, ok, err := s.catalog.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("order %d not found", orderID)
	}

	f := excelize.NewFile()
	const sheet = "Order"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, "Order")
	write(2, 1, order.Name)
	write(1, 2, "Delivery Date")
	write(2, 2, order.DeliveryDate)
	write(1, 3, "Status")
	write(2, 3, order.Status)

	headers := []string{
		"Item Code",
		"Description",
		"Brand",
		"Pack Size",
		"Quantity",
		"Unit Price",
		"Extended",
		"Programs",
		"Notes",
	}
	const headerRow = 5
	for i, h := range headers {
		write(i+1, headerRow, h)
	}

	row := headerRow + 1
	for _, item := range order.Items {
		write(1, row, item.ItemCode)
		write(2, row, item.Description)
		write(3, row, item.Brand)
		write(4, row, item.PackSize)
		write(5, row, item.Quantity)
		write(6, row, item.UnitPrice)
		write(7, row, float64(item.Quantity)*item.UnitPrice)
		write(8, row, strings.Join(item.Programs, ", "))
		write(9, row, item.Notes)
		row++
	}

	write(6, row+1, "Total")
	write(7, row+1, order.TotalEstimate)

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 36)
	_ = f.SetColWidth(sheet, "C", "D", 14)
	_ = f.SetColWidth(sheet, "E", "G", 12)
	_ = f.SetColWidth(sheet, "H", "H", 18)
	_ = f.SetColWidth(sheet, "I", "I", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.order.ok",
		"order_id", orderID,
		"rows", len(order.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
