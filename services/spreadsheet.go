package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lborres/inventrack/core"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const productSheet = "Products"

var spreadsheetColumns = []string{
	"name",
	"sku",
	"wholesale_price_per_unit",
	"retail_price_per_unit",
	"quantity_office_1",
	"quantity_office_8",
	"quantity_home",
	"display_shelf",
	"reorder_point",
	"supplier_id",
	"measurement_unit",
}

type RowFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportReport struct {
	Created int          `json:"created"`
	Failed  []RowFailure `json:"failed"`
}

// SpreadsheetService bulk loads and dumps products as .xlsx workbooks.
type SpreadsheetService struct {
	products *ProductService
	logger   *zap.Logger
}

func NewSpreadsheetService(products *ProductService, logger *zap.Logger) *SpreadsheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpreadsheetService{products: products, logger: logger}
}

// Import creates a product for every valid row of the first sheet. The first
// row is a header naming the columns, in any order. Invalid rows are reported
// and skipped.
func (s *SpreadsheetService) Import(ctx context.Context, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, core.Validation("File is not a valid xlsx workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.Validation("Workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return nil, core.Validation("Workbook has no header row", nil)
	}
	columns, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Failed: []RowFailure{}}
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		rowNum := i + 1

		input, err := productFromRow(row, columns)
		if err == nil {
			_, err = s.products.Create(ctx, input)
		}
		if err != nil {
			if core.KindOf(err) == core.KindInternal {
				s.logger.Error("spreadsheet row import failed", zap.Int("row", rowNum), zap.Error(err))
			}
			report.Failed = append(report.Failed, RowFailure{Row: rowNum, Error: core.MessageOf(err)})
			continue
		}
		report.Created++
	}

	s.logger.Info("spreadsheet import finished",
		zap.Int("created", report.Created),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// Export writes every product to the Products sheet of a new workbook.
func (s *SpreadsheetService) Export(ctx context.Context, w io.Writer) error {
	products, err := s.products.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(spreadsheetColumns)+1)
	for _, col := range spreadsheetColumns {
		header = append(header, col)
	}
	header = append(header, "stock_level")
	if err := f.SetSheetRow(productSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.Name,
			derefString(p.SKU),
			p.WholesalePricePerUnit,
			p.RetailPricePerUnit,
			p.QuantityOffice1,
			p.QuantityOffice8,
			p.QuantityHome,
			p.DisplayShelf,
			p.ReorderPoint,
			supplierCell(p.SupplierID),
			derefString(p.MeasurementUnit),
			p.StockLevel,
		}
		if err := f.SetSheetRow(productSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write product %d: %w", p.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// columnIndex maps each known column name in the header row to its
// position. Unknown headers are ignored; name is required.
func columnIndex(header []string) (map[string]int, error) {
	known := make(map[string]bool, len(spreadsheetColumns))
	for _, col := range spreadsheetColumns {
		known[col] = true
	}

	index := make(map[string]int, len(spreadsheetColumns))
	for i, raw := range header {
		col := strings.ToLower(strings.TrimSpace(raw))
		if !known[col] {
			continue
		}
		if _, dup := index[col]; dup {
			return nil, core.Validation(fmt.Sprintf("Column %q appears more than once", col), nil)
		}
		index[col] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, core.Validation(`Header row must include a "name" column`, nil)
	}
	return index, nil
}

func productFromRow(row []string, columns map[string]int) (core.ProductInput, error) {
	cell := func(col string) string {
		i, ok := columns[col]
		if ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var input core.ProductInput
	var err error
	input.Name = cell("name")
	input.SKU = optionalString(cell("sku"))
	if input.WholesalePricePerUnit, err = optionalFloat("wholesale_price_per_unit", cell("wholesale_price_per_unit")); err != nil {
		return input, err
	}
	if input.RetailPricePerUnit, err = optionalFloat("retail_price_per_unit", cell("retail_price_per_unit")); err != nil {
		return input, err
	}
	ints := []struct {
		column string
		dst    **int
	}{
		{"quantity_office_1", &input.QuantityOffice1},
		{"quantity_office_8", &input.QuantityOffice8},
		{"quantity_home", &input.QuantityHome},
		{"display_shelf", &input.DisplayShelf},
		{"reorder_point", &input.ReorderPoint},
	}
	for _, f := range ints {
		if *f.dst, err = optionalInt(f.column, cell(f.column)); err != nil {
			return input, err
		}
	}
	if raw := cell("supplier_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return input, core.Validation(`"supplier_id" must be a number`, err)
		}
		input.SupplierID = &id
	}
	input.MeasurementUnit = optionalString(cell("measurement_unit"))
	return input, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func optionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

func optionalFloat(column, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, core.Validation(fmt.Sprintf("%q must be a number", column), err)
	}
	return &v, nil
}

func optionalInt(column, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, core.Validation(fmt.Sprintf("%q must be an integer", column), err)
	}
	return &v, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func supplierCell(id *int64) any {
	if id == nil {
		return ""
	}
	return *id
}
