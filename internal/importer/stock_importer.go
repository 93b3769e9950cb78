package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Sheet columns, matched by header name in any order.
const (
	ColVariantID        = "variant_id"
	ColProductID        = "product_id"
	ColProductTitle     = "product_title"
	ColVariantTitle     = "variant_title"
	ColSKU              = "sku"
	ColLocationID       = "location_id"
	ColStockedQuantity  = "stocked_quantity"
	ColReservedQuantity = "reserved_quantity"
)

var requiredColumns = []string{ColVariantID, ColProductID, ColLocationID, ColStockedQuantity}

// StockRow is one variant's stock at one location.
type StockRow struct {
	Line             int
	VariantID        string
	ProductID        string
	ProductTitle     string
	VariantTitle     string
	SKU              string
	LocationID       string
	StockedQuantity  int
	ReservedQuantity int
}

// Available is stocked minus reserved, never negative.
func (r StockRow) Available() int {
	if r.ReservedQuantity >= r.StockedQuantity {
		return 0
	}
	return r.StockedQuantity - r.ReservedQuantity
}

type Summary struct {
	Rows     int `json:"rows"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ReadStockRows parses the first sheet of an XLSX workbook. Rows missing a
// required value or with a non-numeric quantity are skipped and counted.
func ReadStockRows(r io.Reader) ([]StockRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result []StockRow
	skipped := 0
	for i, row := range rows[1:] {
		line := i + 2
		stockRow := StockRow{
			Line:         line,
			VariantID:    cell(row, ColVariantID),
			ProductID:    cell(row, ColProductID),
			ProductTitle: cell(row, ColProductTitle),
			VariantTitle: cell(row, ColVariantTitle),
			SKU:          cell(row, ColSKU),
			LocationID:   cell(row, ColLocationID),
		}
		if stockRow.VariantID == "" || stockRow.ProductID == "" || stockRow.LocationID == "" {
			skipped++
			continue
		}

		stocked, err := parseQuantity(cell(row, ColStockedQuantity))
		if err != nil {
			logger.Warn("Skipping row with invalid stocked quantity", map[string]interface{}{
				"line":  line,
				"error": err.Error(),
			})
			skipped++
			continue
		}
		reserved, err := parseQuantity(cell(row, ColReservedQuantity))
		if err != nil {
			logger.Warn("Skipping row with invalid reserved quantity", map[string]interface{}{
				"line":  line,
				"error": err.Error(),
			})
			skipped++
			continue
		}
		stockRow.StockedQuantity = stocked
		stockRow.ReservedQuantity = reserved

		result = append(result, stockRow)
	}

	return result, skipped, nil
}

func parseQuantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative quantity: %d", n)
	}
	return n, nil
}

// StockImporter writes parsed rows into the catalog and inventory tables.
type StockImporter struct {
	catalogRepo   repository.CatalogRepository
	inventoryRepo repository.InventoryRepository
}

func NewStockImporter(catalogRepo repository.CatalogRepository, inventoryRepo repository.InventoryRepository) *StockImporter {
	return &StockImporter{
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
	}
}

// Import upserts the product, the variant, the variant's inventory item and
// the location level of every row. It stops at the first storage error.
func (im *StockImporter) Import(rows []StockRow) (*Summary, error) {
	summary := &Summary{Rows: len(rows)}

	for _, row := range rows {
		productTitle := row.ProductTitle
		if productTitle == "" {
			productTitle = row.ProductID
		}
		variantTitle := row.VariantTitle
		if variantTitle == "" {
			variantTitle = row.VariantID
		}

		if err := im.catalogRepo.UpsertProduct(&model.Product{ID: row.ProductID, Title: productTitle}); err != nil {
			return summary, fmt.Errorf("line %d: %w", row.Line, err)
		}
		if err := im.catalogRepo.UpsertVariant(&model.ProductVariant{
			ID:        row.VariantID,
			ProductID: row.ProductID,
			Title:     variantTitle,
			SKU:       row.SKU,
		}); err != nil {
			return summary, fmt.Errorf("line %d: %w", row.Line, err)
		}

		item, err := im.inventoryRepo.UpsertItemForVariant(row.VariantID, row.SKU)
		if err != nil {
			return summary, fmt.Errorf("line %d: %w", row.Line, err)
		}
		if err := im.inventoryRepo.UpsertLevel(&model.InventoryLevel{
			InventoryItemID:   item.ID,
			LocationID:        row.LocationID,
			StockedQuantity:   row.StockedQuantity,
			ReservedQuantity:  row.ReservedQuantity,
			AvailableQuantity: row.Available(),
		}); err != nil {
			return summary, fmt.Errorf("line %d: %w", row.Line, err)
		}

		summary.Imported++
	}

	logger.Info("Stock import completed", map[string]interface{}{
		"rows":     summary.Rows,
		"imported": summary.Imported,
	})
	return summary, nil
}
