package importer

import (
	"bytes"
	"testing"

	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []interface{}{
	"variant_id", "product_id", "product_title", "variant_title", "sku",
	"location_id", "stocked_quantity", "reserved_quantity",
}

func TestReadStockRows(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		header,
		{"var_1", "prod_1", "Coffee", "250g", "COF-250", "loc_a", 10, 3},
		{"var_1", "prod_1", "Coffee", "250g", "COF-250", "loc_b", 5, ""},
		{"", "prod_1", "Coffee", "1kg", "COF-1K", "loc_a", 1, 0},
		{"var_2", "prod_1", "Coffee", "1kg", "COF-1K", "loc_a", "lots", 0},
	})

	rows, skipped, err := ReadStockRows(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, 10, rows[0].StockedQuantity)
	assert.Equal(t, 3, rows[0].ReservedQuantity)
	assert.Equal(t, 7, rows[0].Available())
	assert.Equal(t, 0, rows[1].ReservedQuantity)
}

func TestReadStockRows_MissingColumn(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"variant_id", "product_id", "stocked_quantity"},
		{"var_1", "prod_1", 1},
	})

	_, _, err := ReadStockRows(buf)
	assert.ErrorContains(t, err, "location_id")
}

func TestStockRow_AvailableNeverNegative(t *testing.T) {
	assert.Equal(t, 0, StockRow{StockedQuantity: 2, ReservedQuantity: 5}.Available())
}

func TestStockImporter_Import(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	catalogRepo := repository.NewCatalogRepository(testDB)
	inventoryRepo := repository.NewInventoryRepository(testDB)
	importer := NewStockImporter(catalogRepo, inventoryRepo)

	rows := []StockRow{
		{Line: 2, VariantID: "var_1", ProductID: "prod_1", ProductTitle: "Coffee", VariantTitle: "250g", SKU: "COF-250", LocationID: "loc_a", StockedQuantity: 10, ReservedQuantity: 3},
		{Line: 3, VariantID: "var_1", ProductID: "prod_1", ProductTitle: "Coffee", VariantTitle: "250g", SKU: "COF-250", LocationID: "loc_b", StockedQuantity: 5},
		{Line: 4, VariantID: "var_2", ProductID: "prod_1", LocationID: "loc_a", StockedQuantity: 1},
	}

	summary, err := importer.Import(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Imported)

	variants, err := catalogRepo.FindVariantsByIDs([]string{"var_1", "var_2"})
	require.NoError(t, err)
	require.Len(t, variants, 2)

	item, err := inventoryRepo.FindItemByVariant("var_1")
	require.NoError(t, err)
	levels, err := inventoryRepo.FindLevelsByItem(item.ID)
	require.NoError(t, err)
	total := 0
	for _, l := range levels {
		total += l.AvailableQuantity
	}
	assert.Equal(t, 12, total)

	// re-import replaces levels instead of adding to them
	_, err = importer.Import(rows[:1])
	require.NoError(t, err)
	levels, err = inventoryRepo.FindLevelsByItem(item.ID)
	require.NoError(t, err)
	assert.Len(t, levels, 2)
}
