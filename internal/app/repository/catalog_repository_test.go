package repository

import (
	"testing"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository_UpsertAndFind(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewCatalogRepository(testDB)

	require.NoError(t, repo.UpsertProduct(&model.Product{ID: "prod_1", Title: "Coffee"}))
	require.NoError(t, repo.UpsertVariant(&model.ProductVariant{ID: "var_1", ProductID: "prod_1", Title: "250g", SKU: "COF-250"}))
	require.NoError(t, repo.UpsertVariant(&model.ProductVariant{ID: "var_2", ProductID: "prod_1", Title: "1kg", SKU: "COF-1K"}))

	// upsert renames in place
	require.NoError(t, repo.UpsertProduct(&model.Product{ID: "prod_1", Title: "House Coffee"}))
	require.NoError(t, repo.UpsertVariant(&model.ProductVariant{ID: "var_1", ProductID: "prod_1", Title: "250 g", SKU: "COF-250"}))

	variants, err := repo.FindVariantsByIDs([]string{"var_1", "var_missing"})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "250 g", variants[0].Title)
	assert.Equal(t, "House Coffee", variants[0].Product.Title)

	var count int64
	testDB.Model(&model.ProductVariant{}).Count(&count)
	assert.Equal(t, int64(2), count)

	empty, err := repo.FindVariantsByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
