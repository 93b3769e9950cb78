package repository

import (
	"testing"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBundleTest(t *testing.T) (*gorm.DB, BundleRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewBundleRepository(testDB)
}

func sampleBundle() *model.Bundle {
	productID := "prod_1"
	variantID := "var_rep"
	return &model.Bundle{
		Title:     "Starter Kit",
		ProductID: &productID,
		VariantID: &variantID,
		Price:     decimal.NewFromInt(1500),
		IsActive:  true,
		Items: []model.BundleItem{
			{VariantID: "var_b", Quantity: 1, SortOrder: 1},
			{VariantID: "var_a", Quantity: 2, SortOrder: 0},
		},
		ChoiceSlots: []model.ChoiceSlot{
			{
				Name: "Flavor", Required: true, MinSelections: 1, MaxSelections: 1, SortOrder: 0,
				Options: []model.ChoiceOption{
					{VariantID: "var_mint", Quantity: 1, SortOrder: 1},
					{VariantID: "var_lemon", Quantity: 1, SortOrder: 0},
				},
			},
		},
		Texts: []model.BundleText{{Text: "Limited edition", SortOrder: 0}},
	}
}

func TestBundleRepository_CreateAndFind(t *testing.T) {
	testDB, repo := setupBundleTest(t)
	defer db.CleanupTestDB(testDB)

	bundle := sampleBundle()
	require.NoError(t, repo.Create(bundle))
	assert.NotEmpty(t, bundle.ID)

	found, err := repo.FindByID(bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, "Starter Kit", found.Title)
	assert.Equal(t, "var_rep", found.RepresentativeVariant())

	// children come back in sort order
	require.Len(t, found.Items, 2)
	assert.Equal(t, "var_a", found.Items[0].VariantID)
	assert.Equal(t, "var_b", found.Items[1].VariantID)
	require.Len(t, found.ChoiceSlots, 1)
	require.Len(t, found.ChoiceSlots[0].Options, 2)
	assert.Equal(t, "var_lemon", found.ChoiceSlots[0].Options[0].VariantID)
	require.Len(t, found.Texts, 1)

	var links int64
	testDB.Model(&model.ProductBundleLink{}).Where("bundle_id = ? AND product_id = ?", bundle.ID, "prod_1").Count(&links)
	assert.Equal(t, int64(1), links)
}

func TestBundleRepository_FindByID_NotFound(t *testing.T) {
	testDB, repo := setupBundleTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindByID("bndl_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBundleRepository_FindActive(t *testing.T) {
	testDB, repo := setupBundleTest(t)
	defer db.CleanupTestDB(testDB)

	active := sampleBundle()
	require.NoError(t, repo.Create(active))
	inactive := sampleBundle()
	inactive.IsActive = false
	require.NoError(t, repo.Create(inactive))

	bundles, err := repo.FindActive()
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, active.ID, bundles[0].ID)
	assert.Len(t, bundles[0].ChoiceSlots[0].Options, 2)
}

func TestBundleRepository_Update(t *testing.T) {
	testDB, repo := setupBundleTest(t)
	defer db.CleanupTestDB(testDB)

	bundle := sampleBundle()
	require.NoError(t, repo.Create(bundle))

	// scalar fields only
	err := repo.Update(bundle.ID, BundleChanges{Fields: map[string]interface{}{
		"title":      "Starter Kit v2",
		"is_active":  false,
		"product_id": "prod_2",
	}})
	require.NoError(t, err)

	found, err := repo.FindByID(bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, "Starter Kit v2", found.Title)
	assert.False(t, found.IsActive)
	assert.Len(t, found.Items, 2)

	var links []model.ProductBundleLink
	require.NoError(t, testDB.Where("bundle_id = ?", bundle.ID).Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, "prod_2", links[0].ProductID)

	// replace items, clear slots
	items := []model.BundleItem{{VariantID: "var_c", Quantity: 4}}
	slots := []model.ChoiceSlot{}
	require.NoError(t, repo.Update(bundle.ID, BundleChanges{Items: &items, ChoiceSlots: &slots}))

	found, err = repo.FindByID(bundle.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "var_c", found.Items[0].VariantID)
	assert.Empty(t, found.ChoiceSlots)
	assert.Len(t, found.Texts, 1)

	var options int64
	testDB.Model(&model.ChoiceOption{}).Count(&options)
	assert.Zero(t, options)
}

func TestBundleRepository_Update_ProductRelink(t *testing.T) {
	testDB, repo := setupBundleTest(t)
	defer db.CleanupTestDB(testDB)

	bundle := sampleBundle()
	require.NoError(t, repo.Create(bundle))

	countLinks := func(productID string) int64 {
		var n int64
		testDB.Model(&model.ProductBundleLink{}).
			Where("bundle_id = ? AND product_id = ?", bundle.ID, productID).
			Count(&n)
		return n
	}

	// same product twice keeps a single link
	require.NoError(t, repo.Update(bundle.ID, BundleChanges{Fields: map[string]interface{}{"product_id": "prod_1"}}))
	assert.Equal(t, int64(1), countLinks("prod_1"))

	require.NoError(t, repo.Update(bundle.ID, BundleChanges{Fields: map[string]interface{}{"product_id": "prod_3"}}))
	assert.Zero(t, countLinks("prod_1"))
	assert.Equal(t, int64(1), countLinks("prod_3"))

	// clearing the product dismisses every link
	require.NoError(t, repo.Update(bundle.ID, BundleChanges{Fields: map[string]interface{}{"product_id": ""}}))
	var total int64
	testDB.Model(&model.ProductBundleLink{}).Where("bundle_id = ?", bundle.ID).Count(&total)
	assert.Zero(t, total)
}

func TestBundleRepository_Update_NotFound(t *testing.T) {
	testDB, repo := setupBundleTest(t)
	defer db.CleanupTestDB(testDB)

	err := repo.Update("bndl_missing", BundleChanges{Fields: map[string]interface{}{"title": "x"}})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBundleRepository_Delete(t *testing.T) {
	testDB, repo := setupBundleTest(t)
	defer db.CleanupTestDB(testDB)

	bundle := sampleBundle()
	require.NoError(t, repo.Create(bundle))
	require.NoError(t, repo.Delete(bundle.ID))

	_, err := repo.FindByID(bundle.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, m := range []interface{}{&model.BundleItem{}, &model.ChoiceSlot{}, &model.ChoiceOption{}, &model.BundleText{}, &model.ProductBundleLink{}} {
		var count int64
		testDB.Model(m).Count(&count)
		assert.Zero(t, count)
	}

	assert.ErrorIs(t, repo.Delete(bundle.ID), gorm.ErrRecordNotFound)
}
