package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/internal/app/service"
	"github.com/ikkim/bundlecart-backend/internal/db"
	"github.com/ikkim/bundlecart-backend/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	err error
}

func (p *fakePresigner) PresignBundleImage(ctx context.Context, bundleID, filename, contentType string) (*storage.PresignedURLResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	key := "bundles/" + bundleID + "/img.png"
	return &storage.PresignedURLResponse{
		UploadURL: "https://uploads.example.com/" + key + "?sig=1",
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func setupUploadControllerTest(t *testing.T, presigner ImagePresigner) (*gin.Engine, service.BundleService, string) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	bundleService := service.NewBundleService(repository.NewBundleRepository(testDB))
	price := decimal.NewFromInt(500)
	bundle, err := bundleService.CreateBundle(&service.CreateBundleInput{
		Title: "Tea Set",
		Price: &price,
	})
	require.NoError(t, err)

	ctrl := NewUploadController(presigner, bundleService)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/bundles/:id/image-upload-url", ctrl.GenerateBundleImageURL)

	return router, bundleService, bundle.ID
}

func TestUploadController_GenerateBundleImageURL(t *testing.T) {
	router, bundleService, bundleID := setupUploadControllerTest(t, &fakePresigner{})

	w := doJSON(router, http.MethodPost, "/admin/bundles/"+bundleID+"/image-upload-url",
		`{"filename": "box.png", "content_type": "image/png", "file_size": 2048}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp storage.PresignedURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.UploadURL, "sig=1")

	bundle, err := bundleService.GetBundleWithDetails(bundleID)
	require.NoError(t, err)
	require.NotNil(t, bundle.Image)
	assert.Equal(t, resp.FileURL, *bundle.Image)
}

func TestUploadController_GenerateBundleImageURL_Rejections(t *testing.T) {
	router, _, bundleID := setupUploadControllerTest(t, &fakePresigner{})

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"not an image", "/admin/bundles/" + bundleID + "/image-upload-url",
			`{"filename": "a.pdf", "content_type": "application/pdf", "file_size": 10}`, http.StatusBadRequest},
		{"too large", "/admin/bundles/" + bundleID + "/image-upload-url",
			`{"filename": "a.png", "content_type": "image/png", "file_size": 104857600}`, http.StatusBadRequest},
		{"missing filename", "/admin/bundles/" + bundleID + "/image-upload-url",
			`{"content_type": "image/png", "file_size": 10}`, http.StatusBadRequest},
		{"unknown bundle", "/admin/bundles/bndl_missing/image-upload-url",
			`{"filename": "a.png", "content_type": "image/png", "file_size": 10}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestUploadController_GenerateBundleImageURL_PresignFailure(t *testing.T) {
	router, bundleService, bundleID := setupUploadControllerTest(t, &fakePresigner{err: errors.New("s3 unavailable")})

	w := doJSON(router, http.MethodPost, "/admin/bundles/"+bundleID+"/image-upload-url",
		`{"filename": "box.png", "content_type": "image/png", "file_size": 2048}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	bundle, err := bundleService.GetBundleWithDetails(bundleID)
	require.NoError(t, err)
	assert.Nil(t, bundle.Image)
}

func TestUploadController_AbandonedUploadCanBeReverted(t *testing.T) {
	router, bundleService, bundleID := setupUploadControllerTest(t, &fakePresigner{})

	previous := "https://cdn.example.com/bundles/old.png"
	_, err := bundleService.SetBundleImage(bundleID, previous)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/admin/bundles/"+bundleID+"/image-upload-url",
		`{"filename": "box.png", "content_type": "image/png", "file_size": 2048}`)
	require.Equal(t, http.StatusOK, w.Code)

	bundle, err := bundleService.GetBundleWithDetails(bundleID)
	require.NoError(t, err)
	assert.NotEqual(t, previous, *bundle.Image)

	// the client never uploaded, so it puts the old image back
	_, err = bundleService.UpdateBundle(bundleID, &service.UpdateBundleInput{Image: &previous})
	require.NoError(t, err)

	bundle, err = bundleService.GetBundleWithDetails(bundleID)
	require.NoError(t, err)
	assert.Equal(t, previous, *bundle.Image)
}
