package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bundlecart-backend/internal/app/service"
	apperrors "github.com/ikkim/bundlecart-backend/internal/errors"
	"github.com/ikkim/bundlecart-backend/internal/middleware"
	"github.com/ikkim/bundlecart-backend/internal/storage"
)

const maxBundleImageSize = 10 << 20

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// ImagePresigner issues upload URLs for bundle images.
type ImagePresigner interface {
	PresignBundleImage(ctx context.Context, bundleID, filename, contentType string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	presigner     ImagePresigner
	bundleService service.BundleService
}

func NewUploadController(presigner ImagePresigner, bundleService service.BundleService) *UploadController {
	return &UploadController{
		presigner:     presigner,
		bundleService: bundleService,
	}
}

type BundleImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required"`
}

// GenerateBundleImageURL presigns an S3 upload and records the resulting file URL on the bundle.
// The URL is stored before the client uploads anything, so bundle_image points at a missing
// object until the PUT succeeds. A client that abandons the upload should restore the previous
// image with PATCH /api/v1/admin/bundles/:id {"bundle_image": ...}.
// POST /api/v1/admin/bundles/:id/image-upload-url
func (ctrl *UploadController) GenerateBundleImageURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	bundleID := c.Param("id")

	var req BundleImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid image upload request", map[string]interface{}{
			"bundle_id": bundleID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}
	if err := storage.ValidateFileSize(req.FileSize, maxBundleImageSize); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, err.Error())
		return
	}

	if _, err := ctrl.bundleService.GetBundleWithDetails(bundleID); err != nil {
		if errors.Is(err, service.ErrBundleNotFound) {
			apperrors.NotFound(c, apperrors.BundleNotFound, "Bundle not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get bundle")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	presigned, err := ctrl.presigner.PresignBundleImage(ctx, bundleID, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"bundle_id": bundleID,
			"filename":  req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	if _, err := ctrl.bundleService.SetBundleImage(bundleID, presigned.FileURL); err != nil {
		log.Error("Failed to record bundle image", err, map[string]interface{}{
			"bundle_id": bundleID,
			"file_url":  presigned.FileURL,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update bundle")
		return
	}

	log.Info("Bundle image upload URL generated", map[string]interface{}{
		"bundle_id": bundleID,
		"key":       presigned.Key,
	})
	c.JSON(http.StatusOK, presigned)
}
