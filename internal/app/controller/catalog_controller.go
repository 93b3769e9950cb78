package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bundlecart-backend/internal/app/service"
	apperrors "github.com/ikkim/bundlecart-backend/internal/errors"
	"github.com/ikkim/bundlecart-backend/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// DescribeVariants returns variant and product titles keyed by variant id
// GET /api/v1/admin/variants?ids=a,b
func (ctrl *CatalogController) DescribeVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "ids query parameter is required")
		return
	}

	variants, err := ctrl.catalogService.DescribeVariants(ids)
	if err != nil {
		log.Error("Failed to describe variants", err, map[string]interface{}{
			"ids": ids,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "describe variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
	})
}
