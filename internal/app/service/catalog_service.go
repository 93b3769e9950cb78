package service

import (
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
)

// VariantSummary is the display data admin tooling shows for a variant id.
type VariantSummary struct {
	VariantTitle string `json:"variant_title"`
	ProductTitle string `json:"product_title"`
	SKU          string `json:"sku"`
}

type CatalogService interface {
	// DescribeVariants returns summaries keyed by variant id; unknown ids are omitted.
	DescribeVariants(ids []string) (map[string]VariantSummary, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) DescribeVariants(ids []string) (map[string]VariantSummary, error) {
	result := make(map[string]VariantSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	variants, err := s.catalogRepo.FindVariantsByIDs(ids)
	if err != nil {
		logger.Error("Failed to describe variants", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}

	for _, v := range variants {
		result[v.ID] = VariantSummary{
			VariantTitle: v.Title,
			ProductTitle: v.Product.Title,
			SKU:          v.SKU,
		}
	}
	return result, nil
}
