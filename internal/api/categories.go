package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wehaveweneed/exchange/internal/cache"
	"github.com/wehaveweneed/exchange/internal/models"
	"github.com/wehaveweneed/exchange/pkg/telemetry"
)

// categoriesTTL bounds staleness of the cached taxonomy; categories
// change rarely.
const categoriesTTL = 5 * time.Minute

// CategoryStore is the category persistence surface the resource layer
// needs. *db.CategoryRepository satisfies it.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
}

// CategoryAPI serves the read-only category resource
type CategoryAPI struct {
	categories CategoryStore
	cache      *cache.Cache
}

// NewCategoryAPI creates a new category API
func NewCategoryAPI(categories CategoryStore, redisCache *cache.Cache) *CategoryAPI {
	return &CategoryAPI{categories: categories, cache: redisCache}
}

// List handles GET /api/categories.<fmt>, returning all categories
// ordered by name
func (a *CategoryAPI) List(c *gin.Context, format string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "categories.list")
	defer span.End()

	if a.cache != nil {
		var cached []CategoryPayload
		if err := a.cache.GetJSON("categories", &cached); err == nil {
			emitCategoryList(c, format, cached)
			return
		}
	}

	categories, err := a.categories.List(ctx)
	if err != nil {
		writeError(c, format, err)
		return
	}

	payload := make([]CategoryPayload, 0, len(categories))
	for i := range categories {
		payload = append(payload, buildCategoryPayload(&categories[i]))
	}

	if a.cache != nil {
		_ = a.cache.SetJSON("categories", payload, categoriesTTL)
	}

	emitCategoryList(c, format, payload)
}
