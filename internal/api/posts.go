package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wehaveweneed/exchange/internal/cache"
	"github.com/wehaveweneed/exchange/internal/models"
	"github.com/wehaveweneed/exchange/pkg/telemetry"
)

// openPostsTTL keeps listing responses hot without letting the open
// window drift noticeably.
const openPostsTTL = 30 * time.Second

// PostStore is the post persistence surface the resource layer needs.
// *db.PostRepository satisfies it.
type PostStore interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Open(ctx context.Context, now time.Time, postType, categorySlug string) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	IncrementResponses(ctx context.Context, id int64) error
	MarkFulfilled(ctx context.Context, id int64) (bool, error)
}

// PostAPI serves the post resource: read by id, open-post listings,
// form-encoded creation, and fulfillment
type PostAPI struct {
	posts      PostStore
	categories CategoryStore
	cache      *cache.Cache
	site       Site
}

// NewPostAPI creates a new post API
func NewPostAPI(posts PostStore, categories CategoryStore, redisCache *cache.Cache, site Site) *PostAPI {
	return &PostAPI{posts: posts, categories: categories, cache: redisCache, site: site}
}

// Get handles GET /api/post/<id>.<fmt>. Direct lookups return the post
// whether or not it is open.
func (a *PostAPI) Get(c *gin.Context, format, idStr string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.get")
	defer span.End()

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(c, format, NotFound("no post with id %q", idStr))
		return
	}

	post, err := a.posts.GetByID(ctx, id)
	if err != nil {
		writeError(c, format, err)
		return
	}
	if post == nil {
		writeError(c, format, NotFound("no post with id %d", id))
		return
	}

	emit(c, format, http.StatusOK, buildPostPayload(post, a.site))
}

// List handles the open-post listing routes. postType and categorySlug
// narrow the open set when non-empty; both combine with the open filter
// by AND.
func (a *PostAPI) List(c *gin.Context, format, postType, categorySlug string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.list")
	defer span.End()

	cacheKey := cache.HashKey("open_posts", postType, categorySlug)
	if a.cache != nil {
		var cached []PostPayload
		if err := a.cache.GetJSON(cacheKey, &cached); err == nil {
			emitPostList(c, format, cached)
			return
		}
	}

	posts, err := a.posts.Open(ctx, time.Now().UTC(), postType, categorySlug)
	if err != nil {
		writeError(c, format, err)
		return
	}

	payload := make([]PostPayload, 0, len(posts))
	for i := range posts {
		payload = append(payload, buildPostPayload(&posts[i], a.site))
	}

	if a.cache != nil {
		_ = a.cache.SetJSON(cacheKey, payload, openPostsTTL)
	}

	emitPostList(c, format, payload)
}

// postForm carries the form-encoded create fields
type postForm struct {
	Title    string `form:"title"`
	Type     string `form:"type"`
	Priority string `form:"priority"`
	Location string `form:"location"`
	Category string `form:"category"`
	Content  string `form:"content"`
	Geostamp string `form:"geostamp"`
	Object   string `form:"object"`
	Number   string `form:"number"`
	Unit     string `form:"unit"`
}

// validatePostForm returns the names of missing or malformed fields, in
// form-field order, empty when the form is acceptable
func validatePostForm(form postForm) []string {
	var fields []string

	if strings.TrimSpace(form.Title) == "" {
		fields = append(fields, "title")
	}
	if !models.ValidType(form.Type) {
		fields = append(fields, "type")
	}
	if !models.ValidPriority(form.Priority) {
		fields = append(fields, "priority")
	}
	if strings.TrimSpace(form.Location) == "" {
		fields = append(fields, "location")
	}
	if _, err := strconv.ParseInt(form.Category, 10, 64); err != nil {
		fields = append(fields, "category")
	}
	if strings.TrimSpace(form.Content) == "" {
		fields = append(fields, "content")
	}
	if form.Number != "" {
		if n, err := strconv.Atoi(form.Number); err != nil || n < 0 {
			fields = append(fields, "number")
		}
	}
	if !models.ValidUnit(form.Unit) {
		fields = append(fields, "unit")
	}

	return fields
}

// Create handles POST /api/post/. Posts created here carry no contact
// and use default time values; either the row is persisted or nothing
// is.
func (a *PostAPI) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.create")
	defer span.End()

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, "", Invalid())
		return
	}

	if fields := validatePostForm(form); len(fields) > 0 {
		writeError(c, "", Invalid(fields...))
		return
	}

	categoryID, _ := strconv.ParseInt(form.Category, 10, 64)
	category, err := a.categories.GetByID(ctx, categoryID)
	if err != nil {
		writeError(c, "", err)
		return
	}
	if category == nil {
		writeError(c, "", NotFound("no category with id %d", categoryID))
		return
	}

	number := 0
	if form.Number != "" {
		number, _ = strconv.Atoi(form.Number)
	}

	post := &models.Post{
		Title:      strings.TrimSpace(form.Title),
		Type:       form.Type,
		Priority:   form.Priority,
		Location:   strings.TrimSpace(form.Location),
		Geostamp:   strings.TrimSpace(form.Geostamp),
		CategoryID: category.ID,
		Content:    form.Content,
		Object:     strings.TrimSpace(form.Object),
		Number:     number,
		Unit:       form.Unit,
	}

	if err := a.posts.Create(ctx, post); err != nil {
		writeError(c, "", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": post.ID})
}

// Fulfill handles POST /api/post/<id>/fulfill, closing the post
func (a *PostAPI) Fulfill(c *gin.Context, idStr string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.fulfill")
	defer span.End()

	id, err := parsePostID(idStr)
	if err != nil {
		writeError(c, "", NotFound("no post with id %q", idStr))
		return
	}

	updated, err := a.posts.MarkFulfilled(ctx, id)
	if err != nil {
		writeError(c, "", err)
		return
	}
	if !updated {
		writeError(c, "", NotFound("no post with id %d", id))
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "fulfilled": true})
}

// parsePostID resolves a path segment like "17" into a post id
func parsePostID(idStr string) (int64, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", idStr)
	}
	return id, nil
}
