package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wehaveweneed/exchange/internal/cache"
	"github.com/wehaveweneed/exchange/internal/db"
	"github.com/wehaveweneed/exchange/internal/models"
	"github.com/wehaveweneed/exchange/pkg/logging"
)

// Router maps the REST URL shapes onto the resource handlers
type Router struct {
	categories *CategoryAPI
	posts      *PostAPI
	replies    *ReplyAPI
	logger     *zap.Logger
}

// NewRouter creates a new API router backed by the database
func NewRouter(database *db.DB, redisCache *cache.Cache, site Site) *Router {
	repo := db.NewRepository(database.DB)
	postStore := db.NewPostRepository(repo)
	categoryStore := db.NewCategoryRepository(repo)
	replyStore := db.NewReplyRepository(repo)

	return newRouter(postStore, categoryStore, replyStore, redisCache, site)
}

// newRouter wires the resource handlers over any store implementations
func newRouter(posts PostStore, categories CategoryStore, replies ReplyStore, redisCache *cache.Cache, site Site) *Router {
	return &Router{
		categories: NewCategoryAPI(categories, redisCache),
		posts:      NewPostAPI(posts, categories, redisCache, site),
		replies:    NewReplyAPI(posts, replies),
		logger:     logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")

	// Individual post
	api.GET("/post/:ref", r.postByRef)
	api.POST("/post/", r.createPost)

	// Reply and fulfillment sub-resources
	api.GET("/post/:ref/:sub", r.postSub)
	api.POST("/post/:ref/replies", r.createReply)
	api.POST("/post/:ref/fulfill", r.fulfillPost)

	// Collections: categories.<fmt>, haves.<fmt>, needs.<fmt>,
	// <slug>.<fmt>, <slug>/haves.<fmt>, <slug>/needs.<fmt>
	api.GET("/:head", r.collection)
	api.GET("/:head/:tail", r.scopedCollection)
}

const (
	resourceCategories = "categories"
	resourcePosts      = "posts"
)

// resolveCollection maps a top-level collection name onto the listing it
// addresses. Fixed names win; anything else is a category slug scope.
func resolveCollection(name string) (resource, postType, categorySlug string) {
	switch name {
	case "categories":
		return resourceCategories, "", ""
	case "haves":
		return resourcePosts, models.TypeHave, ""
	case "needs":
		return resourcePosts, models.TypeNeed, ""
	default:
		return resourcePosts, "", name
	}
}

// resolveScopedCollection maps a name nested under a category slug onto
// a typed listing. Only haves and needs nest.
func resolveScopedCollection(name string) (postType string, ok bool) {
	switch name {
	case "haves":
		return models.TypeHave, true
	case "needs":
		return models.TypeNeed, true
	default:
		return "", false
	}
}

// collection dispatches /api/<head>.<fmt>
func (r *Router) collection(c *gin.Context) {
	name, format := splitFormat(c.Param("head"))
	resource, postType, categorySlug := resolveCollection(name)
	if resource == resourceCategories {
		r.categories.List(c, format)
		return
	}
	r.posts.List(c, format, postType, categorySlug)
}

// scopedCollection dispatches /api/<slug>/haves.<fmt> and
// /api/<slug>/needs.<fmt>
func (r *Router) scopedCollection(c *gin.Context) {
	categorySlug := c.Param("head")
	name, format := splitFormat(c.Param("tail"))
	postType, ok := resolveScopedCollection(name)
	if !ok {
		writeError(c, format, NotFound("no such collection %q", name))
		return
	}
	r.posts.List(c, format, postType, categorySlug)
}

// postByRef dispatches GET /api/post/<id>.<fmt>
func (r *Router) postByRef(c *gin.Context) {
	idStr, format := splitFormat(c.Param("ref"))
	r.posts.Get(c, format, idStr)
}

// postSub dispatches GET /api/post/<id>/replies.<fmt>
func (r *Router) postSub(c *gin.Context) {
	idStr, _ := splitFormat(c.Param("ref"))
	name, format := splitFormat(c.Param("sub"))
	if name != "replies" {
		writeError(c, format, NotFound("no such resource %q", name))
		return
	}
	r.replies.List(c, format, idStr)
}

// createPost dispatches POST /api/post/
func (r *Router) createPost(c *gin.Context) {
	r.posts.Create(c)
}

// createReply dispatches POST /api/post/<id>/replies
func (r *Router) createReply(c *gin.Context) {
	idStr, _ := splitFormat(c.Param("ref"))
	r.replies.Create(c, idStr)
}

// fulfillPost dispatches POST /api/post/<id>/fulfill
func (r *Router) fulfillPost(c *gin.Context) {
	idStr, _ := splitFormat(c.Param("ref"))
	r.posts.Fulfill(c, idStr)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "wehaveweneed-api",
	})
}
