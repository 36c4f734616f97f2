package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wehaveweneed/exchange/internal/models"
	"github.com/wehaveweneed/exchange/internal/slug"
)

// ErrCategoryCycle is returned when a parent assignment would close a
// loop in the category tree.
var ErrCategoryCycle = errors.New("category parent chain would cycle")

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CategoryRepository provides category-related database operations
type CategoryRepository struct {
	*Repository
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(repo *Repository) *CategoryRepository {
	return &CategoryRepository{Repository: repo}
}

// List retrieves all categories ordered by name ascending
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetBySlug retrieves a category by slug
func (r *CategoryRepository) GetBySlug(ctx context.Context, s string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Create creates a new category, deriving the slug from the name when
// none is set and rejecting a parent assignment that would cycle.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.Slug == "" {
		category.Slug = slug.Generate(category.Name)
	}
	if category.ParentID.Valid {
		cycles, err := r.wouldCycle(ctx, category.ID, category.ParentID.Int64)
		if err != nil {
			return err
		}
		if cycles {
			return ErrCategoryCycle
		}
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// SetParent re-parents a category, enforcing the no-cycle invariant
func (r *CategoryRepository) SetParent(ctx context.Context, id, parentID int64) error {
	cycles, err := r.wouldCycle(ctx, id, parentID)
	if err != nil {
		return err
	}
	if cycles {
		return ErrCategoryCycle
	}
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		UpdateColumn("parent_id", parentID).Error
}

// wouldCycle loads the id-to-parent arena and walks the chain
func (r *CategoryRepository) wouldCycle(ctx context.Context, id, parentID int64) (bool, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Select("id", "parent_id").
		Find(&categories).Error; err != nil {
		return false, err
	}
	parents := make(map[int64]int64, len(categories))
	for _, c := range categories {
		if c.ParentID.Valid {
			parents[c.ID] = c.ParentID.Int64
		}
	}
	return models.WouldCycle(parents, id, parentID), nil
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID with its category and contact loaded.
// Direct lookups apply no open/closed filtering.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Contact").
		Preload("Contact.Profile").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Open retrieves posts that are open at the given instant: not
// fulfilled, already started, and with no end time or one still in the
// future. postType and categorySlug narrow the result when non-empty;
// the slug matches exactly, with no subtree expansion. Results come
// back newest-created-first.
func (r *PostRepository) Open(ctx context.Context, now time.Time, postType, categorySlug string) ([]models.Post, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Contact").
		Preload("Contact.Profile").
		Where("fulfilled = ?", false).
		Where("time_start <= ?", now).
		Where("(time_end IS NULL OR time_end >= ?)", now)

	if postType != "" {
		q = q.Where("posts.type = ?", postType)
	}
	if categorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", categorySlug)
	}

	var posts []models.Post
	if err := q.Order("posts.created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create creates a new post. A zero TimeStart defaults to now.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.TimeStart.IsZero() {
		post.TimeStart = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// IncrementResponses bumps the reply counter on a post. No concurrency
// guard; the counter is advisory.
func (r *PostRepository) IncrementResponses(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("responses", gorm.Expr("responses + 1")).Error
}

// MarkFulfilled closes a post. Returns false when no post has the id.
// Concurrent fulfillment updates race; last write wins.
func (r *PostRepository) MarkFulfilled(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("fulfilled", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReplyRepository provides reply-related database operations
type ReplyRepository struct {
	*Repository
}

// NewReplyRepository creates a new reply repository
func NewReplyRepository(repo *Repository) *ReplyRepository {
	return &ReplyRepository{Repository: repo}
}

// ListByPost retrieves a post's replies newest-first
func (r *ReplyRepository) ListByPost(ctx context.Context, postID int64) ([]models.Reply, error) {
	var replies []models.Reply
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// Create creates a new reply
func (r *ReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

// ProfileRepository provides user profile database operations
type ProfileRepository struct {
	*Repository
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(repo *Repository) *ProfileRepository {
	return &ProfileRepository{Repository: repo}
}

// GetByUserID retrieves the profile linked to a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
