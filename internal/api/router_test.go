package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wehaveweneed/exchange/internal/models"
)

type fakePostStore struct {
	posts    []models.Post
	created  []*models.Post
	openType string
	openSlug string
}

func (s *fakePostStore) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return &s.posts[i], nil
		}
	}
	return nil, nil
}

func (s *fakePostStore) Open(ctx context.Context, now time.Time, postType, categorySlug string) ([]models.Post, error) {
	s.openType = postType
	s.openSlug = categorySlug

	var open []models.Post
	for i := range s.posts {
		p := &s.posts[i]
		if !p.IsOpenAt(now) {
			continue
		}
		if postType != "" && p.Type != postType {
			continue
		}
		if categorySlug != "" && (p.Category == nil || p.Category.Slug != categorySlug) {
			continue
		}
		open = append(open, *p)
	}
	return open, nil
}

func (s *fakePostStore) Create(ctx context.Context, post *models.Post) error {
	post.ID = int64(len(s.posts)+len(s.created)) + 1
	s.created = append(s.created, post)
	return nil
}

func (s *fakePostStore) IncrementResponses(ctx context.Context, id int64) error {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Responses++
		}
	}
	return nil
}

func (s *fakePostStore) MarkFulfilled(ctx context.Context, id int64) (bool, error) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Fulfilled = true
			return true, nil
		}
	}
	return false, nil
}

type fakeCategoryStore struct {
	categories []models.Category
}

func (s *fakeCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *fakeCategoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i], nil
		}
	}
	return nil, nil
}

type fakeReplyStore struct {
	replies []models.Reply
}

func (s *fakeReplyStore) ListByPost(ctx context.Context, postID int64) ([]models.Reply, error) {
	var out []models.Reply
	for _, reply := range s.replies {
		if reply.PostID == postID {
			out = append(out, reply)
		}
	}
	return out, nil
}

func (s *fakeReplyStore) Create(ctx context.Context, reply *models.Reply) error {
	reply.ID = int64(len(s.replies)) + 1
	s.replies = append(s.replies, *reply)
	return nil
}

func newTestEngine(posts *fakePostStore, categories *fakeCategoryStore, replies *fakeReplyStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	site := Site{Scheme: "http", Domain: "wehaveweneed.org"}
	router := newRouter(posts, categories, replies, nil, site)
	engine := gin.New()
	router.SetupRoutes(engine)
	return engine
}

// seedPosts covers the listing branches: an open need, an open have in
// the tools category, a fulfilled need, an open have in shelter, and a
// need whose window has not started.
func seedPosts() *fakePostStore {
	started := time.Now().UTC().Add(-time.Hour)
	tools := &models.Category{ID: 1, Name: "Tools", Slug: "tools"}
	shelter := &models.Category{ID: 2, Name: "Shelter", Slug: "shelter"}

	return &fakePostStore{posts: []models.Post{
		{ID: 1, Type: models.TypeNeed, Title: "Clean water", Location: "Gressier",
			Priority: models.PriorityShort, TimeStart: started, CategoryID: 2,
			Category: shelter, Content: "need water"},
		{ID: 2, Type: models.TypeHave, Title: "Generator", Location: "Port-au-Prince",
			Priority: models.PriorityMid, TimeStart: started, CategoryID: 1,
			Category: tools, Content: "spare generator"},
		{ID: 3, Type: models.TypeNeed, Title: "Tents", Location: "Leogane",
			Priority: models.PriorityMid, TimeStart: started, CategoryID: 2,
			Category: shelter, Content: "tents", Fulfilled: true},
		{ID: 4, Type: models.TypeHave, Title: "Tarps", Location: "Jacmel",
			Priority: models.PriorityLong, TimeStart: started, CategoryID: 2,
			Category: shelter, Content: "tarps"},
		{ID: 5, Type: models.TypeNeed, Title: "Drivers", Location: "Carrefour",
			Priority: models.PriorityMid, TimeStart: time.Now().UTC().Add(time.Hour),
			CategoryID: 1, Category: tools, Content: "drivers next week"},
	}}
}

func TestResolveCollection(t *testing.T) {
	tests := []struct {
		name         string
		head         string
		wantResource string
		wantType     string
		wantSlug     string
	}{
		{"categories", "categories", resourceCategories, "", ""},
		{"haves", "haves", resourcePosts, models.TypeHave, ""},
		{"needs", "needs", resourcePosts, models.TypeNeed, ""},
		{"category slug", "tools", resourcePosts, "", "tools"},
		{"hyphenated slug", "food-and-water", resourcePosts, "", "food-and-water"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource, postType, slug := resolveCollection(tt.head)
			if resource != tt.wantResource || postType != tt.wantType || slug != tt.wantSlug {
				t.Errorf("resolveCollection(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.head, resource, postType, slug,
					tt.wantResource, tt.wantType, tt.wantSlug)
			}
		})
	}
}

func TestResolveScopedCollection(t *testing.T) {
	tests := []struct {
		name     string
		tail     string
		wantType string
		wantOK   bool
	}{
		{"haves", "haves", models.TypeHave, true},
		{"needs", "needs", models.TypeNeed, true},
		{"unknown nests nothing", "replies", "", false},
		{"categories does not nest", "categories", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postType, ok := resolveScopedCollection(tt.tail)
			if postType != tt.wantType || ok != tt.wantOK {
				t.Errorf("resolveScopedCollection(%q) = (%q, %v), want (%q, %v)",
					tt.tail, postType, ok, tt.wantType, tt.wantOK)
			}
		})
	}
}

func TestListingRoutes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantType string
		wantSlug string
		wantIDs  []int64
	}{
		{
			name:     "needs lists open needs only",
			path:     "/api/needs.json",
			wantType: models.TypeNeed,
			wantIDs:  []int64{1},
		},
		{
			name:     "haves lists open haves only",
			path:     "/api/haves.json",
			wantType: models.TypeHave,
			wantIDs:  []int64{2, 4},
		},
		{
			name:     "type nested under a category slug",
			path:     "/api/tools/haves.json",
			wantType: models.TypeHave,
			wantSlug: "tools",
			wantIDs:  []int64{2},
		},
		{
			name:     "slug scope excludes posts outside the window",
			path:     "/api/tools/needs.json",
			wantType: models.TypeNeed,
			wantSlug: "tools",
		},
		{
			name:     "bare slug lists both types in the category",
			path:     "/api/shelter.json",
			wantSlug: "shelter",
			wantIDs:  []int64{1, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := seedPosts()
			engine := newTestEngine(posts, &fakeCategoryStore{}, &fakeReplyStore{})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			engine.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if posts.openType != tt.wantType || posts.openSlug != tt.wantSlug {
				t.Errorf("store queried with (%q, %q), want (%q, %q)",
					posts.openType, posts.openSlug, tt.wantType, tt.wantSlug)
			}

			var payload []PostPayload
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("response should be a JSON list: %v", err)
			}
			var gotIDs []int64
			for _, p := range payload {
				gotIDs = append(gotIDs, p.ID)
			}
			if !reflect.DeepEqual(gotIDs, tt.wantIDs) {
				t.Errorf("listed ids = %v, want %v", gotIDs, tt.wantIDs)
			}
		})
	}
}

func TestScopedCollectionUnknownName(t *testing.T) {
	engine := newTestEngine(seedPosts(), &fakeCategoryStore{}, &fakeReplyStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tools/widgets.json", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetPostIgnoresOpenWindow(t *testing.T) {
	engine := newTestEngine(seedPosts(), &fakeCategoryStore{}, &fakeReplyStore{})

	// Post 3 is fulfilled and never appears in listings; direct lookup
	// still returns it.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/post/3.json", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var payload PostPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response should be JSON: %v", err)
	}
	if payload.ID != 3 {
		t.Errorf("id = %d, want 3", payload.ID)
	}
}

func postCreateForm() url.Values {
	return url.Values{
		"title":    {"Generator"},
		"type":     {models.TypeHave},
		"priority": {models.PriorityMid},
		"location": {"Port-au-Prince"},
		"category": {"1"},
		"content":  {"diesel generator, 5kW"},
	}
}

func submitForm(engine *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreatePost(t *testing.T) {
	posts := &fakePostStore{}
	categories := &fakeCategoryStore{categories: []models.Category{
		{ID: 1, Name: "Tools", Slug: "tools"},
	}}
	engine := newTestEngine(posts, categories, &fakeReplyStore{})

	rec := submitForm(engine, "/api/post/", postCreateForm())

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if len(posts.created) != 1 {
		t.Fatalf("created %d posts, want 1", len(posts.created))
	}
	if posts.created[0].CategoryID != 1 {
		t.Errorf("category id = %d, want 1", posts.created[0].CategoryID)
	}
}

func TestCreatePostUnknownCategory(t *testing.T) {
	posts := &fakePostStore{}
	categories := &fakeCategoryStore{categories: []models.Category{
		{ID: 1, Name: "Tools", Slug: "tools"},
	}}
	engine := newTestEngine(posts, categories, &fakeReplyStore{})

	form := postCreateForm()
	form.Set("category", "999")
	rec := submitForm(engine, "/api/post/", form)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if len(posts.created) != 0 {
		t.Errorf("created %d posts, want none", len(posts.created))
	}
}

func TestFulfillRoute(t *testing.T) {
	posts := seedPosts()
	engine := newTestEngine(posts, &fakeCategoryStore{}, &fakeReplyStore{})

	rec := submitForm(engine, "/api/post/1/fulfill", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !posts.posts[0].Fulfilled {
		t.Error("post 1 should be marked fulfilled")
	}

	rec = submitForm(engine, "/api/post/99/fulfill", url.Values{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown id = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateReplyBumpsCounter(t *testing.T) {
	posts := seedPosts()
	replies := &fakeReplyStore{}
	engine := newTestEngine(posts, &fakeCategoryStore{}, replies)

	rec := submitForm(engine, "/api/post/1/replies", url.Values{
		"content": {"I can deliver Saturday"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if len(replies.replies) != 1 {
		t.Fatalf("stored %d replies, want 1", len(replies.replies))
	}
	if posts.posts[0].Responses != 1 {
		t.Errorf("responses = %d, want 1", posts.posts[0].Responses)
	}
}
