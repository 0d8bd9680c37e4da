package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/digitalarchive/internal/cache"
	"github.com/digitalarchive/internal/content"
	"github.com/digitalarchive/internal/db"
	"github.com/digitalarchive/internal/handler"
	applog "github.com/digitalarchive/internal/logger"
	"github.com/digitalarchive/internal/router"
	"github.com/digitalarchive/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ginOnce sync.Once

// fakeStore serves the content store's query API from an in-memory fixture
// set, dispatching on fragments of the incoming query string.
type fakeStore struct {
	srv *httptest.Server

	mu    sync.Mutex
	posts []content.Post

	fail           atomic.Bool
	failList       atomic.Bool
	failCategories atomic.Bool
}

func (fs *fakeStore) setTitle(slug, title string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.posts {
		if fs.posts[i].Slug.Current == slug {
			fs.posts[i].Title = title
		}
	}
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()

	fs := &fakeStore{posts: fixturePosts()}
	fs.srv = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeStore) handle(w http.ResponseWriter, r *http.Request) {
	if fs.fail.Load() {
		http.Error(w, "store down", http.StatusInternalServerError)
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	query := r.URL.Query().Get("query")
	var result any

	switch {
	case strings.Contains(query, "slug.current == $slug"):
		var slug string
		json.Unmarshal([]byte(r.URL.Query().Get("$slug")), &slug)
		result = nil
		for i := range fs.posts {
			if fs.posts[i].Slug.Current == slug {
				result = fs.posts[i]
				break
			}
		}

	case strings.Contains(query, "featured == true"):
		featured := []content.Post{}
		for _, p := range fs.posts {
			if p.Featured {
				featured = append(featured, p)
			}
		}
		result = featured

	case strings.Contains(query, "$categorySlug"):
		var slug string
		json.Unmarshal([]byte(r.URL.Query().Get("$categorySlug")), &slug)
		matched := []content.Post{}
		for _, p := range fs.posts {
			if p.HasCategory(slug) {
				matched = append(matched, p)
			}
		}
		result = matched

	case strings.Contains(query, "$term"):
		var term string
		json.Unmarshal([]byte(r.URL.Query().Get("$term")), &term)
		matched := []content.Post{}
		for _, p := range fs.posts {
			if strings.Contains(strings.ToLower(p.Title), strings.ToLower(term)) {
				matched = append(matched, p)
			}
		}
		result = matched

	case strings.Contains(query, `_type == "category"`):
		if fs.failCategories.Load() {
			http.Error(w, "store down", http.StatusInternalServerError)
			return
		}
		result = []map[string]any{
			{"title": "Games", "slug": map[string]string{"current": "games"}, "postCount": 3},
			{"title": "Writing", "slug": map[string]string{"current": "writing"}, "postCount": 1},
			{"title": "Unused", "slug": map[string]string{"current": "unused"}, "postCount": 0},
		}

	default:
		if fs.failList.Load() {
			http.Error(w, "store down", http.StatusInternalServerError)
			return
		}
		result = fs.posts
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"result": result})
}

func fixturePosts() []content.Post {
	games := content.Category{Title: "Games", Slug: content.Slug{Current: "games"}}
	writing := content.Category{Title: "Writing", Slug: content.Slug{Current: "writing"}}
	published := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	return []content.Post{
		{
			ID:          "p1",
			Title:       "Designing Powers",
			Slug:        content.Slug{Current: "designing-powers"},
			PublishedAt: published,
			Excerpt:     "How the Powers skill guesses heroes.",
			Categories:  []content.Category{games},
			Featured:    true,
			Author:      &content.Author{Name: "David Kolb", Bio: "Developer and author."},
			Body: []content.Block{
				{Type: "block", Style: "h2", Children: []content.Span{{Type: "span", Text: "Guessing Heroes"}}},
				{Type: "block", Style: "normal", Children: []content.Span{{Type: "span", Text: "The skill narrows candidates one power at a time."}}},
				{Type: "code", Language: "go", Code: `fmt.Println("guess")`},
			},
		},
		{
			ID:          "p2",
			Title:       "Marvel Trivia Postmortem",
			Slug:        content.Slug{Current: "marvel-trivia-postmortem"},
			PublishedAt: published.AddDate(0, -1, 0),
			Excerpt:     "Lessons from shipping a trivia skill.",
			Categories:  []content.Category{games},
			Featured:    true,
		},
		{
			ID:          "p3",
			Title:       "Worldbuilding Notes",
			Slug:        content.Slug{Current: "worldbuilding-notes"},
			PublishedAt: published.AddDate(0, -2, 0),
			Excerpt:     "Notes from drafting the second novel.",
			Categories:  []content.Category{writing},
		},
		{
			ID:          "p4",
			Title:       "Reef Devlog",
			Slug:        content.Slug{Current: "reef-devlog"},
			PublishedAt: published.AddDate(0, -3, 0),
			Excerpt:     "Underwater lighting experiments.",
			Categories:  []content.Category{games},
		},
	}
}

func newTestApp(t *testing.T, store *fakeStore, analytics *service.AnalyticsService) *gin.Engine {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	client := content.NewClient(store.srv.URL, "testproj", "production")
	images := content.NewResolver("https://cdn.example.com", "testproj", "production")
	api := handler.NewAPI(client, images, cache.New("", ""), analytics)
	return router.Setup(api)
}

func setupAnalytics(t *testing.T) *service.AnalyticsService {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.PostStatistic{}, &db.PostVisit{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return service.NewAnalyticsService(gdb)
}

// captureLogs swaps the global logger for an observed one so tests can
// assert on what the handlers report.
func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.ErrorLevel)
	applog.L = zap.New(core)
	applog.S = applog.L.Sugar()
	t.Cleanup(func() {
		applog.L = nil
		applog.S = nil
	})
	return logs
}

func loggedFetchFailure(logs *observer.ObservedLogs, page string) bool {
	for _, entry := range logs.FilterMessage("content fetch failed").All() {
		for _, field := range entry.Context {
			if field.Key == "page" && field.String == page {
				return true
			}
		}
	}
	return false
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestBlogIndexRendersPostsAndFacets(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := get(r, "/blog")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Designing Powers") {
		t.Fatalf("expected post title in page")
	}
	if !strings.Contains(body, "Featured Articles") {
		t.Fatalf("expected featured strip for flagged posts")
	}
	if !strings.Contains(body, "Games (3)") || !strings.Contains(body, "Writing (1)") {
		t.Fatalf("expected facet counts in page")
	}
	if !strings.Contains(body, "All (4)") {
		t.Fatalf("expected total count on the All pill")
	}
}

func TestBlogIndexFiltersByCategoryQuery(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	body := get(r, "/blog?category=writing").Body.String()
	if !strings.Contains(body, "Worldbuilding Notes") {
		t.Fatalf("expected writing post in filtered page")
	}
	if strings.Contains(body, "Reef Devlog") {
		t.Fatalf("posts outside the category should be filtered out")
	}
}

func TestBlogIndexSearchWithoutMatches(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	body := get(r, "/blog?search=zzzz").Body.String()
	if !strings.Contains(body, "No Articles Found") {
		t.Fatalf("expected empty state for a fruitless search")
	}
}

func TestBlogIndexStoreFailure(t *testing.T) {
	store := newFakeStore(t)
	store.fail.Store(true)
	r := newTestApp(t, store, nil)

	w := get(r, "/blog")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when the store is down, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "could not be loaded") {
		t.Fatalf("expected the failure view")
	}
}

func TestBlogPostRendersBodyAndRecordsViews(t *testing.T) {
	analytics := setupAnalytics(t)
	r := newTestApp(t, newFakeStore(t), analytics)

	first := get(r, "/blog/designing-powers")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	body := first.Body.String()
	if !strings.Contains(body, "Guessing Heroes") {
		t.Fatalf("expected rendered heading in article body")
	}
	if !strings.Contains(body, "by David Kolb") {
		t.Fatalf("expected author byline")
	}
	if !strings.Contains(body, "1 views") {
		t.Fatalf("expected view counter after first visit")
	}

	// replay the visitor cookie so the second request counts as a repeat
	res := first.Result()
	cookies := res.Cookies()
	res.Body.Close()
	if len(cookies) == 0 {
		t.Fatalf("expected a visitor cookie on the first visit")
	}

	second := get(r, "/blog/designing-powers", cookies...)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat visit, got %d", second.Code)
	}

	stats, err := analytics.PostStats("designing-powers")
	if err != nil {
		t.Fatalf("PostStats failed: %v", err)
	}
	if stats.PageViews != 2 || stats.UniqueVisitors != 1 {
		t.Fatalf("expected 2 views from 1 reader, got %d/%d", stats.PageViews, stats.UniqueVisitors)
	}
}

func TestBlogPostShowsRelatedArticles(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	body := get(r, "/blog/designing-powers").Body.String()
	if !strings.Contains(body, "Related Articles") {
		t.Fatalf("expected a related section for a categorized post")
	}
	if !strings.Contains(body, "Marvel Trivia Postmortem") {
		t.Fatalf("expected a same-category post in the related section")
	}
}

func TestBlogPostRepeatViewObservesStoreEdits(t *testing.T) {
	store := newFakeStore(t)
	r := newTestApp(t, store, nil)

	first := get(r, "/blog/designing-powers")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	if !strings.Contains(first.Body.String(), "Designing Powers") {
		t.Fatalf("expected original title on first view")
	}

	store.setTitle("designing-powers", "Designing Powers, Second Edition")

	second := get(r, "/blog/designing-powers")
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat view, got %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), "Designing Powers, Second Edition") {
		t.Fatalf("repeat view served a stale article; published edits must be re-fetched")
	}
}

func TestBlogPostLogsRelatedFetchFailure(t *testing.T) {
	store := newFakeStore(t)
	store.failList.Store(true)
	logs := captureLogs(t)
	r := newTestApp(t, store, nil)

	w := get(r, "/blog/designing-powers")
	if w.Code != http.StatusOK {
		t.Fatalf("related failure must not block the article, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Guessing Heroes") {
		t.Fatalf("expected article body to render")
	}
	if strings.Contains(body, "Related Articles") {
		t.Fatalf("related section should be omitted when the list fetch fails")
	}
	if !loggedFetchFailure(logs, "blog_post_related") {
		t.Fatalf("related fetch failure should be logged")
	}
}

func TestBlogPostUnknownSlug(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := get(r, "/blog/never-written")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown slug, got %d", w.Code)
	}
}

func TestBlogPostStoreFailure(t *testing.T) {
	store := newFakeStore(t)
	store.fail.Store(true)
	r := newTestApp(t, store, nil)

	w := get(r, "/blog/designing-powers")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when the store is down, got %d", w.Code)
	}
}

func TestCategoryPageScopesToStoreQuery(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := get(r, "/blog/category/games")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Designing Powers") || !strings.Contains(body, "Reef Devlog") {
		t.Fatalf("expected games posts in category page")
	}
	if strings.Contains(body, "Worldbuilding Notes") {
		t.Fatalf("posts outside the category leaked into the page")
	}
	// zero-count categories stay off the facet rail
	if strings.Contains(body, "Unused") {
		t.Fatalf("empty category should not appear as a facet")
	}
}

func TestCategoryPageLogsFacetFetchFailure(t *testing.T) {
	store := newFakeStore(t)
	store.failCategories.Store(true)
	logs := captureLogs(t)
	r := newTestApp(t, store, nil)

	w := get(r, "/blog/category/games")
	if w.Code != http.StatusOK {
		t.Fatalf("facet failure must not block the category page, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Designing Powers") {
		t.Fatalf("expected category posts despite the missing facet rail")
	}
	if !loggedFetchFailure(logs, "blog_category_facets") {
		t.Fatalf("facet fetch failure should be logged")
	}
}

func TestHomeRendersShowcaseAndSurvivesStoreFailure(t *testing.T) {
	store := newFakeStore(t)
	r := newTestApp(t, store, nil)

	body := get(r, "/").Body.String()
	if !strings.Contains(body, "Jericho") {
		t.Fatalf("expected project showcase on home page")
	}
	if !strings.Contains(body, "Designing Powers") {
		t.Fatalf("expected featured articles on home page")
	}

	store.fail.Store(true)
	w := get(r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("home page must render without the store, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "Designing Powers") {
		t.Fatalf("featured strip should be hidden when the store is down")
	}
}

func TestAPIPostsFiltersAndReportsTotal(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := get(r, "/api/posts?category=games")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload struct {
		Total int `json:"total"`
		Posts []struct {
			Title string
			Slug  string
		} `json:"posts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Total != 3 || len(payload.Posts) != 3 {
		t.Fatalf("expected 3 games posts, got total=%d len=%d", payload.Total, len(payload.Posts))
	}
}

func TestAPIPostBySlug(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := get(r, "/api/posts/designing-powers")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Guessing Heroes") {
		t.Fatalf("expected rendered content in the payload")
	}

	if w := get(r, "/api/posts/never-written"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown slug, got %d", w.Code)
	}
}

func TestAPICategoriesDerivedFromPosts(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := get(r, "/api/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload struct {
		Categories []struct {
			Slug  string
			Count int
		} `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Categories) != 2 || payload.Categories[0].Slug != "games" || payload.Categories[0].Count != 3 {
		t.Fatalf("unexpected categories: %+v", payload.Categories)
	}
}

func TestAPISearch(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := get(r, "/api/search?term=reef")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Reef Devlog") {
		t.Fatalf("expected search hit in payload")
	}

	empty := get(r, "/api/search")
	if empty.Code != http.StatusOK || !strings.Contains(empty.Body.String(), `"total":0`) {
		t.Fatalf("empty term should short-circuit to an empty result, got %d %s", empty.Code, empty.Body.String())
	}
}

func TestAPIStoreFailure(t *testing.T) {
	store := newFakeStore(t)
	store.fail.Store(true)
	r := newTestApp(t, store, nil)

	for _, path := range []string{"/api/posts", "/api/categories", "/api/search?term=reef"} {
		if w := get(r, path); w.Code != http.StatusBadGateway {
			t.Fatalf("%s: expected 502, got %d", path, w.Code)
		}
	}
}

func TestAPICORSHeaders(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected permissive CORS on the API group, got %q", got)
	}
}

func TestStaticPages(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	pages := map[string]string{
		"/books":                "Jericho",
		"/alexa":                "Pet Tales",
		"/alexa?category=Games": "Cards of Wonder",
		"/resume":               "Lead Developer",
		"/fallout":              "Fallout",
		"/reef":                 "Reef",
	}
	for path, marker := range pages {
		w := get(r, path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), marker) {
			t.Fatalf("%s: expected %q in page", path, marker)
		}
	}

	// the Games filter drops skills from other categories
	if body := get(r, "/alexa?category=Games").Body.String(); strings.Contains(body, "Rainbow Words") {
		t.Fatalf("education skill leaked into the Games filter")
	}
}

func TestPingAndNotFound(t *testing.T) {
	r := newTestApp(t, newFakeStore(t), nil)

	if w := get(r, "/ping"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "pong") {
		t.Fatalf("unexpected ping response: %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "/no-such-page"); w.Code != http.StatusNotFound {
		t.Fatalf("expected catch-all 404, got %d", w.Code)
	}
}
