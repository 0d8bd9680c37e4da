package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "testproj", "production"), srv
}

func writeResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"result": result}); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestPostsDecodesResultEnvelope(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/v2023-05-03/data/query/production" {
			t.Errorf("unexpected query path %s", got)
		}
		if !strings.Contains(r.URL.Query().Get("query"), `_type == "post"`) {
			t.Errorf("query missing post filter: %s", r.URL.Query().Get("query"))
		}
		writeResult(t, w, []map[string]any{
			{"_id": "p1", "title": "First", "slug": map[string]string{"current": "first"}},
			{"_id": "p2", "title": "Second", "slug": map[string]string{"current": "second"}},
		})
	})

	posts, err := client.Posts(context.Background())
	if err != nil {
		t.Fatalf("Posts returned error: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug.Current != "first" || posts[1].Title != "Second" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestPostsEmptyResultIsNotAnError(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(t, w, []any{})
	})

	posts, err := client.Posts(context.Background())
	if err != nil {
		t.Fatalf("empty result should not error: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected no posts, got %d", len(posts))
	}
}

func TestPostBySlugSendsEncodedParam(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("$slug"); got != `"my-post"` {
			t.Errorf("expected JSON-encoded slug param, got %q", got)
		}
		writeResult(t, w, map[string]any{
			"_id":   "p1",
			"title": "My Post",
			"slug":  map[string]string{"current": "my-post"},
		})
	})

	post, err := client.PostBySlug(context.Background(), "my-post")
	if err != nil {
		t.Fatalf("PostBySlug returned error: %v", err)
	}
	if post == nil || post.Title != "My Post" {
		t.Fatalf("unexpected post: %+v", post)
	}
}

func TestPostBySlugMissingDocumentReturnsNilNil(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": null}`))
	})

	post, err := client.PostBySlug(context.Background(), "missing")
	if err != nil {
		t.Fatalf("missing document must not be an error: %v", err)
	}
	if post != nil {
		t.Fatalf("expected nil post for unknown slug, got %+v", post)
	}
}

func TestFetchWrapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(srv.URL, "testproj", "production")
	srv.Close()

	_, err := client.Posts(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestFetchWrapsServerError(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Posts(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable for a 5xx, got %v", err)
	}
}

func TestMalformedEnvelopeIsNotAStoreOutage(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.Posts(context.Background())
	if err == nil {
		t.Fatalf("expected a decode error")
	}
	if errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("decode failures should not masquerade as transport errors: %v", err)
	}
}

func TestCategoriesDecodesCounts(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("query"), `_type == "category"`) {
			t.Errorf("query missing category filter")
		}
		writeResult(t, w, []map[string]any{
			{"title": "Games", "slug": map[string]string{"current": "games"}, "postCount": 3},
			{"title": "Writing", "slug": map[string]string{"current": "writing"}, "postCount": 1},
		})
	})

	categories, err := client.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories returned error: %v", err)
	}
	if len(categories) != 2 || categories[0].PostCount != 3 || categories[1].Slug.Current != "writing" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestSearchPostsPassesTerm(t *testing.T) {
	client, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("$term"); got != `"reef"` {
			t.Errorf("expected search term param, got %q", got)
		}
		writeResult(t, w, []any{})
	})

	if _, err := client.SearchPosts(context.Background(), "reef"); err != nil {
		t.Fatalf("SearchPosts returned error: %v", err)
	}
}
