package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrStoreUnavailable marks transport-level failures against the content
// store. A query that matched nothing is not an error; it yields an empty
// result with a nil error so callers can tell the two apart.
var ErrStoreUnavailable = errors.New("content store unavailable")

const defaultAPIVersion = "2023-05-03"

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues read-only queries against the content store's HTTP API.
type Client struct {
	http       httpDoer
	baseURL    string
	projectID  string
	dataset    string
	apiVersion string
}

// NewClient builds a Client for the given store endpoint and dataset.
func NewClient(baseURL, projectID, dataset string) *Client {
	return &Client{
		http:       &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		projectID:  strings.TrimSpace(projectID),
		dataset:    strings.TrimSpace(dataset),
		apiVersion: defaultAPIVersion,
	}
}

// SetHTTPClient overrides the transport, mainly for tests.
func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
		return
	}
	c.http = client
}

const postProjection = `{
  _id,
  title,
  slug,
  publishedAt,
  excerpt,
  body,
  image{asset->{_id,url},alt,caption},
  author->{name,bio,image{asset->{url}}},
  categories[]->{title,slug,color},
  readTime,
  featured
}`

// Posts returns every post ordered by publish time, newest first.
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	query := `*[_type == "post"] | order(publishedAt desc) ` + postProjection

	var posts []Post
	if err := c.fetch(ctx, query, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostBySlug returns the post with the exact slug, or (nil, nil) when no
// document matches.
func (c *Client) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `*[_type == "post" && slug.current == $slug][0] ` + postProjection

	var post *Post
	if err := c.fetch(ctx, query, map[string]any{"slug": slug}, &post); err != nil {
		return nil, err
	}
	return post, nil
}

// PostsByCategory returns posts referencing the given category slug, newest
// first.
func (c *Client) PostsByCategory(ctx context.Context, categorySlug string) ([]Post, error) {
	query := `*[_type == "post" && references(*[_type == "category" && slug.current == $categorySlug]._id)] | order(publishedAt desc) ` + postProjection

	var posts []Post
	if err := c.fetch(ctx, query, map[string]any{"categorySlug": categorySlug}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchPosts runs a server-side prefix search over title, excerpt and body
// text.
func (c *Client) SearchPosts(ctx context.Context, term string) ([]Post, error) {
	query := `*[_type == "post" && (title match $term + "*" || excerpt match $term + "*" || pt::text(body) match $term + "*")] | order(publishedAt desc) ` + postProjection

	var posts []Post
	if err := c.fetch(ctx, query, map[string]any{"term": term}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FeaturedPosts returns posts flagged featured, newest first.
func (c *Client) FeaturedPosts(ctx context.Context) ([]Post, error) {
	query := `*[_type == "post" && featured == true] | order(publishedAt desc) ` + postProjection

	var posts []Post
	if err := c.fetch(ctx, query, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Categories returns every category with its store-side post count, most
// used first.
func (c *Client) Categories(ctx context.Context) ([]CategoryCount, error) {
	query := `*[_type == "category"]{title,slug,color,"postCount": count(*[_type == "post" && references(^._id)])} | order(postCount desc)`

	var categories []CategoryCount
	if err := c.fetch(ctx, query, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

type queryEnvelope struct {
	Result json.RawMessage `json:"result"`
}

func (c *Client) fetch(ctx context.Context, query string, params map[string]any, out any) error {
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s", c.baseURL, c.apiVersion, c.dataset)

	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode query param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build content query: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "digitalarchive/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrStoreUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %s", ErrStoreUnavailable, resp.Status)
	}

	var envelope queryEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode content response: %w", err)
	}

	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}

	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode content result: %w", err)
	}
	return nil
}
