package content

import (
	"fmt"
	"strings"
)

// Resolver turns store image references into sized CDN URLs. Missing or
// malformed references resolve to the empty string, never an error: posts
// without images are normal data, and callers render a placeholder or
// nothing at all.
type Resolver struct {
	cdnBaseURL string
	projectID  string
	dataset    string
}

// NewResolver builds a Resolver for the given CDN endpoint and dataset.
func NewResolver(cdnBaseURL, projectID, dataset string) Resolver {
	return Resolver{
		cdnBaseURL: strings.TrimRight(strings.TrimSpace(cdnBaseURL), "/"),
		projectID:  strings.TrimSpace(projectID),
		dataset:    strings.TrimSpace(dataset),
	}
}

// URL resolves an image field to a width/height-parameterized URL. Both
// asset shapes are accepted: legacy documents carry a resolved url, current
// ones only a reference id.
func (r Resolver) URL(img *Image, width, height int) string {
	if img == nil || img.Asset == nil {
		return ""
	}

	if resolved := strings.TrimSpace(img.Asset.URL); resolved != "" {
		return sizeParams(resolved, width, height)
	}

	ref := strings.TrimSpace(img.Asset.Ref)
	if ref == "" {
		ref = strings.TrimSpace(img.Asset.ID)
	}
	return r.RefURL(ref, width, height)
}

// RefURL resolves a bare reference id of the form
// image-<assetId>-<WxH>-<format>. Anything else yields "".
func (r Resolver) RefURL(ref string, width, height int) string {
	parts := strings.Split(strings.TrimSpace(ref), "-")
	if len(parts) != 4 || parts[0] != "image" {
		return ""
	}

	assetID, dims, format := parts[1], parts[2], parts[3]
	if assetID == "" || format == "" || !validDims(dims) {
		return ""
	}

	base := fmt.Sprintf("%s/images/%s/%s/%s-%s.%s", r.cdnBaseURL, r.projectID, r.dataset, assetID, dims, format)
	return sizeParams(base, width, height)
}

func sizeParams(base string, width, height int) string {
	if width <= 0 || height <= 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sw=%d&h=%d&fit=crop&auto=format", base, sep, width, height)
}

func validDims(dims string) bool {
	w, h, ok := strings.Cut(dims, "x")
	if !ok || w == "" || h == "" {
		return false
	}
	for _, part := range []string{w, h} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
