// Package route is the fixed table of cross-service operations: one
// descriptor per logical operation, defining the HTTP method and path
// template every adapter and every target router must agree on.
//
// Descriptors are defined once here and looked up by name, never constructed
// ad hoc by callers, so route strings exist in exactly one place.
package route

import (
	"errors"
	"fmt"
	"regexp"
)

// Operation names. These match the method names of the service clients they
// were lifted from, so they double as CLI operation identifiers.
const (
	SaveFilteredPosts       = "save_filtered_posts"
	ListRecentPosts         = "list_recent_posts"
	CreateStorySummary      = "create_story_summary"
	GetStorySummaryByID     = "get_story_summary_by_id"
	GetStorySummaryByPostID = "get_story_summary_by_post_id"
	CreatePublishedArticle  = "create_published_article"
	UpdatePublishedArticle  = "update_published_article"
	HealthProbe             = "health_probe"
)

// Descriptor describes one logical operation. Immutable after package init.
type Descriptor struct {
	Name         string
	Method       string
	PathTemplate string
	RequiresBody bool
}

var placeholderRe = regexp.MustCompile(`\{([^{}/]+)\}`)

// Params returns the placeholder names declared in the path template,
// in order of appearance.
func (d Descriptor) Params() []string {
	matches := placeholderRe.FindAllStringSubmatch(d.PathTemplate, -1)
	if len(matches) == 0 {
		return nil
	}
	params := make([]string, 0, len(matches))
	for _, m := range matches {
		params = append(params, m[1])
	}
	return params
}

var table = map[string]Descriptor{
	SaveFilteredPosts:       {SaveFilteredPosts, "POST", "/api/v1/reddit/posts", true},
	ListRecentPosts:         {ListRecentPosts, "GET", "/api/v1/reddit/posts", false},
	CreateStorySummary:      {CreateStorySummary, "POST", "/api/v1/story-summaries", true},
	GetStorySummaryByID:     {GetStorySummaryByID, "GET", "/api/v1/story-summaries/{id}", false},
	GetStorySummaryByPostID: {GetStorySummaryByPostID, "GET", "/api/v1/story-summaries/by-post/{post_id}", false},
	CreatePublishedArticle:  {CreatePublishedArticle, "POST", "/api/v1/published-articles", true},
	UpdatePublishedArticle:  {UpdatePublishedArticle, "PUT", "/api/v1/published-articles/{id}", true},
	HealthProbe:             {HealthProbe, "GET", "/health", false},
}

// ErrUnknownOperation is returned by Lookup for a name not in the table.
var ErrUnknownOperation = errors.New("route: unknown operation")

// Lookup resolves an operation name to its descriptor.
func Lookup(name string) (Descriptor, error) {
	d, ok := table[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return d, nil
}

// Names returns every operation name in the table, unordered.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
