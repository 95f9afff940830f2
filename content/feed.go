package content

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FetchVideos reads the clinic channel's Atom feed and maps entries to the
// video table. Topic and tags are inferred from the titles of known treatments;
// language defaults to english unless the entry carries a language hint.
// If limit is greater than 0, only the first limit entries are kept.
func FetchVideos(ctx context.Context, feedURL string, limit int) ([]Video, error) {
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: 15 * time.Second}

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse video feed: %w", err)
	}
	return videosFromFeed(feed, limit), nil
}

func videosFromFeed(feed *gofeed.Feed, limit int) []Video {
	var out []Video
	for _, item := range feed.Items {
		if item.Link == "" || item.Title == "" {
			continue
		}
		out = append(out, Video{
			Title:    item.Title,
			URL:      item.Link,
			Topic:    inferTopic(item.Title),
			Tags:     item.Categories,
			Language: inferLanguage(item),
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func inferTopic(title string) string {
	lt := strings.ToLower(title)
	for _, t := range treatments {
		for _, tag := range append([]string{t.Name}, t.SuitableFor...) {
			if strings.Contains(lt, strings.ToLower(tag)) {
				return strings.ToLower(tag)
			}
		}
	}
	return lt
}

func inferLanguage(item *gofeed.Item) string {
	text := strings.ToLower(item.Title + " " + strings.Join(item.Categories, " "))
	switch {
	case strings.Contains(text, "hindi"):
		return "hindi"
	case strings.Contains(text, "telugu"):
		return "telugu"
	default:
		return "english"
	}
}

// RefreshVideos swaps in the live feed when it yields entries. The built-in
// table is kept on any failure.
func (s *Store) RefreshVideos(ctx context.Context, feedURL string) (*Store, error) {
	if feedURL == "" {
		return s, nil
	}
	v, err := FetchVideos(ctx, feedURL, 50)
	if err != nil {
		return s, err
	}
	if len(v) == 0 {
		return s, nil
	}
	return s.WithVideos(v), nil
}
