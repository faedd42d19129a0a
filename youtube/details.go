package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ytextract/retry"
)

// batchSize is the upstream ceiling on ids per videos.list request.
const batchSize = 50

// shortMaxSeconds is the duration cutoff for classifying a video as a short.
const shortMaxSeconds = 60

// The videos endpoint is called raw with locally declared response types:
// the generated VideoStatistics uses plain uint64 counters, so an absent
// likeCount is indistinguishable from a reported zero there. Pointer fields
// keep that distinction.
type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		PublishedAt string   `json:"publishedAt"`
		Tags        []string `json:"tags"`
		Thumbnails  struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount    string  `json:"viewCount"`
		LikeCount    *string `json:"likeCount"`
		CommentCount *string `json:"commentCount"`
	} `json:"statistics"`
}

// statusError is a non-2xx response from the raw endpoint.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("youtube: status %d: %s", e.Code, e.Body)
}

// VideoDetails fetches full detail records for the given video IDs in
// batches of at most 50, one call per batch, and returns normalized records
// in the same relative order as the input IDs. A failed batch fails the
// whole call; there is no partial salvage within one VideoDetails call.
//
// The records are channel-agnostic: ChannelID and ChannelName are left
// empty for the caller to stamp.
func (c *Client) VideoDetails(ctx context.Context, videoIDs []string) ([]VideoRecord, error) {
	var records []VideoRecord

	for start := 0; start < len(videoIDs); start += batchSize {
		end := start + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch := videoIDs[start:end]

		params := url.Values{}
		params.Set("part", "snippet,statistics,contentDetails")
		params.Set("id", strings.Join(batch, ","))

		var resp videoListResponse
		if err := c.getJSON(ctx, "videos.list", "/youtube/v3/videos", params, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			records = append(records, normalizeVideo(item))
		}
	}

	return records, nil
}

// normalizeVideo flattens one API item into a VideoRecord.
func normalizeVideo(item videoItem) VideoRecord {
	duration := ParseISODuration(item.ContentDetails.Duration)

	rec := VideoRecord{
		VideoID:         item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		Tags:            strings.Join(item.Snippet.Tags, "|"),
		Thumbnail:       item.Snippet.Thumbnails.High.URL,
		PublishedAt:     item.Snippet.PublishedAt,
		DurationSeconds: duration,
		IsShort:         duration != nil && *duration <= shortMaxSeconds,
		Views:           parseCount(item.Statistics.ViewCount),
		Likes:           parseOptionalCount(item.Statistics.LikeCount),
		Comments:        parseOptionalCount(item.Statistics.CommentCount),
	}
	return rec
}

// parseCount reads an upstream numeric string, defaulting to 0.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseOptionalCount keeps absent counters absent: nil in, nil out.
func parseOptionalCount(s *string) *int64 {
	if s == nil {
		return nil
	}
	n := parseCount(*s)
	return &n
}

// getJSON performs one retried GET against the raw endpoint and decodes the
// body into out. The API key is appended to the query like every other call.
func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out interface{}) error {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	return retry.Do(ctx, op, c.retry, classify, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return &statusError{Code: resp.StatusCode, Body: truncateBody(body)}
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parse response body: %w", err)
		}
		return nil
	})
}

// truncateBody keeps diagnostics readable when the API returns a long error
// document.
func truncateBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
