package youtube

import (
	"context"

	"ytextract/retry"
)

// pageSize is the upstream maximum for playlistItems.list.
const pageSize = 50

// PlaylistItems walks the uploads playlist to completion and returns every
// entry in upstream listing order. The listing is fully materialized before
// any filtering happens; an empty playlist yields an empty slice after a
// single call.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	var entries []PlaylistEntry

	pageToken := ""
	for {
		err := retry.Do(ctx, "playlistItems.list", c.retry, classify, func(ctx context.Context) error {
			resp, err := c.service.PlaylistItems.List([]string{"snippet"}).
				PlaylistId(playlistID).
				MaxResults(pageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
			if err != nil {
				return err
			}

			for _, item := range resp.Items {
				if item.Snippet == nil {
					continue
				}
				snip := item.Snippet
				entry := PlaylistEntry{
					Title:       snip.Title,
					PublishedAt: snip.PublishedAt,
				}
				if snip.ResourceId != nil {
					entry.VideoID = snip.ResourceId.VideoId
				}
				if snip.Thumbnails != nil && snip.Thumbnails.High != nil {
					entry.Thumbnail = snip.Thumbnails.High.Url
				}
				entries = append(entries, entry)
			}

			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, err
		}

		if pageToken == "" {
			break
		}
	}

	return entries, nil
}
