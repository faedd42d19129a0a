package youtube

import (
	"context"
	"fmt"

	"ytextract/retry"
)

// ResolveUploads returns the uploads playlist ID and display name for a
// channel identifier. Zero matching items means ErrChannelNotFound.
func (c *Client) ResolveUploads(ctx context.Context, channelID string) (string, string, error) {
	var uploadsID, displayName string

	err := retry.Do(ctx, "channels.list", c.retry, classify, func(ctx context.Context) error {
		resp, err := c.service.Channels.List([]string{"contentDetails", "snippet"}).
			Id(channelID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		if len(resp.Items) == 0 {
			return ErrChannelNotFound
		}

		channel := resp.Items[0]
		if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil {
			return fmt.Errorf("channel %s has no uploads playlist", channelID)
		}
		uploadsID = channel.ContentDetails.RelatedPlaylists.Uploads
		if channel.Snippet != nil {
			displayName = channel.Snippet.Title
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	return uploadsID, displayName, nil
}

// ResolveProfile returns the channel's identity plus aggregate statistics.
// A hidden subscriber count comes back as a nil Subscribers pointer, never
// as zero.
func (c *Client) ResolveProfile(ctx context.Context, channelID string) (*ChannelProfile, error) {
	var profile *ChannelProfile

	err := retry.Do(ctx, "channels.list", c.retry, classify, func(ctx context.Context) error {
		resp, err := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(channelID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		if len(resp.Items) == 0 {
			return ErrChannelNotFound
		}

		channel := resp.Items[0]
		p := &ChannelProfile{ID: channelID}
		if channel.Id != "" {
			p.ID = channel.Id
		}
		if channel.Snippet != nil {
			p.DisplayName = channel.Snippet.Title
		}
		if channel.ContentDetails != nil && channel.ContentDetails.RelatedPlaylists != nil {
			p.UploadsListID = channel.ContentDetails.RelatedPlaylists.Uploads
		}
		if stats := channel.Statistics; stats != nil {
			p.TotalViews = int64(stats.ViewCount)
			p.TotalVideos = int64(stats.VideoCount)
			if !stats.HiddenSubscriberCount {
				subs := int64(stats.SubscriberCount)
				p.Subscribers = &subs
			}
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}
