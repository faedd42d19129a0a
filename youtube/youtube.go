// Package youtube consumes the YouTube Data API v3: channel resolution,
// uploads-playlist enumeration, and batched video detail lookup.
package youtube

import "errors"

// Sentinel errors for catalog operations.
var (
	// ErrChannelNotFound means the API returned zero items for an identifier.
	ErrChannelNotFound = errors.New("youtube: channel not found")
	// ErrMissingAPIKey means no API key was configured.
	ErrMissingAPIKey = errors.New("youtube: api key required")
)

// ChannelProfile is the resolved identity and aggregate statistics of a channel.
// Subscribers is nil when the channel hides its subscriber count; that is
// distinct from a reported count of zero and must stay distinct downstream.
type ChannelProfile struct {
	ID            string
	DisplayName   string
	UploadsListID string
	Subscribers   *int64
	TotalViews    int64
	TotalVideos   int64
}

// PlaylistEntry is one video reference as it appears in an uploads listing.
// PublishedAt is kept as the upstream RFC3339 string; the range filter
// parses it.
type PlaylistEntry struct {
	VideoID     string
	Title       string
	PublishedAt string
	Thumbnail   string
}

// VideoRecord is the flattened detail record for one video.
//
// Tags is the upstream tag list joined with "|" (split on that delimiter to
// recover the list). DurationSeconds is nil when the upstream duration text
// could not be parsed; IsShort derives from DurationSeconds alone and is
// false when the duration is unknown. Likes and Comments are nil when the
// upstream omits them, which is distinct from a reported zero.
type VideoRecord struct {
	VideoID         string
	Title           string
	Description     string
	Tags            string
	Thumbnail       string
	PublishedAt     string
	DurationSeconds *int64
	IsShort         bool
	Views           int64
	Likes           *int64
	Comments        *int64

	// Stamped by the aggregator after detail fetch; the batcher itself is
	// channel-agnostic.
	ChannelID   string
	ChannelName string
}
