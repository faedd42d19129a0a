// Package export renders extraction results as CSV tables and packages them
// into a single zip archive for delivery.
package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"ytextract/extract"
	"ytextract/youtube"
)

// Column schemas are fixed even when a table has no rows.
var (
	videoHeader = []string{
		"channelID", "channelName", "videoID", "videoTitle", "duration",
		"isShort", "views", "likes", "comments", "tags", "thumbnail",
		"publishedDate", "description",
	}
	summaryHeader = []string{
		"channelID", "channelName", "subscribers", "totalViews",
		"totalVideos", "videosInRange", "extractedAt",
	}
)

// Archive entry names.
const (
	videoTableName   = "videos.csv"
	summaryTableName = "channels.csv"
)

// WriteVideoTable writes the video-level table. Absent optionals (duration,
// likes, comments) become empty cells, never zeros.
func WriteVideoTable(w io.Writer, videos []youtube.VideoRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(videoHeader); err != nil {
		return fmt.Errorf("write video header: %w", err)
	}

	for _, v := range videos {
		row := []string{
			v.ChannelID,
			v.ChannelName,
			v.VideoID,
			v.Title,
			optionalInt(v.DurationSeconds),
			strconv.FormatBool(v.IsShort),
			strconv.FormatInt(v.Views, 10),
			optionalInt(v.Likes),
			optionalInt(v.Comments),
			v.Tags,
			v.Thumbnail,
			v.PublishedAt,
			v.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write video row %s: %w", v.VideoID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryTable writes the channel-level table. A hidden subscriber
// count stays an empty cell.
func WriteSummaryTable(w io.Writer, summaries []extract.ChannelSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for _, s := range summaries {
		row := []string{
			s.ChannelID,
			s.ChannelName,
			optionalInt(s.Subscribers),
			strconv.FormatInt(s.TotalViews, 10),
			strconv.FormatInt(s.TotalVideos, 10),
			strconv.Itoa(s.VideosInRange),
			s.ExtractedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row %s: %w", s.ChannelID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteArchive packages both tables into one zip stream.
func WriteArchive(w io.Writer, videos []youtube.VideoRecord, summaries []extract.ChannelSummary) error {
	zw := zip.NewWriter(w)

	vw, err := zw.Create(videoTableName)
	if err != nil {
		return fmt.Errorf("create %s: %w", videoTableName, err)
	}
	if err := WriteVideoTable(vw, videos); err != nil {
		return err
	}

	sw, err := zw.Create(summaryTableName)
	if err != nil {
		return fmt.Errorf("create %s: %w", summaryTableName, err)
	}
	if err := WriteSummaryTable(sw, summaries); err != nil {
		return err
	}

	return zw.Close()
}

func optionalInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

var labelPattern = regexp.MustCompile(`[^\w-]`)

// SanitizeLabel strips everything but word characters and dashes, so labels
// and channel names are safe as filename stems.
func SanitizeLabel(label string) string {
	return labelPattern.ReplaceAllString(label, "")
}

// SingleArchiveName names a single-channel archive after the channel and
// its row count.
func SingleArchiveName(channelName string, videoCount int) string {
	stem := SanitizeLabel(channelName)
	if stem == "" {
		stem = "channel"
	}
	return fmt.Sprintf("%s%d.zip", stem, videoCount)
}

// BatchArchiveName names a batch archive after the caller-supplied label.
func BatchArchiveName(label string) string {
	stem := SanitizeLabel(label)
	if stem == "" {
		stem = "category"
	}
	return "yt_data_" + stem + ".zip"
}
