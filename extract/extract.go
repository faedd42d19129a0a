// Package extract orchestrates the per-channel pipeline: resolve uploads,
// enumerate the playlist, filter by publish window, fetch details, and
// assemble the video and channel-summary tables for one or many channels.
package extract

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ytextract/youtube"
)

// Catalog is the slice of the catalog client the aggregator needs.
// *youtube.Client satisfies it.
type Catalog interface {
	ResolveUploads(ctx context.Context, channelID string) (uploadsID, displayName string, err error)
	ResolveProfile(ctx context.Context, channelID string) (*youtube.ChannelProfile, error)
	PlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistEntry, error)
	VideoDetails(ctx context.Context, videoIDs []string) ([]youtube.VideoRecord, error)
}

// Stage is where a channel currently sits in the pipeline.
type Stage string

const (
	StagePending     Stage = "pending"
	StageResolving   Stage = "resolving"
	StageEnumerating Stage = "enumerating"
	StageFiltering   Stage = "filtering"
	StageDetailing   Stage = "detailing"
	StageEmpty       Stage = "empty"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Progress is a per-channel stage transition, delivered to OnProgress so a
// front-end can render status without the pipeline knowing about it.
type Progress struct {
	ChannelID string
	// Index/Total position the channel within a batch run (1-based; both 1
	// for single-channel runs).
	Index int
	Total int
	Stage Stage
	// VideosInRange is populated from StageDetailing onward.
	VideosInRange int
	// Err is set only for StageFailed.
	Err error
}

// ChannelSummary is one row of the channel-level table.
type ChannelSummary struct {
	ChannelID     string
	ChannelName   string
	Subscribers   *int64
	TotalViews    int64
	TotalVideos   int64
	VideosInRange int
	ExtractedAt   time.Time
}

// ChannelResult is the outcome of one single-channel pass: zero or more
// video rows plus exactly one summary row.
type ChannelResult struct {
	Videos  []youtube.VideoRecord
	Summary ChannelSummary
}

// ChannelFailure records a channel skipped during a batch run.
type ChannelFailure struct {
	ChannelID string
	Stage     Stage
	Err       error
}

// BatchResult is the merged outcome of a batch run. Videos and Summaries
// concatenate per-channel results in processing order; failed channels
// contribute only a ChannelFailure.
type BatchResult struct {
	RunID     string
	Videos    []youtube.VideoRecord
	Summaries []ChannelSummary
	Failures  []ChannelFailure
}

// Extractor drives the pipeline against a Catalog. Channels are processed
// strictly one after another; the only state is the result tables being
// appended to.
type Extractor struct {
	catalog Catalog

	// OnProgress, when set, receives per-channel stage transitions.
	OnProgress func(Progress)
}

// New returns an Extractor for the given catalog.
func New(catalog Catalog) *Extractor {
	return &Extractor{catalog: catalog}
}

func (e *Extractor) report(p Progress) {
	if e.OnProgress != nil {
		e.OnProgress(p)
	}
}

// ExtractChannel runs the single-channel pipeline. Any terminal error
// (exhausted remote call, unknown channel, unparseable publish timestamp)
// surfaces directly; no partial result is returned.
func (e *Extractor) ExtractChannel(ctx context.Context, channelID string, window DateWindow) (*ChannelResult, error) {
	result, _, err := e.runChannel(ctx, channelID, 1, 1, window, time.Now())
	return result, err
}

// runChannel is the shared per-channel pass. On failure it reports which
// stage the channel died in.
func (e *Extractor) runChannel(ctx context.Context, channelID string, index, total int, window DateWindow, extractedAt time.Time) (*ChannelResult, Stage, error) {
	step := func(stage Stage, videosInRange int) {
		e.report(Progress{ChannelID: channelID, Index: index, Total: total, Stage: stage, VideosInRange: videosInRange})
	}

	step(StageResolving, 0)
	uploadsID, channelName, err := e.catalog.ResolveUploads(ctx, channelID)
	if err != nil {
		return nil, StageResolving, fmt.Errorf("resolve channel %s: %w", channelID, err)
	}

	step(StageEnumerating, 0)
	entries, err := e.catalog.PlaylistItems(ctx, uploadsID)
	if err != nil {
		return nil, StageEnumerating, fmt.Errorf("list uploads of %s: %w", channelID, err)
	}

	step(StageFiltering, 0)
	filtered, err := FilterByWindow(entries, window)
	if err != nil {
		return nil, StageFiltering, fmt.Errorf("filter uploads of %s: %w", channelID, err)
	}

	var videos []youtube.VideoRecord
	if len(filtered) == 0 {
		step(StageEmpty, 0)
	} else {
		step(StageDetailing, len(filtered))
		ids := make([]string, len(filtered))
		for i, entry := range filtered {
			ids[i] = entry.VideoID
		}
		videos, err = e.catalog.VideoDetails(ctx, ids)
		if err != nil {
			return nil, StageDetailing, fmt.Errorf("fetch details for %s: %w", channelID, err)
		}
		for i := range videos {
			videos[i].ChannelID = channelID
			videos[i].ChannelName = channelName
		}
	}

	// The summary row is emitted even when the window is empty.
	profile, err := e.catalog.ResolveProfile(ctx, channelID)
	if err != nil {
		return nil, StageResolving, fmt.Errorf("resolve statistics of %s: %w", channelID, err)
	}

	summary := ChannelSummary{
		ChannelID:     channelID,
		ChannelName:   channelName,
		Subscribers:   profile.Subscribers,
		TotalViews:    profile.TotalViews,
		TotalVideos:   profile.TotalVideos,
		VideosInRange: len(videos),
		ExtractedAt:   extractedAt,
	}

	step(StageDone, len(videos))
	return &ChannelResult{Videos: videos, Summary: summary}, StageDone, nil
}

// ExtractBatch runs the pipeline for a list of channel identifiers.
// Identifiers are deduplicated first-occurrence-wins. A channel whose pass
// fails is logged, recorded as a ChannelFailure, and contributes no rows to
// either table; the run itself never fails. The loop stops early only when
// the context is done.
func (e *Extractor) ExtractBatch(ctx context.Context, channelIDs []string, window DateWindow) *BatchResult {
	ids := dedupe(channelIDs)
	extractedAt := time.Now()

	result := &BatchResult{RunID: uuid.NewString()}
	log.Printf("extract: run %s: %d channels, window %s", result.RunID, len(ids), window)

	for i, channelID := range ids {
		if ctx.Err() != nil {
			log.Printf("extract: run %s stopped: %v", result.RunID, ctx.Err())
			break
		}

		e.report(Progress{ChannelID: channelID, Index: i + 1, Total: len(ids), Stage: StagePending})

		channelResult, stage, err := e.runChannel(ctx, channelID, i+1, len(ids), window, extractedAt)
		if err != nil {
			log.Printf("extract: run %s: channel %s failed (%s): %v", result.RunID, channelID, stage, err)
			e.report(Progress{ChannelID: channelID, Index: i + 1, Total: len(ids), Stage: StageFailed, Err: err})
			result.Failures = append(result.Failures, ChannelFailure{ChannelID: channelID, Stage: stage, Err: err})
			continue
		}

		result.Videos = append(result.Videos, channelResult.Videos...)
		result.Summaries = append(result.Summaries, channelResult.Summary)
	}

	return result
}

// dedupe drops repeated identifiers, keeping first-occurrence order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
