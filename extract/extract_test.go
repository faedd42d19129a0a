package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ytextract/youtube"
)

// fakeChannel is one channel the fakeCatalog knows about.
type fakeChannel struct {
	name    string
	uploads string
	profile youtube.ChannelProfile
	entries []youtube.PlaylistEntry
}

// fakeCatalog is an in-memory Catalog for aggregator tests.
type fakeCatalog struct {
	channels map[string]fakeChannel

	resolveCalls int
	detailCalls  [][]string
	detailErr    error
}

func (f *fakeCatalog) ResolveUploads(ctx context.Context, channelID string) (string, string, error) {
	f.resolveCalls++
	ch, ok := f.channels[channelID]
	if !ok {
		return "", "", youtube.ErrChannelNotFound
	}
	return ch.uploads, ch.name, nil
}

func (f *fakeCatalog) ResolveProfile(ctx context.Context, channelID string) (*youtube.ChannelProfile, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, youtube.ErrChannelNotFound
	}
	profile := ch.profile
	profile.ID = channelID
	profile.DisplayName = ch.name
	return &profile, nil
}

func (f *fakeCatalog) PlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistEntry, error) {
	for _, ch := range f.channels {
		if ch.uploads == playlistID {
			return ch.entries, nil
		}
	}
	return nil, fmt.Errorf("unknown playlist %s", playlistID)
}

func (f *fakeCatalog) VideoDetails(ctx context.Context, videoIDs []string) ([]youtube.VideoRecord, error) {
	f.detailCalls = append(f.detailCalls, videoIDs)
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	records := make([]youtube.VideoRecord, len(videoIDs))
	for i, id := range videoIDs {
		records[i] = youtube.VideoRecord{VideoID: id, Title: "Title " + id}
	}
	return records, nil
}

func inWindowEntry(id string) youtube.PlaylistEntry {
	return youtube.PlaylistEntry{VideoID: id, PublishedAt: "2026-06-15T12:00:00Z"}
}

func outOfWindowEntry(id string) youtube.PlaylistEntry {
	return youtube.PlaylistEntry{VideoID: id, PublishedAt: "2020-01-01T00:00:00Z"}
}

func testWindow() DateWindow {
	return DateWindow{
		Start: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

func singleChannelCatalog() *fakeCatalog {
	subs := int64(100)
	return &fakeCatalog{channels: map[string]fakeChannel{
		"UC-A": {
			name:    "Channel A",
			uploads: "UU-A",
			profile: youtube.ChannelProfile{Subscribers: &subs, TotalViews: 5000, TotalVideos: 3},
			entries: []youtube.PlaylistEntry{
				inWindowEntry("a1"),
				outOfWindowEntry("a2"),
				inWindowEntry("a3"),
			},
		},
	}}
}

func TestExtractChannel(t *testing.T) {
	catalog := singleChannelCatalog()
	extractor := New(catalog)

	result, err := extractor.ExtractChannel(context.Background(), "UC-A", testWindow())
	if err != nil {
		t.Fatalf("ExtractChannel() failed: %v", err)
	}

	if len(result.Videos) != 2 {
		t.Fatalf("got %d videos, want 2", len(result.Videos))
	}
	if result.Videos[0].VideoID != "a1" || result.Videos[1].VideoID != "a3" {
		t.Errorf("video order = %s,%s, want a1,a3", result.Videos[0].VideoID, result.Videos[1].VideoID)
	}
	for _, v := range result.Videos {
		if v.ChannelID != "UC-A" || v.ChannelName != "Channel A" {
			t.Errorf("video %s not stamped with channel identity: %q/%q", v.VideoID, v.ChannelID, v.ChannelName)
		}
	}

	s := result.Summary
	if s.ChannelID != "UC-A" || s.ChannelName != "Channel A" {
		t.Errorf("summary identity = %q/%q", s.ChannelID, s.ChannelName)
	}
	if s.VideosInRange != 2 {
		t.Errorf("VideosInRange = %d, want 2", s.VideosInRange)
	}
	if s.Subscribers == nil || *s.Subscribers != 100 {
		t.Errorf("Subscribers = %v, want 100", s.Subscribers)
	}
	if s.TotalViews != 5000 || s.TotalVideos != 3 {
		t.Errorf("totals = %d/%d, want 5000/3", s.TotalViews, s.TotalVideos)
	}
	if s.ExtractedAt.IsZero() {
		t.Error("ExtractedAt not stamped")
	}

	if len(catalog.detailCalls) != 1 {
		t.Fatalf("detail calls = %d, want 1", len(catalog.detailCalls))
	}
}

func TestExtractChannel_EmptyWindow(t *testing.T) {
	catalog := singleChannelCatalog()
	ch := catalog.channels["UC-A"]
	ch.entries = []youtube.PlaylistEntry{outOfWindowEntry("a1")}
	catalog.channels["UC-A"] = ch

	extractor := New(catalog)
	result, err := extractor.ExtractChannel(context.Background(), "UC-A", testWindow())
	if err != nil {
		t.Fatalf("ExtractChannel() failed: %v", err)
	}

	if len(result.Videos) != 0 {
		t.Errorf("got %d videos, want 0", len(result.Videos))
	}
	if result.Summary.VideosInRange != 0 {
		t.Errorf("VideosInRange = %d, want 0", result.Summary.VideosInRange)
	}
	if result.Summary.ChannelName != "Channel A" {
		t.Errorf("summary still emitted for empty window, got name %q", result.Summary.ChannelName)
	}
	if len(catalog.detailCalls) != 0 {
		t.Errorf("detail fetch issued for empty window: %v", catalog.detailCalls)
	}
}

func TestExtractChannel_EmptyPlaylist(t *testing.T) {
	catalog := singleChannelCatalog()
	ch := catalog.channels["UC-A"]
	ch.entries = nil
	catalog.channels["UC-A"] = ch

	extractor := New(catalog)
	result, err := extractor.ExtractChannel(context.Background(), "UC-A", testWindow())
	if err != nil {
		t.Fatalf("ExtractChannel() failed: %v", err)
	}
	if len(result.Videos) != 0 || result.Summary.VideosInRange != 0 {
		t.Errorf("empty playlist: videos=%d inRange=%d, want 0/0", len(result.Videos), result.Summary.VideosInRange)
	}
}

func TestExtractChannel_NotFound(t *testing.T) {
	extractor := New(&fakeCatalog{channels: map[string]fakeChannel{}})

	_, err := extractor.ExtractChannel(context.Background(), "UC-missing", testWindow())
	if !errors.Is(err, youtube.ErrChannelNotFound) {
		t.Errorf("ExtractChannel() error = %v, want ErrChannelNotFound", err)
	}
}

func TestExtractChannel_DetailFailureAborts(t *testing.T) {
	catalog := singleChannelCatalog()
	catalog.detailErr = errors.New("batch call failed")

	extractor := New(catalog)
	_, err := extractor.ExtractChannel(context.Background(), "UC-A", testWindow())
	if err == nil || !errors.Is(err, catalog.detailErr) {
		t.Errorf("ExtractChannel() error = %v, want wrapped detail failure", err)
	}
}

func batchCatalog() *fakeCatalog {
	subsA := int64(10)
	subsC := int64(30)
	return &fakeCatalog{channels: map[string]fakeChannel{
		"UC-A": {
			name:    "Channel A",
			uploads: "UU-A",
			profile: youtube.ChannelProfile{Subscribers: &subsA, TotalViews: 100, TotalVideos: 1},
			entries: []youtube.PlaylistEntry{inWindowEntry("a1")},
		},
		"UC-C": {
			name:    "Channel C",
			uploads: "UU-C",
			profile: youtube.ChannelProfile{Subscribers: &subsC, TotalViews: 300, TotalVideos: 2},
			entries: []youtube.PlaylistEntry{inWindowEntry("c1"), inWindowEntry("c2")},
		},
	}}
}

func TestExtractBatch_IsolatesFailedChannel(t *testing.T) {
	extractor := New(batchCatalog())

	result := extractor.ExtractBatch(context.Background(), []string{"UC-A", "UC-B", "UC-C"}, testWindow())

	if result.RunID == "" {
		t.Error("RunID not assigned")
	}

	gotVideos := make([]string, len(result.Videos))
	for i, v := range result.Videos {
		gotVideos[i] = v.VideoID
	}
	want := []string{"a1", "c1", "c2"}
	if len(gotVideos) != len(want) {
		t.Fatalf("videos = %v, want %v", gotVideos, want)
	}
	for i := range want {
		if gotVideos[i] != want[i] {
			t.Errorf("videos[%d] = %s, want %s", i, gotVideos[i], want[i])
		}
	}

	if len(result.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(result.Summaries))
	}
	if result.Summaries[0].ChannelID != "UC-A" || result.Summaries[1].ChannelID != "UC-C" {
		t.Errorf("summary order = %s,%s, want UC-A,UC-C",
			result.Summaries[0].ChannelID, result.Summaries[1].ChannelID)
	}

	if len(result.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(result.Failures))
	}
	failure := result.Failures[0]
	if failure.ChannelID != "UC-B" {
		t.Errorf("failure names %s, want UC-B", failure.ChannelID)
	}
	if failure.Stage != StageResolving {
		t.Errorf("failure stage = %s, want %s", failure.Stage, StageResolving)
	}
	if !errors.Is(failure.Err, youtube.ErrChannelNotFound) {
		t.Errorf("failure error = %v, want ErrChannelNotFound", failure.Err)
	}
}

func TestExtractBatch_DeduplicatesFirstOccurrence(t *testing.T) {
	catalog := batchCatalog()
	extractor := New(catalog)

	result := extractor.ExtractBatch(context.Background(), []string{"UC-A", "UC-C", "UC-A", "UC-A"}, testWindow())

	if catalog.resolveCalls != 2 {
		t.Errorf("resolve calls = %d, want 2 (duplicates dropped)", catalog.resolveCalls)
	}
	if len(result.Summaries) != 2 {
		t.Errorf("got %d summaries, want 2", len(result.Summaries))
	}
	if result.Summaries[0].ChannelID != "UC-A" {
		t.Errorf("first summary = %s, want UC-A (first occurrence wins)", result.Summaries[0].ChannelID)
	}
}

func TestExtractBatch_SharesRunTimestamp(t *testing.T) {
	extractor := New(batchCatalog())

	result := extractor.ExtractBatch(context.Background(), []string{"UC-A", "UC-C"}, testWindow())
	if len(result.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(result.Summaries))
	}
	if !result.Summaries[0].ExtractedAt.Equal(result.Summaries[1].ExtractedAt) {
		t.Errorf("summaries carry different run timestamps: %v vs %v",
			result.Summaries[0].ExtractedAt, result.Summaries[1].ExtractedAt)
	}
}

func TestExtractBatch_ReportsProgressStages(t *testing.T) {
	extractor := New(batchCatalog())

	var stages []Stage
	extractor.OnProgress = func(p Progress) {
		if p.ChannelID == "UC-A" {
			stages = append(stages, p.Stage)
		}
	}

	extractor.ExtractBatch(context.Background(), []string{"UC-A"}, testWindow())

	want := []Stage{StagePending, StageResolving, StageEnumerating, StageFiltering, StageDetailing, StageDone}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stages[%d] = %s, want %s", i, stages[i], want[i])
		}
	}
}

func TestExtractBatch_ReportsFailedStage(t *testing.T) {
	extractor := New(&fakeCatalog{channels: map[string]fakeChannel{}})

	var last Progress
	extractor.OnProgress = func(p Progress) { last = p }

	extractor.ExtractBatch(context.Background(), []string{"UC-missing"}, testWindow())

	if last.Stage != StageFailed {
		t.Errorf("last stage = %s, want %s", last.Stage, StageFailed)
	}
	if last.Err == nil {
		t.Error("failed progress carries no error")
	}
}

func TestExtractBatch_StopsWhenContextDone(t *testing.T) {
	catalog := batchCatalog()
	extractor := New(catalog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := extractor.ExtractBatch(ctx, []string{"UC-A", "UC-C"}, testWindow())
	if len(result.Summaries) != 0 || len(result.Videos) != 0 {
		t.Errorf("canceled run produced rows: %d videos, %d summaries", len(result.Videos), len(result.Summaries))
	}
	if catalog.resolveCalls != 0 {
		t.Errorf("resolve calls = %d, want 0 after cancellation", catalog.resolveCalls)
	}
}
