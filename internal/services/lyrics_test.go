package services

import (
	"context"
	"errors"
	"testing"

	"github.com/spinshelf/spinshelf-backend/internal/clients"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
)

type fakeLrclib struct {
	exact    *clients.LyricsRecord
	exactErr error
	fuzzy    *clients.LyricsRecord
	fuzzyErr error
}

func (f fakeLrclib) Get(ctx context.Context, artist, track string) (*clients.LyricsRecord, error) {
	return f.exact, f.exactErr
}

func (f fakeLrclib) Search(ctx context.Context, artist, track string) (*clients.LyricsRecord, error) {
	return f.fuzzy, f.fuzzyErr
}

func TestLyricsNoMatchIsSuccessWithNulls(t *testing.T) {
	svc := NewLyricsService(testLogger(t), fakeLrclib{})

	res, err := svc.Lookup(context.Background(), "Unknown Artist", "Unknown Track")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.Lyrics != nil || res.SyncedLyrics != nil || res.Source != nil {
		t.Fatalf("expected all-null result, got %+v", res)
	}
}

func TestLyricsExactHitWinsOverSearch(t *testing.T) {
	svc := NewLyricsService(testLogger(t), fakeLrclib{
		exact: &clients.LyricsRecord{PlainLyrics: "exact words", SyncedLyrics: "[00:01.00] exact"},
		fuzzy: &clients.LyricsRecord{PlainLyrics: "fuzzy words"},
	})

	res, err := svc.Lookup(context.Background(), "Artist", "Track")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.Lyrics == nil || *res.Lyrics != "exact words" {
		t.Fatalf("lyrics = %v", res.Lyrics)
	}
	if res.SyncedLyrics == nil || *res.SyncedLyrics != "[00:01.00] exact" {
		t.Fatalf("synced = %v", res.SyncedLyrics)
	}
	if res.Source == nil || *res.Source != "lrclib" {
		t.Fatalf("source = %v", res.Source)
	}
}

func TestLyricsFallsBackToSearchHit(t *testing.T) {
	svc := NewLyricsService(testLogger(t), fakeLrclib{
		exactErr: errors.New("lrclib get down"),
		fuzzy:    &clients.LyricsRecord{PlainLyrics: "found by search"},
	})

	res, err := svc.Lookup(context.Background(), "Artist", "Track")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.Lyrics == nil || *res.Lyrics != "found by search" {
		t.Fatalf("lyrics = %v", res.Lyrics)
	}
}

func TestLyricsBothEndpointsDownIsUpstreamFailure(t *testing.T) {
	svc := NewLyricsService(testLogger(t), fakeLrclib{
		exactErr: errors.New("down"),
		fuzzyErr: errors.New("down"),
	})

	_, err := svc.Lookup(context.Background(), "Artist", "Track")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := apierr.StatusOf(err); got != 502 {
		t.Fatalf("status = %d", got)
	}
}

func TestLyricsMissingFields(t *testing.T) {
	svc := NewLyricsService(testLogger(t), fakeLrclib{})
	if _, err := svc.Lookup(context.Background(), "", "Track"); err == nil {
		t.Fatalf("expected error")
	}
}
