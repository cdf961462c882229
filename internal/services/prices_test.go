package services

import (
	"context"
	"errors"
	"testing"

	"github.com/spinshelf/spinshelf-backend/internal/clients"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
)

type fakePriceSource struct {
	spread *clients.PriceSpread
	err    error
	calls  int
}

func (f *fakePriceSource) PriceFor(ctx context.Context, artist, title string) (*clients.PriceSpread, error) {
	f.calls++
	return f.spread, f.err
}

func TestPriceEstimateWithoutCache(t *testing.T) {
	source := &fakePriceSource{spread: &clients.PriceSpread{Currency: "USD", Low: 10, Median: 25, High: 60}}
	svc := NewPriceService(testLogger(t), source, nil)

	est, cached, err := svc.Estimate(context.Background(), "Artist", "Title")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if cached {
		t.Fatalf("expected cache miss")
	}
	if est.Median != 25 || est.Currency != "USD" {
		t.Fatalf("estimate = %+v", est)
	}
	if source.calls != 1 {
		t.Fatalf("calls = %d", source.calls)
	}
}

func TestPriceNotFound(t *testing.T) {
	svc := NewPriceService(testLogger(t), &fakePriceSource{}, nil)

	_, _, err := svc.Estimate(context.Background(), "Artist", "Title")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := apierr.StatusOf(err); got != 404 {
		t.Fatalf("status = %d", got)
	}
}

func TestPriceUpstreamFailure(t *testing.T) {
	svc := NewPriceService(testLogger(t), &fakePriceSource{err: errors.New("discogs down")}, nil)

	_, _, err := svc.Estimate(context.Background(), "Artist", "Title")
	if got := apierr.StatusOf(err); got != 502 {
		t.Fatalf("status = %d, err = %v", got, err)
	}
}
