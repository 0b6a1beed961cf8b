package services

import (
	"context"
	"errors"
	"flight-route-service/internal/adapters/cache"
	"flight-route-service/internal/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{ gets, sets int }

func (f *failingCache) Get(context.Context, string) ([]domain.PricedResult, bool, error) {
	f.gets++
	return nil, false, errors.New("cache down")
}

func (f *failingCache) Set(context.Context, string, []domain.PricedResult, time.Duration) error {
	f.sets++
	return errors.New("cache down")
}

// blockingCache always misses and holds Set until release is closed.
type blockingCache struct {
	gets    atomic.Int32
	setCtx  chan context.Context
	release chan struct{}
}

func newBlockingCache() *blockingCache {
	return &blockingCache{
		setCtx:  make(chan context.Context, 2),
		release: make(chan struct{}),
	}
}

func (b *blockingCache) Get(context.Context, string) ([]domain.PricedResult, bool, error) {
	b.gets.Add(1)
	return nil, false, nil
}

func (b *blockingCache) Set(ctx context.Context, _ string, _ []domain.PricedResult, _ time.Duration) error {
	b.setCtx <- ctx
	<-b.release
	return nil
}

func TestSearchServiceSortsAndCaches(t *testing.T) {
	s := NewRouteSearch(BuildConnectionGraph(sampleSchedule(), 6), 2)
	svc := NewSearchService(s, cache.NewMemoryResultCache(), time.Minute)
	req := FindRoutesRequest{Origin: "AAA", Destination: "CCC", Bags: 1}

	first, err := svc.Find(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	require.Len(t, first.Results, 2)
	assert.InDelta(t, 215.0, first.Results[0].TotalPrice, 1e-9)
	assert.InDelta(t, 280.0, first.Results[1].TotalPrice, 1e-9)

	second, err := svc.Find(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Results, second.Results)

	other, err := svc.Find(context.Background(), FindRoutesRequest{Origin: "AAA", Destination: "CCC", Bags: 0})
	require.NoError(t, err)
	assert.False(t, other.CacheHit, "different bag count is a different key")
}

func TestSearchServiceCacheKeyIncludesDataset(t *testing.T) {
	memory := cache.NewMemoryResultCache()
	req := FindRoutesRequest{Origin: "AAA", Destination: "CCC", Bags: 1}

	a := NewSearchService(NewRouteSearch(BuildConnectionGraph(sampleSchedule(), 6), 1), memory, time.Minute)
	_, err := a.Find(context.Background(), req)
	require.NoError(t, err)

	changed := sampleSchedule()[:2]
	b := NewSearchService(NewRouteSearch(BuildConnectionGraph(changed, 6), 1), memory, time.Minute)
	out, err := b.Find(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, out.CacheHit)
	assert.Len(t, out.Results, 1)
}

func TestSearchServiceIgnoresCacheFailures(t *testing.T) {
	fc := &failingCache{}
	svc := NewSearchService(NewRouteSearch(BuildConnectionGraph(sampleSchedule(), 6), 1), fc, time.Minute)

	out, err := svc.Find(context.Background(), FindRoutesRequest{Origin: "AAA", Destination: "CCC"})
	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, 1, fc.gets)
	assert.Equal(t, 1, fc.sets)
}

func TestSearchServiceWithoutCache(t *testing.T) {
	svc := NewSearchService(NewRouteSearch(BuildConnectionGraph(sampleSchedule(), 6), 1), nil, 0)

	out, err := svc.Find(context.Background(), FindRoutesRequest{Origin: "AAA", Destination: "CCC"})
	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
}

func TestSearchServiceValidation(t *testing.T) {
	fc := &failingCache{}
	svc := NewSearchService(NewRouteSearch(BuildConnectionGraph(sampleSchedule(), 6), 1), fc, time.Minute)

	_, err := svc.Find(context.Background(), FindRoutesRequest{Origin: "AAA", Destination: "AAA"})
	assert.ErrorIs(t, err, ErrSameAirport)
	assert.Zero(t, fc.gets, "invalid requests never reach the cache")
}

func TestSearchServiceOneWayKeyIgnoresStay(t *testing.T) {
	svc := NewSearchService(NewRouteSearch(BuildConnectionGraph(sampleSchedule(), 6), 1), cache.NewMemoryResultCache(), time.Minute)

	_, err := svc.Find(context.Background(), FindRoutesRequest{Origin: "AAA", Destination: "CCC", StayDays: 0})
	require.NoError(t, err)

	out, err := svc.Find(context.Background(), FindRoutesRequest{Origin: "AAA", Destination: "CCC", StayDays: 3})
	require.NoError(t, err)
	assert.True(t, out.CacheHit, "stay does not change one-way results")

	out, err = svc.Find(context.Background(), FindRoutesRequest{Origin: "AAA", Destination: "CCC", Return: true, StayDays: 3})
	require.NoError(t, err)
	assert.False(t, out.CacheHit)
}

func TestSearchServiceSharedSearchSurvivesCallerCancel(t *testing.T) {
	bc := newBlockingCache()
	svc := NewSearchService(NewRouteSearch(BuildConnectionGraph(sampleSchedule(), 6), 2), bc, time.Minute)
	req := FindRoutesRequest{Origin: "AAA", Destination: "CCC", Return: true, StayDays: 2}

	type outcome struct {
		out SearchOutcome
		err error
	}

	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()

	first := make(chan outcome, 1)
	go func() {
		out, err := svc.Find(ctx1, req)
		first <- outcome{out, err}
	}()

	// the search has finished and is parked in Set, still in flight
	var sharedCtx context.Context
	select {
	case sharedCtx = <-bc.setCtx:
	case <-time.After(5 * time.Second):
		t.Fatal("shared search never reached the cache")
	}

	second := make(chan outcome, 1)
	go func() {
		out, err := svc.Find(context.Background(), req)
		second <- outcome{out, err}
	}()
	require.Eventually(t, func() bool { return bc.gets.Load() == 2 }, 5*time.Second, time.Millisecond)

	cancel1()

	select {
	case got := <-first:
		assert.ErrorIs(t, got.err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("canceled caller did not return")
	}
	assert.NoError(t, sharedCtx.Err(), "shared search must not inherit the first caller's cancellation")

	close(bc.release)

	select {
	case got := <-second:
		require.NoError(t, got.err)
		require.Len(t, got.out.Results, 2)
		assert.InDelta(t, 100.0+80.0+140.0, got.out.Results[0].TotalPrice, 1e-9)
	case <-time.After(5 * time.Second):
		t.Fatal("waiting caller did not return")
	}
}
