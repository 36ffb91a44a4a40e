// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// mockCatalog filters like the real store: published only, city and
// category matched case-insensitively against raw values.
type mockCatalog struct {
	mu       sync.Mutex
	listings []Listing
	err      error
	delay    time.Duration

	calls          int
	lastScope      []string
	lastCategories []string
}

func (m *mockCatalog) FetchPublishedListings(ctx context.Context, scope, categories []string, tiers []int) ([]Listing, error) {
	m.mu.Lock()
	m.calls++
	m.lastScope = scope
	m.lastCategories = categories
	delay, err := m.delay, m.err
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}

	matches := func(values []string, v string) bool {
		if len(values) == 0 {
			return true
		}
		for _, x := range values {
			if strings.EqualFold(x, v) {
				return true
			}
		}
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Listing
	for _, l := range m.listings {
		if !l.IsPublished || !matches(scope, l.City) || !matches(categories, l.Category) {
			continue
		}
		if len(tiers) > 0 && (l.PriceTier == nil || !slices.Contains(tiers, *l.PriceTier)) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type mockSwipeLog struct {
	mu     sync.Mutex
	swipes map[string][]SwipeRecord
	vibes  map[string][]VibeSelection
	err    error

	listCalls int
}

func newMockSwipeLog() *mockSwipeLog {
	return &mockSwipeLog{
		swipes: make(map[string][]SwipeRecord),
		vibes:  make(map[string][]VibeSelection),
	}
}

func (m *mockSwipeLog) ListSwipes(_ context.Context, userID string) ([]SwipeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.swipes[userID]), nil
}

func (m *mockSwipeLog) ListVibes(_ context.Context, userID string) ([]VibeSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.vibes[userID]), nil
}

func (m *mockSwipeLog) AppendSwipe(_ context.Context, rec SwipeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.swipes[rec.UserID] = append(m.swipes[rec.UserID], rec)
	return nil
}

func (m *mockSwipeLog) AppendVibe(_ context.Context, sel VibeSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.vibes[sel.UserID] = append(m.vibes[sel.UserID], sel)
	return nil
}

type mockSignals struct {
	mu       sync.Mutex
	counts   map[string]int
	recorded []Signal
	err      error

	countCalls int
	lastSince  time.Time
}

func (m *mockSignals) CountSignals(_ context.Context, since time.Time) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCalls++
	m.lastSince = since
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

func (m *mockSignals) RecordSignal(_ context.Context, sig Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, sig)
	return nil
}

type testEnv struct {
	engine  *Engine
	catalog *mockCatalog
	swipes  *mockSwipeLog
	signals *mockSignals
}

func newTestEnv(t *testing.T, cfg *Config, listings ...Listing) *testEnv {
	t.Helper()

	env := &testEnv{
		catalog: &mockCatalog{listings: listings},
		swipes:  newMockSwipeLog(),
		signals: &mockSignals{counts: map[string]int{}},
	}
	engine, err := NewEngine(cfg, Dependencies{
		Catalog: env.catalog,
		Swipes:  env.swipes,
		Signals: env.signals,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetClock(func() time.Time { return testNow })
	env.engine = engine
	return env
}

func place(id, city, category string) Listing {
	return Listing{
		ID:          id,
		Title:       "Listing " + id,
		Category:    category,
		City:        city,
		CreatedAt:   testNow.Add(-30 * 24 * time.Hour),
		IsPublished: true,
	}
}

func places(n int, city string) []Listing {
	out := make([]Listing, n)
	for i := range out {
		out[i] = place(fmt.Sprintf("l%03d", i), city, "music")
	}
	return out
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, Dependencies{}, zerolog.Nop()); err == nil {
		t.Error("NewEngine without collaborators should fail")
	}

	cfg := DefaultConfig()
	cfg.Composition = "popularity"
	deps := Dependencies{Catalog: &mockCatalog{}, Swipes: newMockSwipeLog(), Signals: &mockSignals{}}
	if _, err := NewEngine(cfg, deps, zerolog.Nop()); err == nil {
		t.Error("NewEngine with unknown composition should fail")
	}

	e, err := NewEngine(nil, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine(nil config) error = %v", err)
	}
	if e.Config().DefaultPageSize != 20 || e.Config().DefaultRadiusKm != 15 {
		t.Errorf("defaults = %+v", e.Config())
	}
	if len(e.KnownVibes()) == 0 {
		t.Error("KnownVibes should list the built-in vibes")
	}

	vocab := e.Vocabulary()
	if vocab.CategoryTable != CategoryTableVersion || !slices.Contains(vocab.Categories, "nightlife") {
		t.Errorf("Vocabulary() = %+v", vocab)
	}
	if !e.IsMetro("northern virginia") || e.IsMetro("Boise") {
		t.Error("IsMetro should match metro labels only")
	}
}

func TestEngineFeed_Defaults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(30, "Fairfax")...)
	page, err := env.engine.Feed(context.Background(), FeedRequest{UserID: "u1", City: "Northern Virginia"})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if page.PageSize != 20 || len(page.Items) != 20 || page.Total != 30 || !page.HasMore {
		t.Errorf("page = size %d, items %d, total %d, more %v", page.PageSize, len(page.Items), page.Total, page.HasMore)
	}
	for _, city := range []string{"Fairfax", "Arlington", "Washington, DC"} {
		if !slices.Contains(env.catalog.lastScope, city) {
			t.Errorf("catalog scope %v missing %q", env.catalog.lastScope, city)
		}
	}
}

func TestEngineFeed_PageSizeClamped(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(150, "Boise")...)
	page, err := env.engine.Feed(context.Background(), FeedRequest{City: "Boise", PageSize: 500})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if page.PageSize != 100 || len(page.Items) != 100 {
		t.Errorf("page size = %d with %d items, want 100", page.PageSize, len(page.Items))
	}
}

func TestEngineFeed_SequentialPagesDisjoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(50, "Boise")...)
	ctx := context.Background()

	first, err := env.engine.Feed(ctx, FeedRequest{City: "Boise", PageSize: 20})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	second, err := env.engine.Feed(ctx, FeedRequest{City: "Boise", PageSize: 20, ExcludeIDs: ids(first.Items)})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if len(first.Items) != 20 || len(second.Items) != 20 {
		t.Fatalf("page lengths = %d, %d", len(first.Items), len(second.Items))
	}
	if second.Total != 30 {
		t.Errorf("second total = %d, want 30", second.Total)
	}
	for _, id := range ids(second.Items) {
		if slices.Contains(ids(first.Items), id) {
			t.Errorf("%s served twice", id)
		}
	}
}

func TestEngineFeed_Radius(t *testing.T) {
	t.Parallel()

	arlington := place("arlington", "Arlington", "music")
	arlington.Lat, arlington.Lon = fptr(38.8816), fptr(-77.0910)
	fairfax := place("fairfax", "Fairfax", "music")
	fairfax.Lat, fairfax.Lon = fptr(38.8462), fptr(-77.3064)
	unplaced := place("unplaced", "Fairfax", "music")

	env := newTestEnv(t, nil, arlington, fairfax, unplaced)
	req := FeedRequest{City: "nova", UserLat: fptr(38.8816), UserLon: fptr(-77.0910)}

	page, err := env.engine.Feed(context.Background(), req)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	got := ids(page.Items)
	slices.Sort(got)
	if !slices.Equal(got, []string{"arlington", "unplaced"}) {
		t.Errorf("default radius kept %v, want [arlington unplaced]", got)
	}
	for _, l := range page.Items {
		switch l.ID {
		case "arlington":
			if l.DistanceKm == nil || *l.DistanceKm != 0 {
				t.Errorf("arlington distance = %v, want 0", l.DistanceKm)
			}
		case "unplaced":
			if l.DistanceKm != nil {
				t.Errorf("unplaced distance = %v, want nil", *l.DistanceKm)
			}
		}
	}

	req.RadiusKm = 20
	page, err = env.engine.Feed(context.Background(), req)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if page.Total != 3 {
		t.Errorf("20 km radius total = %d, want 3", page.Total)
	}
}

func TestEngineFeed_CategoryAndPrice(t *testing.T) {
	t.Parallel()

	bar := place("bar", "Boise", "Bars")
	bar.PriceTier = iptr(2)
	club := place("club", "Boise", "Nightlife")
	club.PriceTier = iptr(3)
	tierless := place("tierless", "Boise", "Nightlife")
	concert := place("concert", "Boise", "Live Music")

	env := newTestEnv(t, nil, bar, club, tierless, concert)
	ctx := context.Background()

	page, err := env.engine.Feed(ctx, FeedRequest{City: "Boise", Categories: []string{"bars"}})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	got := ids(page.Items)
	slices.Sort(got)
	if !slices.Equal(got, []string{"bar", "club", "tierless"}) {
		t.Errorf("category filter kept %v", got)
	}
	for _, l := range page.Items {
		if l.Category != "nightlife" {
			t.Errorf("%s category = %q, want canonical nightlife", l.ID, l.Category)
		}
	}
	if !slices.Contains(env.catalog.lastCategories, "Bars") || !slices.Contains(env.catalog.lastCategories, "nightlife") {
		t.Errorf("catalog categories %v should carry the expanded variants", env.catalog.lastCategories)
	}

	page, err = env.engine.Feed(ctx, FeedRequest{City: "Boise", PriceTiers: []int{2, 3}})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	got = ids(page.Items)
	slices.Sort(got)
	if !slices.Equal(got, []string{"bar", "club"}) {
		t.Errorf("price filter kept %v", got)
	}
}

func TestEngineFeed_UnknownCategoryIgnoresCase(t *testing.T) {
	t.Parallel()

	lower := place("lower", "Boise", "brunch spots")
	mixed := place("mixed", "Boise", "Brunch Spots")
	other := place("other", "Boise", "music")
	env := newTestEnv(t, nil, lower, mixed, other)

	page, err := env.engine.Feed(context.Background(), FeedRequest{City: "Boise", Categories: []string{"BRUNCH SPOTS"}})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	got := ids(page.Items)
	slices.Sort(got)
	if page.Total != 2 || !slices.Equal(got, []string{"lower", "mixed"}) {
		t.Errorf("unknown category filter kept %v (total %d), want [lower mixed]", got, page.Total)
	}
}

func TestEngineFeed_OpenNowAndNewThisWeek(t *testing.T) {
	t.Parallel()

	live := place("live", "Boise", "music")
	live.StartsAt = tptr(testNow.Add(-time.Hour))
	later := place("later", "Boise", "music")
	later.StartsAt = tptr(testNow.Add(2 * time.Hour))
	fresh := place("fresh", "Boise", "music")
	fresh.CreatedAt = testNow.Add(-48 * time.Hour)

	env := newTestEnv(t, nil, live, later, fresh)
	ctx := context.Background()

	page, err := env.engine.Feed(ctx, FeedRequest{City: "Boise", ShowOpenNow: true})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	got := ids(page.Items)
	slices.Sort(got)
	if !slices.Equal(got, []string{"fresh", "live"}) {
		t.Errorf("open-now kept %v, want [fresh live]", got)
	}

	page, err = env.engine.Feed(ctx, FeedRequest{City: "Boise", ShowNewThisWeek: true})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if got := ids(page.Items); !slices.Equal(got, []string{"fresh"}) {
		t.Errorf("new-this-week kept %v, want [fresh]", got)
	}
}

func TestEngineFeed_ExcludesSwipedListings(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(5, "Boise")...)
	env.swipes.swipes["u1"] = []SwipeRecord{
		swipe("l000", DirectionLeft, "music"),
		swipe("l001", DirectionRight, "music"),
	}
	ctx := context.Background()

	page, err := env.engine.Feed(ctx, FeedRequest{UserID: "u1", City: "Boise"})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	for _, id := range ids(page.Items) {
		if id == "l000" || id == "l001" {
			t.Errorf("swiped listing %s was served", id)
		}
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want 3", page.Total)
	}
}

func TestEngineFeed_AnonymousSkipsHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(3, "Boise")...)
	env.swipes.swipes[""] = []SwipeRecord{swipe("l000", DirectionLeft, "music")}

	page, err := env.engine.Feed(context.Background(), FeedRequest{City: "Boise"})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if page.Total != 3 {
		t.Errorf("anonymous total = %d, want 3", page.Total)
	}
	if env.swipes.listCalls != 0 {
		t.Errorf("swipe history read %d times for an anonymous request", env.swipes.listCalls)
	}
}

func TestEngineFeed_AffinityRanking(t *testing.T) {
	t.Parallel()

	bar := place("bar", "Boise", "Bars")
	bar.Title = "Zebra Bar"
	park := place("park", "Boise", "Parks")
	park.Title = "Acorn Park"
	promo := place("promo", "Boise", "Shopping")
	promo.Title = "Promo"
	promo.IsFeatured = true

	env := newTestEnv(t, nil, bar, park, promo)
	env.swipes.swipes["u1"] = []SwipeRecord{
		swipe("h1", DirectionRight, "nightlife"),
		swipe("h2", DirectionRight, "Bars"),
		swipe("h3", DirectionRight, "Clubs"),
	}

	page, err := env.engine.Feed(context.Background(), FeedRequest{UserID: "u1", City: "Boise"})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if got := ids(page.Items); !slices.Equal(got, []string{"promo", "bar", "park"}) {
		t.Errorf("order = %v, want [promo bar park]", got)
	}
	if page.Items[1].RankScore != BaseAffinity+3 || page.Items[2].RankScore != BaseAffinity {
		t.Errorf("scores = %d, %d", page.Items[1].RankScore, page.Items[2].RankScore)
	}
}

func TestEngineFeed_TrendingScopedToCity(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Composition = CompositionTrending
	cfg.TrendingWindow = 24 * time.Hour

	bar := place("bar", "Boise", "nightlife")
	park := place("park", "Boise", "outdoors")
	env := newTestEnv(t, cfg, bar, park, place("elsewhere", "Reno", "music"))
	env.signals.counts = map[string]int{"elsewhere": 100, "park": 3, "bar": 1}

	page, err := env.engine.Feed(context.Background(), FeedRequest{City: "Boise"})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if got := ids(page.Items); !slices.Equal(got, []string{"park", "bar"}) {
		t.Fatalf("order = %v, want [park bar]", got)
	}
	if page.Items[0].RankScore != 5 || page.Items[1].RankScore != 4 {
		t.Errorf("trending scores = %d, %d, want 5, 4", page.Items[0].RankScore, page.Items[1].RankScore)
	}
	if !env.signals.lastSince.Equal(testNow.Add(-24 * time.Hour)) {
		t.Errorf("signals counted since %v, want a 24h window", env.signals.lastSince)
	}
}

func TestEngineFeed_AffinityOnlySkipsSignals(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Composition = CompositionAffinity
	env := newTestEnv(t, cfg, places(3, "Boise")...)

	if _, err := env.engine.Feed(context.Background(), FeedRequest{City: "Boise"}); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if env.signals.countCalls != 0 {
		t.Errorf("signals counted %d times in affinity-only mode", env.signals.countCalls)
	}
}

func TestEngineFeed_EmptyResult(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(3, "Boise")...)
	page, err := env.engine.Feed(context.Background(), FeedRequest{City: "Reno"})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 || page.Total != 0 || page.HasMore {
		t.Errorf("empty page = %+v", page)
	}
}

func TestEngineFeed_InvalidRequests(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	tests := []struct {
		name string
		req  FeedRequest
	}{
		{"negative page", FeedRequest{Page: -1}},
		{"negative page size", FeedRequest{PageSize: -5}},
		{"negative radius", FeedRequest{RadiusKm: -1}},
		{"latitude without longitude", FeedRequest{UserLat: fptr(38.9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.engine.Feed(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Feed() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
	if env.catalog.calls != 0 {
		t.Errorf("catalog called %d times for invalid requests", env.catalog.calls)
	}
}

func TestEngineFeed_UpstreamFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	tests := []struct {
		name   string
		fail   func(env *testEnv)
		source string
	}{
		{"catalog", func(env *testEnv) { env.catalog.err = boom }, SourceCatalog},
		{"swipe history", func(env *testEnv) { env.swipes.err = boom }, SourceSwipeHistory},
		{"trending signals", func(env *testEnv) { env.signals.err = boom }, SourceTrendingSignals},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil, places(3, "Boise")...)
			tt.fail(env)

			page, err := env.engine.Feed(context.Background(), FeedRequest{UserID: "u1", City: "Boise"})
			if page != nil {
				t.Error("no partial page may be returned on upstream failure")
			}
			if !errors.Is(err, ErrUpstreamUnavailable) || !errors.Is(err, boom) {
				t.Fatalf("Feed() error = %v, want upstream failure wrapping the cause", err)
			}
			var ue *UpstreamError
			if !errors.As(err, &ue) || ue.Source != tt.source {
				t.Errorf("upstream source = %v, want %s", ue, tt.source)
			}
		})
	}
}

func TestEngineFeed_UpstreamTimeout(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UpstreamTimeout = 20 * time.Millisecond
	env := newTestEnv(t, cfg, places(3, "Boise")...)
	env.catalog.delay = time.Second

	start := time.Now()
	_, err := env.engine.Feed(context.Background(), FeedRequest{City: "Boise"})
	if !errors.Is(err, ErrUpstreamUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Feed() error = %v, want upstream deadline", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("timed-out request took %v", elapsed)
	}
}

func TestEngineFeed_CallerCanceled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(3, "Boise")...)
	env.catalog.delay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.engine.Feed(ctx, FeedRequest{UserID: "u1", City: "Boise"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Feed() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("caller cancellation reported as upstream failure: %v", err)
	}

	env.swipes.err = errors.New("write aborted")
	err = env.engine.RecordSwipe(ctx, SwipeRecord{UserID: "u1", ListingID: "l000", Direction: DirectionLeft})
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("RecordSwipe() error = %v, want bare context.Canceled", err)
	}
}

func TestEngineSession_Next(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil, places(45, "Boise")...)
	env.swipes.swipes["u1"] = []SwipeRecord{swipe("l000", DirectionLeft, "music")}
	ctx := context.Background()

	if _, err := env.engine.NewSession(ctx, " "); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("NewSession(blank) error = %v, want ErrInvalidRequest", err)
	}

	s, err := env.engine.NewSession(ctx, "u1")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	served := make(map[string]bool)
	wantLens := []int{20, 20, 4, 0}
	wantMore := []bool{true, true, false, false}
	for i, want := range wantLens {
		page, err := env.engine.Next(ctx, s, FeedRequest{City: "Boise"})
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if len(page.Items) != want || page.Page != i || page.HasMore != wantMore[i] {
			t.Errorf("page %d: %d items, page %d, more %v", i, len(page.Items), page.Page, page.HasMore)
		}
		for _, id := range ids(page.Items) {
			if id == "l000" || served[id] {
				t.Errorf("%s served again", id)
			}
			served[id] = true
		}
	}
	if len(served) != 44 || s.PagesServed() != 4 {
		t.Errorf("served %d listings over %d pages, want 44 over 4", len(served), s.PagesServed())
	}
}

func TestEngineGetTrending(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil,
		place("a", "Fairfax", "music"),
		place("b", "Arlington", "music"),
		place("c", "Fairfax", "music"),
		place("d", "Fairfax", "music"),
		place("boise", "Boise", "music"),
	)
	env.signals.counts = map[string]int{"a": 5, "b": 5, "c": 9, "boise": 100, "gone": 70}
	ctx := context.Background()

	got, err := env.engine.GetTrending(ctx, "Northern Virginia", 0)
	if err != nil {
		t.Fatalf("GetTrending() error = %v", err)
	}
	if !slices.Equal(ids(got), []string{"c", "a", "b"}) {
		t.Fatalf("trending = %v, want [c a b]", ids(got))
	}
	for _, l := range got {
		if l.RankScore != env.signals.counts[l.ID] {
			t.Errorf("%s rank score = %d, want its signal count", l.ID, l.RankScore)
		}
	}

	got, err = env.engine.GetTrending(ctx, "Northern Virginia", 2)
	if err != nil {
		t.Fatalf("GetTrending() error = %v", err)
	}
	if !slices.Equal(ids(got), []string{"c", "a"}) {
		t.Errorf("limited trending = %v, want [c a]", ids(got))
	}

	env.signals.err = errors.New("timeout")
	if _, err := env.engine.GetTrending(ctx, "Boise", 5); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("GetTrending() error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestEngineDecide(t *testing.T) {
	t.Parallel()

	wine := place("wine", "Boise", "nightlife")
	wine.Title = "Rooftop Wine Garden"
	wine.Description = "Sunset jazz"
	plain := place("plain", "Boise", "shopping")

	env := newTestEnv(t, nil, wine, plain)
	ctx := context.Background()
	req := DecideRequest{FeedRequest: FeedRequest{City: "Boise"}, Vibe: "romantic"}

	wins := 0
	for i := 0; i < 200; i++ {
		res, err := env.engine.Decide(ctx, req)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if res.Candidates != 2 {
			t.Fatalf("candidates = %d, want 2", res.Candidates)
		}
		if res.Listing.ID == "wine" {
			wins++
			if res.Weight != float64(BaseAffinity+2*MaxRuleBonus) {
				t.Errorf("wine weight = %v", res.Weight)
			}
		}
	}
	if wins < 150 {
		t.Errorf("vibe match won %d of 200 draws, want a strong bias", wins)
	}

	empty := newTestEnv(t, nil)
	if _, err := empty.engine.Decide(ctx, req); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("Decide() on empty catalog error = %v, want ErrNoCandidates", err)
	}
}

func TestEngineDecide_Reproducible(t *testing.T) {
	t.Parallel()

	listings := places(10, "Boise")
	a := newTestEnv(t, nil, listings...)
	b := newTestEnv(t, nil, listings...)
	req := DecideRequest{FeedRequest: FeedRequest{City: "Boise"}}

	for i := 0; i < 20; i++ {
		ra, err := a.engine.Decide(context.Background(), req)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		rb, err := b.engine.Decide(context.Background(), req)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if ra.Listing.ID != rb.Listing.ID {
			t.Fatalf("draw %d differs under the same seed: %s vs %s", i, ra.Listing.ID, rb.Listing.ID)
		}
	}
}

func TestEngineRecordSwipe(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	err := env.engine.RecordSwipe(ctx, SwipeRecord{
		UserID:    "u1",
		ListingID: "bar",
		Direction: DirectionRight,
		Category:  "Bars",
		Tags:      []string{" Patio ", "", "Craft Beer"},
	})
	if err != nil {
		t.Fatalf("RecordSwipe() error = %v", err)
	}
	got := env.swipes.swipes["u1"]
	if len(got) != 1 {
		t.Fatalf("stored %d swipes, want 1", len(got))
	}
	if got[0].Category != "nightlife" || !slices.Equal(got[0].Tags, []string{"patio", "craft beer"}) || !got[0].Timestamp.Equal(testNow) {
		t.Errorf("stored swipe = %+v", got[0])
	}

	invalid := []SwipeRecord{
		{ListingID: "bar", Direction: DirectionLeft},
		{UserID: "u1", Direction: DirectionLeft},
		{UserID: "u1", ListingID: "bar", Direction: "up"},
	}
	for _, rec := range invalid {
		if err := env.engine.RecordSwipe(ctx, rec); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("RecordSwipe(%+v) error = %v, want ErrInvalidRequest", rec, err)
		}
	}

	env.swipes.err = errors.New("disk full")
	err = env.engine.RecordSwipe(ctx, SwipeRecord{UserID: "u1", ListingID: "x", Direction: DirectionLeft})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("RecordSwipe() error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestEngineRecordVibeAndSignal(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	ctx := context.Background()

	if err := env.engine.RecordVibe(ctx, "u1", " Romantic "); err != nil {
		t.Fatalf("RecordVibe() error = %v", err)
	}
	if v := env.swipes.vibes["u1"]; len(v) != 1 || v[0].Vibe != "romantic" {
		t.Errorf("stored vibes = %+v", v)
	}
	if err := env.engine.RecordVibe(ctx, "u1", "  "); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("RecordVibe(blank) error = %v, want ErrInvalidRequest", err)
	}

	if err := env.engine.RecordSignal(ctx, "u1", "bar"); err != nil {
		t.Fatalf("RecordSignal() error = %v", err)
	}
	if s := env.signals.recorded; len(s) != 1 || s[0].ListingID != "bar" || !s[0].Timestamp.Equal(testNow) {
		t.Errorf("recorded signals = %+v", s)
	}
	if err := env.engine.RecordSignal(ctx, "", "bar"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("RecordSignal(no user) error = %v, want ErrInvalidRequest", err)
	}
}
