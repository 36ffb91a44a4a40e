// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Catalog is the read side of the listing store. Implementations must never
// return unpublished listings. Empty filter slices mean "no constraint".
type Catalog interface {
	FetchPublishedListings(ctx context.Context, cityScope, categories []string, priceTiers []int) ([]Listing, error)
}

// SwipeLog is the append-only interaction log.
type SwipeLog interface {
	SwipeHistory
	AppendSwipe(ctx context.Context, rec SwipeRecord) error
	AppendVibe(ctx context.Context, sel VibeSelection) error
	ListVibes(ctx context.Context, userID string) ([]VibeSelection, error)
}

// SignalCounter returns positive signal counts per listing since a point in
// time. A zero since means all time.
type SignalCounter interface {
	CountSignals(ctx context.Context, since time.Time) (map[string]int, error)
}

// SignalStore records and counts trending signals.
type SignalStore interface {
	SignalCounter
	RecordSignal(ctx context.Context, sig Signal) error
}

// Dependencies are the engine's collaborators. Catalog, Swipes and Signals are
// required; the rest fall back to built-in defaults.
type Dependencies struct {
	Catalog Catalog
	Swipes  SwipeLog
	Signals SignalStore

	// TrendingCounts overrides Signals for reads, e.g. with a snapshot
	// refreshed out of band.
	TrendingCounts SignalCounter

	Categories *CategoryNormalizer
	Cities     *CityScopeResolver
	Vibes      VibeMatcher
	Rules      []AffinityRule
}

// Engine serves ranked feed pages. It holds no per-user state and is safe
// for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	catalog Catalog
	swipes  SwipeLog
	signals SignalStore
	counts  SignalCounter

	categories *CategoryNormalizer
	cities     *CityScopeResolver
	vibes      VibeMatcher
	scorer     *AffinityScorer
	tracker    *ExclusionTracker

	now func() time.Time

	// Random source for the decision helper (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a feed engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Catalog == nil || deps.Swipes == nil || deps.Signals == nil {
		return nil, errors.New("catalog, swipe log and signal store are required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	e := &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "feed").Logger(),
		catalog:    deps.Catalog,
		swipes:     deps.Swipes,
		signals:    deps.Signals,
		counts:     deps.TrendingCounts,
		categories: deps.Categories,
		cities:     deps.Cities,
		vibes:      deps.Vibes,
		tracker:    NewExclusionTracker(deps.Swipes),
		now:        time.Now,
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for the decision wheel
	}
	if e.counts == nil {
		e.counts = deps.Signals
	}
	if e.categories == nil {
		e.categories = NewCategoryNormalizer(nil)
	}
	if e.cities == nil {
		e.cities = NewCityScopeResolver(nil)
	}
	if e.vibes == nil {
		e.vibes = NewKeywordVibeMatcher()
	}
	rules := deps.Rules
	if len(rules) == 0 {
		rules = DefaultAffinityRules(cfg.TopCategories, e.vibes)
	}
	e.scorer = NewAffinityScorer(rules...)

	e.logger.Info().
		Str("composition", string(cfg.Composition)).
		Strs("affinity_rules", e.scorer.Rules()).
		Str("category_table", CategoryTableVersion).
		Str("metro_table", MetroTableVersion).
		Msg("feed engine ready")

	return e, nil
}

// SetClock replaces the engine's time source.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Categories returns the category normalizer.
func (e *Engine) Categories() *CategoryNormalizer {
	return e.categories
}

// Cities returns the city scope resolver.
func (e *Engine) Cities() *CityScopeResolver {
	return e.cities
}

// KnownVibes lists vibe names when the matcher exposes them.
func (e *Engine) KnownVibes() []string {
	if lister, ok := e.vibes.(interface{ Vibes() []string }); ok {
		return lister.Vibes()
	}
	return nil
}

// Vocabulary returns the canonical categories and vibes clients may send.
func (e *Engine) Vocabulary() Vocabulary {
	vibes := e.KnownVibes()
	if vibes == nil {
		vibes = []string{}
	}
	return Vocabulary{
		CategoryTable: CategoryTableVersion,
		MetroTable:    MetroTableVersion,
		Categories:    e.categories.Canonical(),
		Vibes:         vibes,
	}
}

// IsMetro reports whether city names a metro grouping rather than one city.
func (e *Engine) IsMetro(city string) bool {
	return e.cities.IsMetro(city)
}

// Feed returns one page of the ranked feed. Listings the user swiped and
// every id in req.ExcludeIDs are never included.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Feed(ctx context.Context, req FeedRequest) (*FeedPage, error) {
	req, err := e.prepareRequest(req)
	if err != nil {
		return nil, err
	}

	ordered, _, err := e.rank(ctx, req)
	if err != nil {
		return nil, err
	}

	items, total := Paginate(ordered, req.Page, req.PageSize)
	page := &FeedPage{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		HasMore:  (req.Page+1)*req.PageSize < total,
	}

	e.requestLogger(req).Debug().
		Int("total", total).
		Int("served", len(items)).
		Msg("feed page ranked")
	return page, nil
}

// NewSession starts a paging session seeded with the user's swipe history.
func (e *Engine) NewSession(ctx context.Context, userID string) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalidf("user id is required")
	}
	fetchCtx, cancel := context.WithTimeout(ctx, e.config.UpstreamTimeout)
	defer cancel()

	seed, err := e.tracker.Seed(fetchCtx, userID)
	if err != nil {
		return nil, callerErr(ctx, err)
	}
	return NewSession(userID, seed), nil
}

// Next serves the head of the session's remaining feed. Served ids are folded
// into the session, so consecutive calls never overlap. The returned page's
// Page field is the session's page counter. req.Page and req.UserID are
// ignored.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Next(ctx context.Context, s *Session, req FeedRequest) (*FeedPage, error) {
	req.UserID = s.UserID
	req.Page = 0
	req.ExcludeIDs = append(s.Excluded().IDs(), req.ExcludeIDs...)

	page, err := e.Feed(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(page.Items))
	for i := range page.Items {
		ids[i] = page.Items[i].ID
	}
	page.Page = s.served(ids)
	page.HasMore = page.Total > len(page.Items)
	return page, nil
}

// GetTrending returns up to limit published listings in the city's scope,
// most signalled first. RankScore carries the signal count.
func (e *Engine) GetTrending(ctx context.Context, city string, limit int) ([]Listing, error) {
	switch {
	case limit <= 0:
		limit = e.config.DefaultTrendingLimit
	case limit > e.config.MaxTrendingLimit:
		limit = e.config.MaxTrendingLimit
	}

	data, err := e.fetch(ctx, fetchPlan{
		cityScope:  e.cities.Resolve(city),
		withCounts: true,
	})
	if err != nil {
		return nil, err
	}

	candidates := e.prepareCandidates(data.listings)
	byID := make(map[string]Listing, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = candidates[i]
	}

	ranked := RankTrending(data.counts, listingScope(candidates))
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Listing, 0, len(ranked))
	for _, tc := range ranked {
		l := byID[tc.ListingID]
		l.RankScore = tc.Count
		out = append(out, l)
	}
	return out, nil
}

// Decide picks one listing for the decision helper. Candidates go through
// the same filters and exclusions as the feed, and each is weighted by its
// affinity plus a bonus for matching the requested vibe.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Decide(ctx context.Context, req DecideRequest) (*DecideResult, error) {
	fr, err := e.prepareRequest(req.FeedRequest)
	if err != nil {
		return nil, err
	}

	ordered, profile, err := e.rank(ctx, fr)
	if err != nil {
		return nil, err
	}
	if len(ordered) == 0 {
		return nil, ErrNoCandidates
	}

	weights := make([]float64, len(ordered))
	for i := range ordered {
		w := e.scorer.Score(&ordered[i], profile)
		if req.Vibe != "" {
			w += 2 * clampBonus(e.vibes.Match(&ordered[i], req.Vibe))
		}
		weights[i] = float64(w)
	}

	e.rngMu.Lock()
	idx := WeightedPick(e.rng, weights)
	e.rngMu.Unlock()

	e.requestLogger(fr).Debug().
		Str("vibe", req.Vibe).
		Str("listing_id", ordered[idx].ID).
		Int("candidates", len(ordered)).
		Msg("decision picked")

	return &DecideResult{
		Listing:    ordered[idx],
		Weight:     weights[idx],
		Candidates: len(ordered),
	}, nil
}

// RecordSwipe appends a swipe to the log. The category is stored in canonical
// form and tags lower-cased, so affinity never needs a catalog join.
//
//nolint:gocritic // hugeParam: rec passed by value for immutability
func (e *Engine) RecordSwipe(ctx context.Context, rec SwipeRecord) error {
	if strings.TrimSpace(rec.UserID) == "" || strings.TrimSpace(rec.ListingID) == "" {
		return invalidf("user id and listing id are required")
	}
	if !rec.Direction.Valid() {
		return invalidf("direction must be left or right, got %q", rec.Direction)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = e.now().UTC()
	}
	if rec.Category != "" {
		rec.Category = e.categories.Normalize(rec.Category)
	}
	tags := make([]string, 0, len(rec.Tags))
	for _, t := range rec.Tags {
		if t = normalizeTag(t); t != "" {
			tags = append(tags, t)
		}
	}
	rec.Tags = tags

	if err := e.swipes.AppendSwipe(ctx, rec); err != nil {
		return callerErr(ctx, upstream(SourceSwipeHistory, fmt.Errorf("append swipe: %w", err)))
	}
	return nil
}

// RecordVibe appends a spin-wheel vibe selection.
func (e *Engine) RecordVibe(ctx context.Context, userID, vibe string) error {
	v := normalizeVibe(vibe)
	if strings.TrimSpace(userID) == "" || v == "" {
		return invalidf("user id and vibe are required")
	}
	sel := VibeSelection{UserID: userID, Vibe: v, Timestamp: e.now().UTC()}
	if err := e.swipes.AppendVibe(ctx, sel); err != nil {
		return callerErr(ctx, upstream(SourceSwipeHistory, fmt.Errorf("append vibe: %w", err)))
	}
	return nil
}

// RecordSignal records a user's upvote for a listing. Repeat upvotes by the
// same user count once.
func (e *Engine) RecordSignal(ctx context.Context, userID, listingID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(listingID) == "" {
		return invalidf("user id and listing id are required")
	}
	sig := Signal{ListingID: listingID, UserID: userID, Timestamp: e.now().UTC()}
	if err := e.signals.RecordSignal(ctx, sig); err != nil {
		return callerErr(ctx, upstream(SourceTrendingSignals, fmt.Errorf("record signal: %w", err)))
	}
	return nil
}

// prepareRequest applies defaults and rejects malformed requests.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req FeedRequest) (FeedRequest, error) {
	if req.Page < 0 {
		return req, invalidf("page must not be negative, got %d", req.Page)
	}
	if req.PageSize < 0 {
		return req, invalidf("page size must not be negative, got %d", req.PageSize)
	}
	if req.RadiusKm < 0 {
		return req, invalidf("radius must not be negative, got %v", req.RadiusKm)
	}
	if (req.UserLat == nil) != (req.UserLon == nil) {
		return req, invalidf("user latitude and longitude must be given together")
	}

	if req.RadiusKm == 0 {
		req.RadiusKm = e.config.DefaultRadiusKm
	}
	if req.PageSize == 0 {
		req.PageSize = e.config.DefaultPageSize
	}
	if req.PageSize > e.config.MaxPageSize {
		req.PageSize = e.config.MaxPageSize
	}
	return req, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) requestLogger(req FeedRequest) *zerolog.Logger {
	l := e.logger.With().
		Str("user_id", req.UserID).
		Str("city", req.City).
		Int("page", req.Page).
		Logger()
	return &l
}

// rank runs the full pipeline and returns every eligible candidate in feed
// order, plus the profile used to score them.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) rank(ctx context.Context, req FeedRequest) ([]Listing, *AffinityProfile, error) {
	categories := e.categories.NormalizeAll(req.Categories)
	data, err := e.fetch(ctx, fetchPlan{
		userID:      req.UserID,
		cityScope:   e.cities.Resolve(req.City),
		categories:  e.categories.ExpandAll(categories),
		priceTiers:  req.PriceTiers,
		withHistory: req.UserID != "",
		withCounts:  e.config.Composition != CompositionAffinity,
	})
	if err != nil {
		return nil, nil, err
	}

	now := e.now()
	candidates := e.prepareCandidates(data.listings)
	bonus := TrendingBonus(RankTrending(data.counts, listingScope(candidates)), e.config.TrendingBonusTopN)

	if req.HasLocation() {
		candidates = FilterByRadius(Annotate(candidates, *req.UserLat, *req.UserLon), req.RadiusKm)
	}
	candidates = FilterCategories(candidates, categories)
	candidates = FilterPriceTiers(candidates, req.PriceTiers)
	if req.ShowNewThisWeek {
		candidates = FilterNewThisWeek(candidates, now, e.config.NewThisWeekWindow)
	}
	if req.ShowOpenNow {
		candidates = FilterOpenNow(candidates, now, e.config.DefaultEventDuration)
	}
	candidates = Apply(candidates, Extend(seedFromSwipes(data.swipes), req.ExcludeIDs...))

	profile := BuildProfile(data.swipes, data.vibes, e.categories)
	for i := range candidates {
		affinity := e.scorer.Score(&candidates[i], profile)
		candidates[i].RankScore = ComposeScore(e.config.Composition, affinity, bonus[candidates[i].ID])
	}
	SortListings(candidates)
	return candidates, profile, nil
}

// prepareCandidates copies published listings with canonical categories,
// dropping duplicate ids.
func (e *Engine) prepareCandidates(listings []Listing) []Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]Listing, 0, len(listings))
	for i := range listings {
		l := listings[i]
		if !l.IsPublished {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		l.Category = e.categories.Normalize(l.Category)
		l.DistanceKm = nil
		l.RankScore = 0
		out = append(out, l)
	}
	return out
}

type fetchPlan struct {
	userID      string
	cityScope   []string
	categories  []string
	priceTiers  []int
	withHistory bool
	withCounts  bool
}

type upstreamData struct {
	listings []Listing
	swipes   []SwipeRecord
	vibes    []VibeSelection
	counts   map[string]int
}

// fetch loads everything a request needs concurrently under one deadline.
// The first failure cancels the rest and fails the request. If the caller
// gave up, its context error is returned as is.
func (e *Engine) fetch(ctx context.Context, plan fetchPlan) (*upstreamData, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.config.UpstreamTimeout)
	defer cancel()

	var data upstreamData
	g, gctx := errgroup.WithContext(fetchCtx)

	g.Go(func() error {
		listings, err := e.catalog.FetchPublishedListings(gctx, plan.cityScope, plan.categories, plan.priceTiers)
		if err != nil {
			return upstream(SourceCatalog, err)
		}
		data.listings = listings
		return nil
	})

	if plan.withHistory {
		g.Go(func() error {
			swipes, err := e.swipes.ListSwipes(gctx, plan.userID)
			if err != nil {
				return upstream(SourceSwipeHistory, err)
			}
			data.swipes = swipes
			return nil
		})
		g.Go(func() error {
			vibes, err := e.swipes.ListVibes(gctx, plan.userID)
			if err != nil {
				return upstream(SourceSwipeHistory, err)
			}
			data.vibes = vibes
			return nil
		})
	}

	if plan.withCounts {
		g.Go(func() error {
			var since time.Time
			if e.config.TrendingWindow > 0 {
				since = e.now().Add(-e.config.TrendingWindow)
			}
			counts, err := e.counts.CountSignals(gctx, since)
			if err != nil {
				return upstream(SourceTrendingSignals, err)
			}
			data.counts = counts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, callerErr(ctx, err)
	}
	return &data, nil
}
