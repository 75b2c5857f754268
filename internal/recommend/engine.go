// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/animedex/animedex/internal/metrics"
	"github.com/animedex/animedex/internal/models"
)

// Deps bundles the engine's collaborators.
type Deps struct {
	Store         Store
	Collaborative CollaborativeProvider
	Embedding     EmbeddingProvider
	Feedback      FeedbackStore
}

// Engine coordinates the recommendation pipeline. It is safe for
// concurrent use; a request computes read-only except through the
// explicit feedback and telemetry paths.
type Engine struct {
	mu     sync.RWMutex
	cfg    *Config
	logger zerolog.Logger

	store    Store
	collab   CollaborativeProvider
	embed    EmbeddingProvider
	feedback FeedbackStore

	cache   map[string]cacheEntry
	gens    map[int]uint64 // per-user invalidation generation
	cacheMu sync.Mutex
}

// cacheEntry holds one cached result list.
type cacheEntry struct {
	userID    int
	scores    []RecommendationScore
	expiresAt time.Time
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if deps.Feedback == nil {
		return nil, errors.New("feedback store is required")
	}

	return &Engine{
		cfg:      cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		store:    deps.Store,
		collab:   deps.Collaborative,
		embed:    deps.Embedding,
		feedback: deps.Feedback,
		cache:    make(map[string]cacheEntry),
		gens:     make(map[int]uint64),
	}, nil
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Clone()
}

// UpdateConfig swaps the configuration after validation and drops all
// cached results, since any weight change invalidates them.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.mu.Lock()
	e.cfg = cfg.Clone()
	e.mu.Unlock()

	e.clearCache()
	e.logger.Info().Msg("configuration updated")
	return nil
}

// config snapshots the current configuration for one request.
func (e *Engine) config() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// ForYou returns the personalized, diversity-composed recommendation list.
// Unknown users yield an empty list, not an error.
func (e *Engine) ForYou(ctx context.Context, userID, limit int) ([]RecommendationScore, error) {
	cfg := e.config()
	limit = clampLimit(limit, cfg.Limits)
	metrics.RecommendationRequests.WithLabelValues("for_you").Inc()

	key := cacheKey("for_you", userID, limit)
	if cached, ok := e.checkCache(key); ok {
		return cached, nil
	}

	// Snapshot the invalidation generation before reading feedback, so a
	// feedback event landing mid-computation causes the stale result's
	// cache write to be dropped rather than served for the TTL window.
	gen := e.userGen(userID)

	req, err := e.loadRequestState(ctx, cfg, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []RecommendationScore{}, nil
		}
		return nil, err
	}

	builder := &candidateBuilder{store: e.store, cfg: cfg, logger: e.logger}
	sig := builder.behaviorSignal(req.completedAnime)

	pool, err := builder.build(ctx, req.profile, sig, req.exclude)
	if err != nil {
		return nil, err
	}
	metrics.CandidatePoolSize.Observe(float64(len(pool)))
	if len(pool) == 0 {
		return []RecommendationScore{}, nil
	}

	collab, embedding := e.fetchSignals(ctx, cfg, userID, req.topRated, req.topRatedScores)

	in := &scoreInputs{
		profile:     req.profile,
		topRated:    req.topRated,
		favorites:   req.favorites,
		planToWatch: req.planToWatch,
		watching:    req.watching,
		collab:      collab,
		embedding:   embedding,
		behavior:    sig,
	}

	sc := &scorer{cfg: cfg}
	scored := make([]RecommendationScore, 0, len(pool))
	for _, cand := range pool {
		scored = append(scored, sc.score(in, cand))
	}
	sortScores(scored)

	comp := &composer{cfg: cfg}
	mode, ratio := comp.effectiveMode(req.profile, req.watchedAnime)
	out := comp.compose(scored, req.profile, mode, ratio, limit)

	e.logger.Debug().
		Int("user_id", userID).
		Int("pool", len(pool)).
		Int("returned", len(out)).
		Str("mode", mode.String()).
		Msg("recommendations composed")

	e.storeCache(key, userID, gen, out)
	return out, nil
}

// BecauseYouWatched returns anime similar to the source title, blending
// pairwise content similarity with embedding similarity. Unknown user or
// source yields an empty list.
func (e *Engine) BecauseYouWatched(ctx context.Context, userID, sourceAnimeID, limit int) ([]RecommendationScore, error) {
	cfg := e.config()
	limit = clampLimit(limit, cfg.Limits)
	metrics.RecommendationRequests.WithLabelValues("because_you_watched").Inc()

	sources, err := e.store.GetAnime(ctx, []int{sourceAnimeID})
	if err != nil {
		return nil, fmt.Errorf("load source anime: %w", err)
	}
	if len(sources) == 0 {
		return []RecommendationScore{}, nil
	}
	source := sources[0]

	req, err := e.loadRequestState(ctx, cfg, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []RecommendationScore{}, nil
		}
		return nil, err
	}
	req.exclude[sourceAnimeID] = struct{}{}

	builder := &candidateBuilder{store: e.store, cfg: cfg, logger: e.logger}
	sig := builder.behaviorSignal(req.completedAnime)
	gate := builder.gateFor(sig)

	pool, err := e.store.QueryCandidates(ctx, CandidateFilter{
		Exclude:       req.exclude,
		IncludeGenres: source.GenreIDs(),
		Gate:          &gate,
		Limit:         cfg.Pool.MaxCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	if len(pool) == 0 {
		return []RecommendationScore{}, nil
	}

	embedSim := e.fetchSourceSimilarity(ctx, cfg, sourceAnimeID)

	// Blend content and embedding using their relative fusion weights;
	// the collaborative signal has no role in a single-title query.
	fw := cfg.Fusion
	denom := fw.Content + fw.Embedding
	wContent, wEmbed := 0.5, 0.5
	if denom > 0 {
		wContent = fw.Content / denom
		wEmbed = fw.Embedding / denom
	}

	reason := fmt.Sprintf("Because you watched %s", source.Title)
	scored := make([]RecommendationScore, 0, len(pool))
	for _, cand := range pool {
		content := AnimeSimilarity(cfg.Similarity, source, cand)
		scored = append(scored, RecommendationScore{
			Anime:  cand,
			Score:  content*wContent + embedSim[cand.ID]*wEmbed,
			Reason: reason,
			Signals: map[string]float64{
				signalContent:   content,
				signalEmbedding: embedSim[cand.ID],
			},
		})
	}
	sortScores(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// HiddenGems returns high-quality, low-popularity titles ranked by
// favorite-genre match plus rating, countering popularity bias.
func (e *Engine) HiddenGems(ctx context.Context, userID, limit int) ([]RecommendationScore, error) {
	cfg := e.config()
	limit = clampLimit(limit, cfg.Limits)
	metrics.RecommendationRequests.WithLabelValues("hidden_gems").Inc()

	req, err := e.loadRequestState(ctx, cfg, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []RecommendationScore{}, nil
		}
		return nil, err
	}

	pool, err := e.store.QueryCandidates(ctx, CandidateFilter{
		Exclude:       req.exclude,
		MinRating:     cfg.HiddenGems.MinRating,
		MaxPopularity: cfg.HiddenGems.MaxPopularity,
		Limit:         cfg.Pool.MaxCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("query hidden gems: %w", err)
	}

	scored := make([]RecommendationScore, 0, len(pool))
	for _, cand := range pool {
		genreMatch := SetSimilarity(req.profile.FavoriteGenreSet, genreIDSet(cand))
		reason := "Highly rated hidden gem"
		if genreMatch > 0 {
			reason = "Hidden gem in your favorite genres"
		}
		scored = append(scored, RecommendationScore{
			Anime:  cand,
			Score:  genreMatch + cand.Rating/10,
			Reason: reason,
		})
	}
	sortScores(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Discovery returns quality-gated titles from genres outside the user's
// favorites, deliberately stepping beyond the established profile.
func (e *Engine) Discovery(ctx context.Context, userID, limit int) ([]RecommendationScore, error) {
	cfg := e.config()
	limit = clampLimit(limit, cfg.Limits)
	metrics.RecommendationRequests.WithLabelValues("discovery").Inc()

	req, err := e.loadRequestState(ctx, cfg, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []RecommendationScore{}, nil
		}
		return nil, err
	}

	pool, err := e.store.QueryCandidates(ctx, CandidateFilter{
		Exclude:       req.exclude,
		ExcludeGenres: req.profile.FavoriteGenreIDs,
		MinRating:     cfg.Discovery.MinRating,
		Limit:         cfg.Pool.MaxCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("query discovery candidates: %w", err)
	}

	scored := make([]RecommendationScore, 0, len(pool))
	for _, cand := range pool {
		score := cand.Rating / 10
		if cfg.Content.PopularityNorm > 0 {
			score += minFloat(float64(cand.Popularity)/cfg.Content.PopularityNorm, 1) * 0.1
		}
		scored = append(scored, RecommendationScore{
			Anime:  cand,
			Score:  score,
			Reason: "Something new outside your usual genres",
		})
	}
	sortScores(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Trending returns the non-personalized popularity ranking.
func (e *Engine) Trending(ctx context.Context, limit int) ([]RecommendationScore, error) {
	cfg := e.config()
	limit = clampLimit(limit, cfg.Limits)
	metrics.RecommendationRequests.WithLabelValues("trending").Inc()

	return e.trending(ctx, nil, limit, "Trending now")
}

// TrendingInFavoriteGenres returns the popularity ranking restricted to
// the user's favorite genres, falling back to global trending for users
// without favorites.
func (e *Engine) TrendingInFavoriteGenres(ctx context.Context, userID, limit int) ([]RecommendationScore, error) {
	cfg := e.config()
	limit = clampLimit(limit, cfg.Limits)
	metrics.RecommendationRequests.WithLabelValues("trending_favorites").Inc()

	req, err := e.loadRequestState(ctx, cfg, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []RecommendationScore{}, nil
		}
		return nil, err
	}
	if len(req.profile.FavoriteGenreIDs) == 0 {
		return e.trending(ctx, nil, limit, "Trending now")
	}
	return e.trending(ctx, req.profile.FavoriteGenreIDs, limit, "Trending in your favorite genres")
}

// trending queries the store's popularity ranking and wraps it.
func (e *Engine) trending(ctx context.Context, genres []int, limit int, reason string) ([]RecommendationScore, error) {
	anime, err := e.store.TrendingAnime(ctx, genres, limit)
	if err != nil {
		return nil, fmt.Errorf("trending anime: %w", err)
	}

	out := make([]RecommendationScore, 0, len(anime))
	for _, a := range anime {
		out = append(out, RecommendationScore{
			Anime:  a,
			Score:  float64(a.Popularity),
			Reason: reason,
		})
	}
	return out, nil
}

// SubmitFeedback upserts a feedback record and invalidates the user's
// derived caches, including the collaborative provider's user-similarity
// cache. Provider invalidation is advisory; its errors are logged only.
func (e *Engine) SubmitFeedback(ctx context.Context, fb models.Feedback) error {
	if !fb.Kind.Valid() {
		return fmt.Errorf("invalid feedback kind %q", fb.Kind)
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}

	if err := e.feedback.Upsert(ctx, fb); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	e.InvalidateUser(fb.UserID)

	if e.collab != nil {
		if err := e.collab.InvalidateUserCache(ctx, fb.UserID); err != nil {
			e.logger.Warn().Err(err).Int("user_id", fb.UserID).Msg("collaborative cache invalidation failed")
		}
	}
	return nil
}

// TrackInteraction records best-effort telemetry. Failures are logged,
// never surfaced: recommendation flows must not fail because analytics
// failed.
func (e *Engine) TrackInteraction(ctx context.Context, ix models.Interaction) {
	if ix.Timestamp.IsZero() {
		ix.Timestamp = time.Now()
	}
	if err := e.feedback.RecordInteraction(ctx, ix); err != nil {
		metrics.InteractionDropped.Inc()
		e.logger.Warn().Err(err).Int("user_id", ix.UserID).Msg("interaction tracking failed")
	}
}

// InvalidateUser drops all cached result lists for the user and advances
// the user's invalidation generation, so an in-flight computation that
// started before the invalidation cannot write its stale result back.
// Idempotent and safe to call concurrently with in-flight requests; a
// change landing mid-computation is reflected in the next request.
func (e *Engine) InvalidateUser(userID int) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.gens[userID]++
	for key, entry := range e.cache {
		if entry.userID == userID {
			delete(e.cache, key)
		}
	}
}

// userGen reads the user's current invalidation generation.
func (e *Engine) userGen(userID int) uint64 {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	return e.gens[userID]
}

// requestState is the per-request read-only snapshot of the user.
type requestState struct {
	profile        *UserProfile
	exclude        map[int]struct{} // seen + dismissed
	topRated       []models.Anime
	topRatedScores map[int]int
	favorites      []models.Anime
	planToWatch    []models.Anime
	watching       []models.Anime
	completedAnime []models.Anime
	watchedAnime   []models.Anime
}

// loadRequestState loads history and feedback, builds the profile, and
// prefetches every reference anime record exactly once. Scoring does no
// further I/O.
func (e *Engine) loadRequestState(ctx context.Context, cfg *Config, userID int) (*requestState, error) {
	history, err := e.store.LoadUserHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user history: %w", err)
	}

	dismissed, err := e.feedback.DismissedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load dismissed set: %w", err)
	}

	touchedIDs := touchedAnimeIDs(history)
	touched, err := e.store.GetAnime(ctx, touchedIDs)
	if err != nil {
		return nil, fmt.Errorf("load touched anime: %w", err)
	}
	byID := make(map[int]models.Anime, len(touched))
	for _, a := range touched {
		byID[a.ID] = a
	}

	profile := BuildProfile(history, touched)

	exclude := make(map[int]struct{}, len(profile.Seen)+len(dismissed))
	for id := range profile.Seen {
		exclude[id] = struct{}{}
	}
	for id := range dismissed {
		exclude[id] = struct{}{}
	}

	st := &requestState{
		profile:        profile,
		exclude:        exclude,
		topRatedScores: make(map[int]int),
		favorites:      pickAnime(byID, profile.FavoritedIDs),
		planToWatch:    pickAnime(byID, profile.PlanToWatchIDs),
		watching:       pickAnime(byID, profile.WatchingIDs),
		completedAnime: pickAnime(byID, profile.CompletedIDs),
	}

	for _, id := range topRatedIDs(profile, cfg.Limits.TopRatedMinScore, cfg.Limits.TopRated) {
		if a, ok := byID[id]; ok {
			st.topRated = append(st.topRated, a)
			st.topRatedScores[id] = profile.RatingByAnime[id]
		}
	}

	watchedIDs := make([]int, 0, len(profile.Seen))
	for _, entry := range history.WatchList {
		watchedIDs = append(watchedIDs, entry.AnimeID)
	}
	st.watchedAnime = pickAnime(byID, watchedIDs)

	return st, nil
}

// fetchSignals queries the collaborative and embedding providers
// concurrently; the scorer blocks on both before fusing. A provider
// failure degrades its signal to zero contribution.
func (e *Engine) fetchSignals(ctx context.Context, cfg *Config, userID int, topRated []models.Anime, topRatedScores map[int]int) (collab, embedding map[int]float64) {
	collabRes := Unavailable[map[int]float64]()
	embedRes := Unavailable[map[int]float64]()

	var wg sync.WaitGroup

	if e.collab != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collabRes = e.fetchCollaborative(ctx, cfg, userID)
		}()
	}

	if e.embed != nil && len(topRated) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			embedRes = e.fetchEmbedding(ctx, cfg, topRated, topRatedScores)
		}()
	}

	wg.Wait()

	collab, ok := collabRes.Get()
	if !ok {
		collab = map[int]float64{}
	}
	embedding, ok = embedRes.Get()
	if !ok {
		embedding = map[int]float64{}
	}
	return collab, embedding
}

// fetchCollaborative queries the collaborative provider and normalizes
// its 0-10 predictions to 0-1.
func (e *Engine) fetchCollaborative(ctx context.Context, cfg *Config, userID int) ProviderResult[map[int]float64] {
	ctx, cancel := context.WithTimeout(ctx, cfg.Limits.ProviderTimeout)
	defer cancel()

	entries, err := e.collab.Recommendations(ctx, userID, cfg.Limits.CollabLimit)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("collaborative").Inc()
		e.logger.Warn().Err(err).Msg("collaborative provider unavailable")
		return Unavailable[map[int]float64]()
	}

	scores := make(map[int]float64, len(entries))
	for _, entry := range entries {
		scores[entry.AnimeID] = entry.Predicted / 10
	}
	return Ok(scores)
}

// fetchEmbedding queries the embedding provider for each top-rated source
// in parallel and aggregates sum(similarity x sourceRating/10) per
// candidate. Per-source failures degrade that source only.
func (e *Engine) fetchEmbedding(ctx context.Context, cfg *Config, topRated []models.Anime, topRatedScores map[int]int) ProviderResult[map[int]float64] {
	type sourceResult struct {
		similar []SimilarAnime
		rating  int
		err     error
	}

	results := make([]sourceResult, len(topRated))
	var wg sync.WaitGroup
	for i, src := range topRated {
		wg.Add(1)
		go func(idx int, source models.Anime) {
			defer wg.Done()
			srcCtx, cancel := context.WithTimeout(ctx, cfg.Limits.ProviderTimeout)
			defer cancel()

			similar, err := e.embed.SimilarAnime(srcCtx, source.ID, cfg.Limits.EmbeddingK)
			results[idx] = sourceResult{
				similar: similar,
				rating:  topRatedScores[source.ID],
				err:     err,
			}
		}(i, src)
	}
	wg.Wait()

	agg := make(map[int]float64)
	failures := 0
	for _, res := range results {
		if res.err != nil {
			failures++
			continue
		}
		for _, sim := range res.similar {
			agg[sim.AnimeID] += sim.Similarity * float64(res.rating) / 10
		}
	}

	if failures > 0 {
		metrics.ProviderFailures.WithLabelValues("embedding").Inc()
		e.logger.Warn().Int("failed_sources", failures).Msg("embedding lookups degraded")
	}
	if failures == len(results) {
		return Unavailable[map[int]float64]()
	}
	return Ok(agg)
}

// fetchSourceSimilarity queries embedding similarity for one source,
// degrading to an empty map on failure.
func (e *Engine) fetchSourceSimilarity(ctx context.Context, cfg *Config, sourceID int) map[int]float64 {
	if e.embed == nil {
		return map[int]float64{}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Limits.ProviderTimeout)
	defer cancel()

	similar, err := e.embed.SimilarAnime(ctx, sourceID, cfg.Limits.EmbeddingK)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("embedding").Inc()
		e.logger.Warn().Err(err).Msg("embedding provider unavailable")
		return map[int]float64{}
	}

	out := make(map[int]float64, len(similar))
	for _, s := range similar {
		out[s.AnimeID] = s.Similarity
	}
	return out
}

// checkCache returns a copied cached list, if present and fresh.
func (e *Engine) checkCache(key string) ([]RecommendationScore, bool) {
	cfg := e.config()
	if !cfg.Cache.Enabled {
		return nil, false
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	entry, ok := e.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		metrics.EngineCacheMisses.Inc()
		return nil, false
	}

	metrics.EngineCacheHits.Inc()
	out := make([]RecommendationScore, len(entry.scores))
	copy(out, entry.scores)
	return out, true
}

// storeCache stores a result list, evicting expired entries at capacity.
// The write is dropped when the user's invalidation generation has
// advanced past the snapshot the computation started from.
func (e *Engine) storeCache(key string, userID int, gen uint64, scores []RecommendationScore) {
	cfg := e.config()
	if !cfg.Cache.Enabled {
		return
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if e.gens[userID] != gen {
		return
	}

	if len(e.cache) >= cfg.Cache.MaxEntries {
		now := time.Now()
		for k, entry := range e.cache {
			if now.After(entry.expiresAt) {
				delete(e.cache, k)
			}
		}
	}

	e.cache[key] = cacheEntry{
		userID:    userID,
		scores:    scores,
		expiresAt: time.Now().Add(cfg.Cache.TTL),
	}
}

// clearCache removes all cached entries.
func (e *Engine) clearCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache = make(map[string]cacheEntry)
}

// cacheKey builds the cache key for one operation.
func cacheKey(op string, userID, limit int) string {
	return fmt.Sprintf("%s:%d:%d", op, userID, limit)
}

// clampLimit applies the default and maximum result counts.
func clampLimit(limit int, lim LimitsConfig) int {
	if limit <= 0 {
		return lim.DefaultLimit
	}
	if limit > lim.MaxLimit {
		return lim.MaxLimit
	}
	return limit
}

// sortScores orders by score descending with anime-ID ascending
// tie-break, so identical sub-scores always produce identical ordering.
func sortScores(scored []RecommendationScore) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Anime.ID < scored[j].Anime.ID
	})
}

// touchedAnimeIDs returns the distinct anime IDs on the watch list or in
// the ratings.
func touchedAnimeIDs(history *UserHistory) []int {
	set := make(map[int]struct{}, len(history.WatchList)+len(history.Ratings))
	for _, e := range history.WatchList {
		set[e.AnimeID] = struct{}{}
	}
	for _, r := range history.Ratings {
		set[r.AnimeID] = struct{}{}
	}

	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// pickAnime maps IDs to records, skipping unknown IDs.
func pickAnime(byID map[int]models.Anime, ids []int) []models.Anime {
	out := make([]models.Anime, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// minFloat returns the smaller of two floats.
func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
