package resolution

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
)

// Concurrency ceilings per queue. Resolve is throttled harder: free-text
// search is the expensive upstream call.
const (
	resolveConcurrency = 2
	detailsConcurrency = 4
)

// maxCacheEntries bounds each cache; on overflow the whole cache is dropped.
// A miss just re-issues the lookup, so correctness never depends on a hit.
const maxCacheEntries = 512

// Target identifies the stop a resolve result gets written back into.
type Target struct {
	PlanID uuid.UUID
	StopID string
}

// OnResolvedFunc receives every target waiting on a key once its place id is
// known. OnDetailsFunc receives each plan that asked for a place's details.
type (
	OnResolvedFunc func(target Target, placeID string)
	OnDetailsFunc  func(planID uuid.UUID, placeID string, details PlaceDetails)
)

type resolveEntry struct {
	query    string
	hint     string
	inFlight bool
	targets  []Target
}

type detailsEntry struct {
	inFlight bool
	planIDs  []uuid.UUID
}

// Queues runs the two bounded-concurrency work queues: place-id resolution
// from free text and place-detail hydration from place id. Work items move
// queued -> in-flight -> {cached, failed}; a key already queued, in-flight or
// cached is never re-enqueued. All queue, cache and in-flight state is guarded
// by one mutex because items complete on real goroutines.
type Queues struct {
	log    *logger.Logger
	client PlaceClient

	onResolved OnResolvedFunc
	onDetails  OnDetailsFunc

	mu     sync.Mutex
	closed bool

	resolveOrder  []string
	resolveWork   map[string]*resolveEntry
	resolveActive int
	resolveCache  map[string]string // key -> place id
	resolveSeen   map[string]bool   // stopID+key pairs ever attempted (negative cache)

	detailsOrder  []string
	detailsWork   map[string]*detailsEntry
	detailsActive int
	detailsCache  map[string]PlaceDetails
}

func NewQueues(baseLog *logger.Logger, client PlaceClient, onResolved OnResolvedFunc, onDetails OnDetailsFunc) *Queues {
	return &Queues{
		log:          baseLog.With("component", "ResolutionQueues"),
		client:       client,
		onResolved:   onResolved,
		onDetails:    onDetails,
		resolveWork:  map[string]*resolveEntry{},
		resolveCache: map[string]string{},
		resolveSeen:  map[string]bool{},
		detailsWork:  map[string]*detailsEntry{},
		detailsCache: map[string]PlaceDetails{},
	}
}

// Close stops result application. In-flight lookups are not cancelled; their
// results are simply ignored when they land.
func (q *Queues) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// ResolveKey normalizes a (query, locality hint) pair into the queue/cache key.
func ResolveKey(query, hint string) string {
	query = strings.ToLower(strings.Join(strings.Fields(query), " "))
	hint = strings.ToLower(strings.Join(strings.Fields(hint), " "))
	if query == "" {
		return ""
	}
	return query + "|" + hint
}

// EnqueueResolve requests a place id for a stop's free text. Fire and forget:
// the result arrives through the write-back callback. A (stop, key) pair is
// attempted at most once per process lifetime, even across failures.
func (q *Queues) EnqueueResolve(planID uuid.UUID, stopID, query, localityHint string) {
	key := ResolveKey(query, localityHint)
	if key == "" || stopID == "" {
		return
	}
	stopKey := stopID + "\x00" + key

	q.mu.Lock()
	if q.closed || q.resolveSeen[stopKey] {
		q.mu.Unlock()
		return
	}
	q.resolveSeen[stopKey] = true

	if placeID, ok := q.resolveCache[key]; ok {
		q.mu.Unlock()
		q.deliverResolved(Target{PlanID: planID, StopID: stopID}, placeID)
		return
	}

	target := Target{PlanID: planID, StopID: stopID}
	if e, ok := q.resolveWork[key]; ok {
		// Already queued or in-flight: ride along, one upstream call serves
		// every waiter.
		e.targets = append(e.targets, target)
		q.mu.Unlock()
		return
	}
	q.resolveWork[key] = &resolveEntry{query: query, hint: localityHint, targets: []Target{target}}
	q.resolveOrder = append(q.resolveOrder, key)
	q.pumpResolveLocked()
	q.mu.Unlock()
}

// pumpResolveLocked starts queue heads until the ceiling is hit. Caller holds
// the mutex.
func (q *Queues) pumpResolveLocked() {
	for q.resolveActive < resolveConcurrency && len(q.resolveOrder) > 0 {
		key := q.resolveOrder[0]
		q.resolveOrder = q.resolveOrder[1:]
		e, ok := q.resolveWork[key]
		if !ok || e.inFlight {
			continue
		}
		e.inFlight = true
		q.resolveActive++
		go q.runResolve(key, e.query, e.hint)
	}
}

func (q *Queues) runResolve(key, query, hint string) {
	placeID, err := q.safeResolve(query, hint)

	q.mu.Lock()
	e := q.resolveWork[key]
	delete(q.resolveWork, key)
	q.resolveActive--
	closed := q.closed

	var targets []Target
	if e != nil {
		targets = e.targets
	}
	if !closed && err == nil && placeID != "" {
		q.storeResolveLocked(key, placeID)
	}
	q.pumpResolveLocked()
	q.mu.Unlock()

	if closed {
		return
	}
	if err != nil || placeID == "" {
		// The (stop, key) pairs stay negatively cached; this miss is
		// permanent for the process lifetime.
		if err != nil {
			q.log.Warn("place resolve failed", "error", err)
		}
		return
	}
	for _, t := range targets {
		q.deliverResolved(t, placeID)
	}
}

func (q *Queues) safeResolve(query, hint string) (placeID string, err error) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("place resolve panic", "panic", r)
			placeID, err = "", errPanic
		}
	}()
	return q.client.Resolve(context.Background(), query, hint)
}

func (q *Queues) deliverResolved(t Target, placeID string) {
	if q.onResolved != nil {
		q.onResolved(t, placeID)
	}
}

// EnqueueDetails requests hydration for a place id. The cache is shared by
// every stop pointing at the same place, so repeat requests cost nothing.
// Failures are not negatively cached; a later pass may retry.
func (q *Queues) EnqueueDetails(planID uuid.UUID, placeID string) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if d, ok := q.detailsCache[placeID]; ok {
		q.mu.Unlock()
		q.deliverDetails(planID, placeID, d)
		return
	}
	if e, ok := q.detailsWork[placeID]; ok {
		for _, existing := range e.planIDs {
			if existing == planID {
				q.mu.Unlock()
				return
			}
		}
		e.planIDs = append(e.planIDs, planID)
		q.mu.Unlock()
		return
	}
	q.detailsWork[placeID] = &detailsEntry{planIDs: []uuid.UUID{planID}}
	q.detailsOrder = append(q.detailsOrder, placeID)
	q.pumpDetailsLocked()
	q.mu.Unlock()
}

func (q *Queues) pumpDetailsLocked() {
	for q.detailsActive < detailsConcurrency && len(q.detailsOrder) > 0 {
		placeID := q.detailsOrder[0]
		q.detailsOrder = q.detailsOrder[1:]
		e, ok := q.detailsWork[placeID]
		if !ok || e.inFlight {
			continue
		}
		e.inFlight = true
		q.detailsActive++
		go q.runDetails(placeID)
	}
}

func (q *Queues) runDetails(placeID string) {
	details, err := q.safeDetails(placeID)

	q.mu.Lock()
	e := q.detailsWork[placeID]
	delete(q.detailsWork, placeID)
	q.detailsActive--
	closed := q.closed

	var planIDs []uuid.UUID
	if e != nil {
		planIDs = e.planIDs
	}
	if !closed && err == nil && details != nil {
		q.storeDetailsLocked(placeID, *details)
	}
	q.pumpDetailsLocked()
	q.mu.Unlock()

	if closed {
		return
	}
	if err != nil || details == nil {
		// Completed without caching; the next enqueue retries.
		if err != nil {
			q.log.Warn("place details fetch failed", "place_id", placeID, "error", err)
		}
		return
	}
	for _, planID := range planIDs {
		q.deliverDetails(planID, placeID, *details)
	}
}

func (q *Queues) safeDetails(placeID string) (details *PlaceDetails, err error) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("place details panic", "place_id", placeID, "panic", r)
			details, err = nil, errPanic
		}
	}()
	return q.client.Details(context.Background(), placeID)
}

func (q *Queues) deliverDetails(planID uuid.UUID, placeID string, d PlaceDetails) {
	if q.onDetails != nil {
		q.onDetails(planID, placeID, d)
	}
}

// CachedDetails exposes the shared details cache for read paths that want to
// hydrate without enqueuing.
func (q *Queues) CachedDetails(placeID string) (PlaceDetails, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	d, ok := q.detailsCache[placeID]
	return d, ok
}

func (q *Queues) storeResolveLocked(key, placeID string) {
	if len(q.resolveCache) >= maxCacheEntries {
		q.resolveCache = map[string]string{}
	}
	q.resolveCache[key] = placeID
}

func (q *Queues) storeDetailsLocked(placeID string, d PlaceDetails) {
	if len(q.detailsCache) >= maxCacheEntries {
		q.detailsCache = map[string]PlaceDetails{}
	}
	q.detailsCache[placeID] = d
}
