package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/normalization"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// HeatmapBucket counts completed-plan activity per locality and time slot. A
// plan whose stops span districts contributes to each of them.
type HeatmapBucket struct {
	Locality  string `json:"locality"`
	DayOfWeek int    `json:"day_of_week"`
	HourBin   string `json:"hour_bin"`
	Month     string `json:"month"`
	Count     int    `json:"count"`
}

type HeatmapService interface {
	GetHeatmapSummary(ctx context.Context) ([]HeatmapBucket, error)
}

type heatmapService struct {
	log   *logger.Logger
	store SignalStore
}

func NewHeatmapService(baseLog *logger.Logger, store SignalStore) HeatmapService {
	return &heatmapService{
		log:   baseLog.With("service", "HeatmapService"),
		store: store,
	}
}

func (s *heatmapService) GetHeatmapSummary(ctx context.Context) ([]HeatmapBucket, error) {
	events, err := s.store.LatestEventsByType(ctx, types.SignalPlanCompleted, DefaultEventWindow)
	if err != nil {
		return nil, err
	}

	// Scope to the signed-in actor when one is present; the global corpus
	// otherwise.
	if actor := requestdata.ActorID(ctx); actor != uuid.Nil {
		scoped := events[:0]
		for _, ev := range events {
			if ev.ActorID != nil && *ev.ActorID == actor {
				scoped = append(scoped, ev)
			}
		}
		events = scoped
	}
	if len(events) == 0 {
		return []HeatmapBucket{}, nil
	}

	plans, err := s.store.PlansByIDs(ctx, planIDs(events))
	if err != nil {
		return nil, err
	}

	type key struct {
		locality string
		dow      int
		hourBin  string
		month    string
	}
	counts := map[key]*HeatmapBucket{}
	for _, ev := range events {
		facts := factsFor(plans[ev.PlanID])
		if facts == nil {
			continue
		}
		dow := normalization.DayOfWeek(ev.CreatedAt)
		bin := normalization.HourBin(ev.CreatedAt)
		month := normalization.MonthKey(ev.CreatedAt)
		if dow < 0 || month == "" {
			continue
		}
		for _, loc := range facts.localities {
			k := key{locality: loc, dow: dow, hourBin: bin, month: month}
			if b, ok := counts[k]; ok {
				b.Count++
				continue
			}
			counts[k] = &HeatmapBucket{Locality: loc, DayOfWeek: dow, HourBin: bin, Month: month, Count: 1}
		}
	}

	out := make([]HeatmapBucket, 0, len(counts))
	for _, b := range counts {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if c := strings.Compare(out[i].Locality, out[j].Locality); c != 0 {
			return c < 0
		}
		// Remaining keys ordered so repeat runs emit identical output.
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return normalization.HourBinIndex(out[i].HourBin) < normalization.HourBinIndex(out[j].HourBin)
	})
	return out, nil
}
