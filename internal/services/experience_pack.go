package services

import (
	"context"
	"sort"
	"strings"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/normalization"
	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type ExperiencePackParams struct {
	ToolkitID        string `json:"toolkit_id"`
	Location         string `json:"location"`
	DayOfWeek        *int   `json:"day_of_week,omitempty"`
	HourBin          string `json:"hour_bin,omitempty"` // pinned by the caller; skips the favourite-bin vote
	LimitPlans       int    `json:"limit_plans,omitempty"`
	MinDistinctPlans int    `json:"min_distinct_plans,omitempty"`
}

// ExperiencePackSummary is what the editor seeds a new draft from: the shape
// completed plans of this toolkit have actually taken in this locality.
type ExperiencePackSummary struct {
	Mode                 Mode     `json:"mode"`
	Evidence             int      `json:"evidence"`
	ToolkitID            string   `json:"toolkit_id"`
	Location             string   `json:"location"`
	MedianStopCount      float64  `json:"median_stop_count"`
	RecommendedStopCount int      `json:"recommended_stop_count"`
	StopTypeSequence     []string `json:"stop_type_sequence"`
	HourBin              string   `json:"hour_bin"`
}

type ExperiencePackService interface {
	// GetExperiencePackSummary returns nil with no error when fewer than
	// MinDistinctPlans qualifying plans exist; callers supply a preview.
	GetExperiencePackSummary(ctx context.Context, params ExperiencePackParams) (*ExperiencePackSummary, error)
}

type experiencePackService struct {
	log   *logger.Logger
	store SignalStore
}

func NewExperiencePackService(baseLog *logger.Logger, store SignalStore) ExperiencePackService {
	return &experiencePackService{
		log:   baseLog.With("service", "ExperiencePackService"),
		store: store,
	}
}

func (s *experiencePackService) GetExperiencePackSummary(ctx context.Context, params ExperiencePackParams) (*ExperiencePackSummary, error) {
	if params.ToolkitID == "" || params.Location == "" {
		return nil, nil
	}
	limitPlans := params.LimitPlans
	if limitPlans <= 0 {
		limitPlans = 25
	}
	minDistinct := params.MinDistinctPlans
	if minDistinct <= 0 {
		minDistinct = DefaultMinDistinctPlans
	}

	events, err := s.store.LatestEventsByType(ctx, types.SignalPlanCompleted, DefaultEventWindow)
	if err != nil {
		return nil, err
	}
	plans, err := s.store.PlansByIDsAndToolkit(ctx, planIDs(events), params.ToolkitID)
	if err != nil {
		return nil, err
	}

	type match struct {
		facts       *planFacts
		completedAt string // hour bin of the completion event
	}
	matches := make([]match, 0, limitPlans)
	for _, ev := range events {
		if len(matches) >= limitPlans {
			break
		}
		if params.DayOfWeek != nil && normalization.DayOfWeek(ev.CreatedAt) != *params.DayOfWeek {
			continue
		}
		facts := factsFor(plans[ev.PlanID])
		if facts == nil || !facts.matchesLocality(params.Location) {
			continue
		}
		matches = append(matches, match{facts: facts, completedAt: normalization.HourBin(ev.CreatedAt)})
	}
	if len(matches) < minDistinct {
		return nil, nil
	}

	stopCounts := make([]int, 0, len(matches))
	seqVotes := map[string]int{}
	binVotes := map[string]int{}
	for _, m := range matches {
		stopCounts = append(stopCounts, m.facts.stopCount)
		if len(m.facts.stopTypes) > 0 {
			seqVotes[strings.Join(m.facts.stopTypes, ">")]++
		}
		binVotes[m.completedAt]++
	}

	median := medianInts(stopCounts)
	if median == nil {
		return nil, nil
	}

	hourBin := params.HourBin
	if hourBin == "" {
		hourBin = favouriteHourBin(binVotes)
	}

	return &ExperiencePackSummary{
		Mode:                 ModeEarned,
		Evidence:             len(matches),
		ToolkitID:            params.ToolkitID,
		Location:             params.Location,
		MedianStopCount:      *median,
		RecommendedStopCount: roundHalfUp(*median),
		StopTypeSequence:     favouriteSequence(seqVotes),
		HourBin:              hourBin,
	}, nil
}

// favouriteSequence picks the most voted exact stop-type sequence. Ties break
// by shortest sequence, then lexicographic.
func favouriteSequence(votes map[string]int) []string {
	best := ""
	bestVotes := 0
	for seq, n := range votes {
		switch {
		case n > bestVotes:
			best, bestVotes = seq, n
		case n == bestVotes && n > 0:
			a, b := strings.Count(seq, ">"), strings.Count(best, ">")
			if a < b || (a == b && seq < best) {
				best = seq
			}
		}
	}
	if best == "" {
		return nil
	}
	return strings.Split(best, ">")
}

// favouriteHourBin picks the most voted bin, ties broken by earliest bin in
// the day.
func favouriteHourBin(votes map[string]int) string {
	type entry struct {
		bin string
		n   int
	}
	entries := make([]entry, 0, len(votes))
	for bin, n := range votes {
		entries = append(entries, entry{bin: bin, n: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return normalization.HourBinIndex(entries[i].bin) < normalization.HourBinIndex(entries[j].bin)
	})
	if len(entries) == 0 {
		return ""
	}
	return entries[0].bin
}

// PreviewExperiencePack builds the rule-based stand-in from toolkit defaults
// for callers that got no earned summary.
func PreviewExperiencePack(tk toolkit.Toolkit, params ExperiencePackParams) *ExperiencePackSummary {
	hourBin := params.HourBin
	if hourBin == "" {
		hourBin = tk.DefaultHourBin
	}
	return &ExperiencePackSummary{
		Mode:                 ModePreview,
		Evidence:             0,
		ToolkitID:            tk.ID,
		Location:             params.Location,
		MedianStopCount:      float64(tk.DefaultStops),
		RecommendedStopCount: tk.DefaultStops,
		StopTypeSequence:     append([]string(nil), tk.DefaultSequence...),
		HourBin:              hourBin,
	}
}
