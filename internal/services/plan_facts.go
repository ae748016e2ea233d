package services

import (
	"strings"

	"github.com/Cesarb72/waypoint-sub001/internal/normalization"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// planFacts is the decoded, join-ready view of one plan that aggregators
// share. A plan whose document fails to decode yields nil and is skipped,
// never fatal to the batch.
type planFacts struct {
	plan       *types.Plan
	stopCount  int
	stopTypes  []string // in stop order, empty entries dropped
	localities []string // distinct derived stop localities, first-seen order
}

func factsFor(plan *types.Plan) *planFacts {
	if plan == nil {
		return nil
	}
	doc, err := types.DecodePlanDoc(plan.Doc)
	if err != nil {
		return nil
	}

	f := &planFacts{plan: plan, stopCount: len(doc.Stops)}
	seen := map[string]bool{}
	for _, stop := range doc.Stops {
		if stop.StopTypeID != "" {
			f.stopTypes = append(f.stopTypes, stop.StopTypeID)
		}
		loc := stopLocality(stop)
		if loc == "" {
			continue
		}
		key := strings.ToLower(loc)
		if !seen[key] {
			seen[key] = true
			f.localities = append(f.localities, loc)
		}
	}
	return f
}

// stopLocality derives the stop's city/district label from its hydrated
// address. Unresolved stops have no locality.
func stopLocality(stop types.StopDoc) string {
	if stop.PlaceLite == nil {
		return ""
	}
	return normalization.DeriveLocality(stop.PlaceLite.FormattedAddress)
}

func (f *planFacts) matchesLocality(target string) bool {
	if f == nil || target == "" {
		return false
	}
	for _, loc := range f.localities {
		if strings.EqualFold(loc, target) {
			return true
		}
	}
	return false
}

func planTitle(plan *types.Plan) string {
	if plan == nil || strings.TrimSpace(plan.Title) == "" {
		return "Untitled plan"
	}
	return plan.Title
}
