package services

import (
	"fmt"
	"strings"

	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// MaxCoachSuggestions caps what the editor surfaces at once.
const MaxCoachSuggestions = 2

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type CoachInputs struct {
	Draft      types.DraftV1
	Toolkit    toolkit.Toolkit
	Pack       *ExperiencePackSummary // earned or preview, never nil mode-blind
	Seasonal   *SeasonalSummary       // nil when insufficient
	Comparison *PlanComparison        // nil when unavailable
}

type Suggestion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Mode        Mode   `json:"mode"`
}

// BuildCoachSuggestions evaluates the fixed rule table against the draft and
// aggregator outputs. Pure: same inputs, same suggestions.
func BuildCoachSuggestions(in CoachInputs) []Suggestion {
	var out []Suggestion
	seen := map[string]bool{}
	add := func(s *Suggestion) {
		if s == nil || seen[s.ID] || len(out) >= MaxCoachSuggestions {
			return
		}
		seen[s.ID] = true
		out = append(out, *s)
	}

	for _, rule := range coachRules {
		add(rule(in))
		if len(out) >= MaxCoachSuggestions {
			break
		}
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out
}

// Rule order is the ranking: earlier rules win the cap.
var coachRules = []func(CoachInputs) *Suggestion{
	ruleStopCount,
	ruleMissingStopType,
	rulePickDate,
	ruleTimeWindow,
	ruleLastTime,
}

func ruleStopCount(in CoachInputs) *Suggestion {
	if in.Pack == nil || len(in.Draft.Stops) == 0 {
		return nil
	}
	diff := len(in.Draft.Stops) - in.Pack.RecommendedStopCount
	if diff >= -1 && diff <= 1 {
		return nil
	}
	verb := "add"
	if diff > 0 {
		verb = "trim"
	}
	return &Suggestion{
		ID:    "stop-count",
		Title: fmt.Sprintf("Most %s plans here run %d stops", in.Toolkit.Name, in.Pack.RecommendedStopCount),
		Explanation: fmt.Sprintf("You have %d stops; consider whether to %s a stop to land near %d.",
			len(in.Draft.Stops), verb, in.Pack.RecommendedStopCount),
		Mode: in.Pack.Mode,
	}
}

func ruleMissingStopType(in CoachInputs) *Suggestion {
	if in.Pack == nil || len(in.Pack.StopTypeSequence) == 0 {
		return nil
	}
	present := map[string]bool{}
	for _, s := range in.Draft.Stops {
		if s.StopTypeID != "" {
			present[s.StopTypeID] = true
		}
	}
	for _, want := range in.Pack.StopTypeSequence {
		if !present[want] && inVocabulary(in.Toolkit, want) {
			return &Suggestion{
				ID:          "missing-stop-type",
				Title:       fmt.Sprintf("Plans like this usually include a %s stop", want),
				Explanation: fmt.Sprintf("The common sequence is %s.", strings.Join(in.Pack.StopTypeSequence, " → ")),
				Mode:        in.Pack.Mode,
			}
		}
	}
	return nil
}

func rulePickDate(in CoachInputs) *Suggestion {
	if in.Draft.Date != "" {
		return nil
	}
	if in.Seasonal != nil && in.Seasonal.BusiestDayOfWeek >= 0 && in.Seasonal.BusiestDayOfWeek < 7 {
		return &Suggestion{
			ID:          "pick-date",
			Title:       "Pick a date",
			Explanation: fmt.Sprintf("%ss see the most completed plans around %s lately.", dayNames[in.Seasonal.BusiestDayOfWeek], in.Seasonal.Location),
			Mode:        in.Seasonal.Mode,
		}
	}
	return &Suggestion{
		ID:          "pick-date",
		Title:       "Pick a date",
		Explanation: "Plans with a date on them get completed far more often.",
		Mode:        ModePreview,
	}
}

func ruleTimeWindow(in CoachInputs) *Suggestion {
	if in.Pack == nil || in.Pack.HourBin == "" || in.Draft.Time != "" {
		return nil
	}
	return &Suggestion{
		ID:          "time-window",
		Title:       fmt.Sprintf("The %s window works well here", in.Pack.HourBin),
		Explanation: fmt.Sprintf("Completed %s plans around %s cluster in the %s window.", in.Toolkit.Name, in.Pack.Location, in.Pack.HourBin),
		Mode:        in.Pack.Mode,
	}
}

func ruleLastTime(in CoachInputs) *Suggestion {
	if in.Comparison == nil || in.Comparison.LastTime == nil {
		return nil
	}
	lt := in.Comparison.LastTime
	return &Suggestion{
		ID:          "last-time",
		Title:       fmt.Sprintf("Last time you did %d stops", lt.StopCount),
		Explanation: fmt.Sprintf("%q wrapped with %d stops; this draft has %d.", lt.Title, lt.StopCount, in.Comparison.ThisPlanStops),
		Mode:        ModeEarned,
	}
}

func inVocabulary(tk toolkit.Toolkit, stopType string) bool {
	for _, st := range tk.StopTypes {
		if st == stopType {
			return true
		}
	}
	return false
}
