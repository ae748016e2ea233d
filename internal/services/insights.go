package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type EditorInsightsParams struct {
	Draft    types.DraftV1 `json:"draft"`
	Location string        `json:"location"`
	City     string        `json:"city,omitempty"`
}

// EditorInsights is the one-call bundle the editor renders from: the three
// draft-facing aggregators plus the coach output built on top of them.
type EditorInsights struct {
	Pack        *ExperiencePackSummary `json:"pack"`
	Seasonal    *SeasonalSummary       `json:"seasonal,omitempty"`
	Comparison  *PlanComparison        `json:"comparison,omitempty"`
	Suggestions []Suggestion           `json:"suggestions"`
}

type InsightsService interface {
	GetEditorInsights(ctx context.Context, params EditorInsightsParams) (*EditorInsights, error)
}

type insightsService struct {
	log         *logger.Logger
	pack        ExperiencePackService
	seasonal    SeasonalService
	comparisons ComparisonsService
	toolkits    *toolkit.Registry
}

func NewInsightsService(baseLog *logger.Logger, pack ExperiencePackService, seasonal SeasonalService, comparisons ComparisonsService, toolkits *toolkit.Registry) InsightsService {
	return &insightsService{
		log:         baseLog.With("service", "InsightsService"),
		pack:        pack,
		seasonal:    seasonal,
		comparisons: comparisons,
		toolkits:    toolkits,
	}
}

func (s *insightsService) GetEditorInsights(ctx context.Context, params EditorInsightsParams) (*EditorInsights, error) {
	tk, ok := s.toolkits.Get(params.Draft.ToolkitID)
	if !ok {
		return nil, fmt.Errorf("unknown toolkit %q", params.Draft.ToolkitID)
	}
	city := params.City
	if city == "" {
		city = params.Location
	}

	var currentPlanID uuid.UUID
	if params.Draft.PlanID != "" {
		if id, err := uuid.Parse(params.Draft.PlanID); err == nil {
			currentPlanID = id
		}
	}

	out := &EditorInsights{}

	// The aggregators share no mutable state and each runs its own query
	// chain, so they fan out. Individual failures degrade to previews
	// instead of failing the bundle.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	g.Go(func() error {
		pack, err := s.pack.GetExperiencePackSummary(gctx, ExperiencePackParams{
			ToolkitID: params.Draft.ToolkitID,
			Location:  params.Location,
		})
		if err != nil {
			s.log.Warn("experience pack failed, using preview", "error", err)
			pack = nil
		}
		if pack == nil {
			pack = PreviewExperiencePack(tk, ExperiencePackParams{Location: params.Location})
		}
		out.Pack = pack
		return nil
	})
	g.Go(func() error {
		seasonal, err := s.seasonal.GetSeasonalContextSummary(gctx, SeasonalParams{
			ToolkitID: params.Draft.ToolkitID,
			Location:  params.Location,
		})
		if err != nil {
			s.log.Warn("seasonal context failed", "error", err)
			seasonal = nil
		}
		out.Seasonal = seasonal
		return nil
	})
	g.Go(func() error {
		comparison, err := s.comparisons.GetPlanComparisons(gctx, ComparisonsParams{
			ToolkitID:     params.Draft.ToolkitID,
			City:          city,
			ActorID:       requestdata.ActorID(ctx),
			CurrentPlanID: currentPlanID,
			ThisPlanStops: len(params.Draft.Stops),
		})
		if err != nil {
			s.log.Warn("plan comparisons failed", "error", err)
			comparison = nil
		}
		out.Comparison = comparison
		return nil
	})
	_ = g.Wait()

	out.Suggestions = BuildCoachSuggestions(CoachInputs{
		Draft:      params.Draft,
		Toolkit:    tk,
		Pack:       out.Pack,
		Seasonal:   out.Seasonal,
		Comparison: out.Comparison,
	})
	return out, nil
}
