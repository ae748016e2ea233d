package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// DraftToPlan converts the editable draft into the canonical plan document,
// merging stop-by-stop against the existing plan. Resolved place data only
// ever accrues: a save that carries no resolution for a stop keeps whatever
// that stop already had ("existing wins unless explicitly replaced").
func DraftToPlan(draft types.DraftV1, existing *types.Plan, actorID uuid.UUID) (*types.Plan, error) {
	if strings.TrimSpace(draft.ToolkitID) == "" {
		return nil, fmt.Errorf("draft missing toolkit id")
	}

	var existingStops map[string]types.StopDoc
	plan := existing
	if plan == nil {
		id := uuid.New()
		if v := strings.TrimSpace(draft.PlanID); v != "" {
			parsed, err := uuid.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("invalid plan id: %w", err)
			}
			id = parsed
		}
		plan = &types.Plan{ID: id, CreatedAt: time.Now().UTC()}
	} else {
		if doc, err := types.DecodePlanDoc(plan.Doc); err == nil {
			existingStops = make(map[string]types.StopDoc, len(doc.Stops))
			for _, s := range doc.Stops {
				existingStops[s.ID] = s
			}
		}
	}

	doc := types.PlanDocV1{
		Version:  1,
		WhenText: draft.WhenText,
		Stops:    make([]types.StopDoc, 0, len(draft.Stops)),
	}
	for _, ds := range draft.Stops {
		stop := types.StopDoc{
			ID:          ds.ID,
			Role:        ds.Role,
			Optionality: ds.Optionality,
			StopTypeID:  ds.StopTypeID,
			Query:       ds.Query,
			Note:        ds.Note,
			PlaceRef:    ds.PlaceRef,
			PlaceLite:   ds.PlaceLite,
		}
		if stop.ID == "" {
			stop.ID = uuid.New().String()
		}
		if prev, ok := existingStops[stop.ID]; ok {
			if stop.PlaceRef == nil {
				stop.PlaceRef = prev.PlaceRef
			}
			if stop.PlaceLite == nil {
				stop.PlaceLite = prev.PlaceLite
			}
		}
		doc.Stops = append(doc.Stops, stop)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode plan doc: %w", err)
	}

	plan.ToolkitID = draft.ToolkitID
	plan.Title = draft.Title
	plan.AnchorTime = draft.Time
	plan.Doc = datatypes.JSON(raw)
	plan.UpdatedAt = time.Now().UTC()
	if actorID != uuid.Nil && plan.ActorID == nil {
		plan.ActorID = &actorID
	}

	plan.AnchorDate = nil
	if strings.TrimSpace(draft.Date) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(draft.Date))
		if err != nil {
			return nil, fmt.Errorf("invalid draft date: %w", err)
		}
		plan.AnchorDate = &d
	}
	return plan, nil
}

// PlanToDraft flattens a stored plan back into the editor shape. Resolved
// references ride along so a later save can round-trip them.
func PlanToDraft(plan *types.Plan) (types.DraftV1, error) {
	if plan == nil {
		return types.DraftV1{}, fmt.Errorf("nil plan")
	}
	doc, err := types.DecodePlanDoc(plan.Doc)
	if err != nil {
		return types.DraftV1{}, fmt.Errorf("decode plan doc: %w", err)
	}

	draft := types.DraftV1{
		PlanID:    plan.ID.String(),
		ToolkitID: plan.ToolkitID,
		Title:     plan.Title,
		Time:      plan.AnchorTime,
		WhenText:  doc.WhenText,
		Stops:     make([]types.DraftStop, 0, len(doc.Stops)),
	}
	if plan.AnchorDate != nil {
		draft.Date = plan.AnchorDate.Format("2006-01-02")
	}
	for _, s := range doc.Stops {
		draft.Stops = append(draft.Stops, types.DraftStop{
			ID:          s.ID,
			Role:        s.Role,
			Optionality: s.Optionality,
			StopTypeID:  s.StopTypeID,
			Query:       s.Query,
			Note:        s.Note,
			PlaceRef:    s.PlaceRef,
			PlaceLite:   s.PlaceLite,
		})
	}
	return draft, nil
}
