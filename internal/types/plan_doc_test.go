package types

import "testing"

func TestStopDoc_ResolutionState(t *testing.T) {
	bare := StopDoc{ID: "s1"}
	if got := bare.ResolutionState(); got != StopUnresolved {
		t.Fatalf("expected unresolved, got %q", got)
	}

	refOnly := StopDoc{ID: "s1", PlaceRef: &PlaceRef{PlaceID: "p"}}
	if got := refOnly.ResolutionState(); got != StopResolving {
		t.Fatalf("expected resolving, got %q", got)
	}

	full := StopDoc{
		ID:        "s1",
		PlaceRef:  &PlaceRef{PlaceID: "p"},
		PlaceLite: &PlaceLite{Name: "Somewhere"},
	}
	if got := full.ResolutionState(); got != StopResolved {
		t.Fatalf("expected resolved, got %q", got)
	}
}

func TestDecodePlanDoc(t *testing.T) {
	doc, err := DecodePlanDoc([]byte(`{"version":1,"stops":[{"id":"s1","stop_type_id":"dinner"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Version != 1 || len(doc.Stops) != 1 || doc.Stops[0].StopTypeID != "dinner" {
		t.Fatalf("unexpected doc: %+v", doc)
	}

	if _, err := DecodePlanDoc([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed doc")
	}
}

func TestValidSignalType(t *testing.T) {
	for _, typ := range []string{SignalPlanChosen, SignalPlanCompleted, SignalPlanSkipped, SignalPlanSentiment, SignalPlanViewed} {
		if !ValidSignalType(typ) {
			t.Fatalf("%q should be valid", typ)
		}
	}
	if ValidSignalType("plan_deleted") {
		t.Fatalf("unknown type accepted")
	}
}
