package types

// DraftV1 is the editable shape the editor round-trips. Flat fields plus a
// stop list; resolved place data rides along untouched.
type DraftV1 struct {
	PlanID    string      `json:"plan_id,omitempty"`
	ToolkitID string      `json:"toolkit_id"`
	Title     string      `json:"title,omitempty"`
	Date      string      `json:"date,omitempty"` // YYYY-MM-DD
	Time      string      `json:"time,omitempty"` // HH:MM
	WhenText  string      `json:"when_text,omitempty"`
	Stops     []DraftStop `json:"stops"`
}

type DraftStop struct {
	ID          string     `json:"id"`
	Role        string     `json:"role,omitempty"`
	Optionality string     `json:"optionality,omitempty"`
	StopTypeID  string     `json:"stop_type_id,omitempty"`
	Query       string     `json:"query,omitempty"`
	Note        string     `json:"note,omitempty"`
	PlaceRef    *PlaceRef  `json:"place_ref,omitempty"`
	PlaceLite   *PlaceLite `json:"place_lite,omitempty"`
}
