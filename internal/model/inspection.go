package model

import "time"

// InspectionType says which checklist pass an inspection is: the one taken
// before works start or the one taken after handover.
type InspectionType string

const (
	InspectionTypeInitial InspectionType = "initial"
	InspectionTypeFinal   InspectionType = "final"
)

// InspectionStatus is the lifecycle state of an inspection. There is no
// "not started" row state: an inspection row exists only once it has been
// explicitly created, and it is created already in progress.
type InspectionStatus string

const (
	InspectionStatusInProgress InspectionStatus = "in_progress"
	InspectionStatusCompleted  InspectionStatus = "completed"
)

// Inspection is one checklist pass (initial or final) over a property.
// These are pure domain models with no database-specific dependencies or tags;
// they can be used across layers without coupling to persistence.
type Inspection struct {
	ID           string           `json:"id"`
	PropertyID   string           `json:"property_id"`
	Type         InspectionType   `json:"inspection_type"`
	Status       InspectionStatus `json:"inspection_status"`
	CreatedBy    string           `json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	HasElevator  *bool            `json:"has_elevator,omitempty"`
	PublicLinkID string           `json:"public_link_id"`
}

// ZoneType is one of the eight canonical areas an inspection covers.
// Bedroom and bathroom are dynamic: one Zone row per physical instance.
type ZoneType string

const (
	ZoneSurroundings ZoneType = "surroundings"
	ZoneGeneralState ZoneType = "general_state"
	ZoneEntryHallway ZoneType = "entry_hallway"
	ZoneBedroom      ZoneType = "bedroom"
	ZoneLivingRoom   ZoneType = "living_room"
	ZoneBathroom     ZoneType = "bathroom"
	ZoneKitchen      ZoneType = "kitchen"
	ZoneExterior     ZoneType = "exterior"
)

// Zone is a physical or logical area within an inspection. Zone identity is
// structural: rows are created on first save and never renamed, only deleted
// when a dynamic instance count shrinks.
type Zone struct {
	ID           string   `json:"id"`
	InspectionID string   `json:"inspection_id"`
	Type         ZoneType `json:"zone_type"`
	Name         string   `json:"zone_name"`
}

// Element is the smallest persisted fact within a zone. (ZoneID, Name) is the
// natural key used for idempotent upsert; Name encodes provenance (construct
// prefix, sub-item id, unit index). All value fields are nullable because any
// subset may be reported.
type Element struct {
	ID        string   `json:"id"`
	ZoneID    string   `json:"zone_id"`
	Name      string   `json:"element_name"`
	Condition *string  `json:"condition,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	ImageURLs []string `json:"image_urls"`
	VideoURLs []string `json:"video_urls"`
	Quantity  *int     `json:"quantity,omitempty"`
	Exists    *bool    `json:"exists,omitempty"`
}

// PropertyFacts are the external facts the engine needs from the property
// record: they size the dynamic sections and seed the denormalized elevator
// flag at creation time.
type PropertyFacts struct {
	Bedrooms    int  `json:"bedrooms"`
	Bathrooms   int  `json:"bathrooms"`
	HasElevator bool `json:"has_elevator"`
}
