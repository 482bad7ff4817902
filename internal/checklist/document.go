package checklist

import (
	"fmt"
	"strings"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
)

// SectionID identifies one of the eight checklist sections. Section ids and
// zone types share the same canonical strings.
type SectionID string

const (
	SectionSurroundings SectionID = "surroundings"
	SectionGeneralState SectionID = "general_state"
	SectionEntryHallway SectionID = "entry_hallway"
	SectionBedroom      SectionID = "bedroom"
	SectionLivingRoom   SectionID = "living_room"
	SectionBathroom     SectionID = "bathroom"
	SectionKitchen      SectionID = "kitchen"
	SectionExterior     SectionID = "exterior"
)

// requiredSections is the canonical section order. All eight must be present
// and fully reported before an inspection may be completed.
var requiredSections = []SectionID{
	SectionSurroundings,
	SectionGeneralState,
	SectionEntryHallway,
	SectionBedroom,
	SectionLivingRoom,
	SectionBathroom,
	SectionKitchen,
	SectionExterior,
}

// fixedZoneNames maps each fixed section to the single zone name it persists
// under. Dynamic sections (bedroom, bathroom) use dynamicZoneLabels plus a
// 1-based instance index instead.
var fixedZoneNames = map[SectionID]string{
	SectionSurroundings: "Surroundings",
	SectionGeneralState: "General state",
	SectionEntryHallway: "Entry hallway",
	SectionLivingRoom:   "Living room",
	SectionKitchen:      "Kitchen",
	SectionExterior:     "Exterior",
}

var dynamicZoneLabels = map[SectionID]string{
	SectionBedroom:  "Bedroom",
	SectionBathroom: "Bathroom",
}

// RequiredSections returns the eight required section ids in canonical order.
func RequiredSections() []SectionID {
	out := make([]SectionID, len(requiredSections))
	copy(out, requiredSections)
	return out
}

// IsDynamic reports whether the section repeats per physical instance.
func IsDynamic(id SectionID) bool {
	_, ok := dynamicZoneLabels[id]
	return ok
}

// ZoneTypeFor maps a section id to its zone type (same canonical string).
func ZoneTypeFor(id SectionID) model.ZoneType {
	return model.ZoneType(id)
}

// SectionFor is the inverse of ZoneTypeFor.
func SectionFor(zt model.ZoneType) SectionID {
	return SectionID(zt)
}

// KnownZoneType reports whether zt is one of the eight canonical zone types.
func KnownZoneType(zt model.ZoneType) bool {
	id := SectionFor(zt)
	if _, ok := fixedZoneNames[id]; ok {
		return true
	}
	_, ok := dynamicZoneLabels[id]
	return ok
}

// DynamicZoneName builds the persisted name for one instance of a dynamic
// section, e.g. "Bedroom 2". Index is 1-based.
func DynamicZoneName(id SectionID, index int) string {
	return fmt.Sprintf("%s %d", dynamicZoneLabels[id], index)
}

// Condition is the document-side rating of an element. The store uses a
// different enum; the codec maps between them.
type Condition string

const (
	ConditionGood          Condition = "good"
	ConditionFair          Condition = "fair"
	ConditionBad           Condition = "bad"
	ConditionNotApplicable Condition = "not_applicable"
)

// MediaRef is an opaque reference to an already-uploaded photo or video.
// ContentType is a display convenience inferred from the URI extension on
// load; only the URI is persisted.
type MediaRef struct {
	URI         string `json:"uri"`
	ContentType string `json:"content_type,omitempty"`
}

// UploadSlot is a named pair of media lists within a section. It persists as
// up to two elements, "photos-<id>" and "videos-<id>", each emitted only when
// its list is non-empty.
type UploadSlot struct {
	ID     string     `json:"id"`
	Photos []MediaRef `json:"photos,omitempty"`
	Videos []MediaRef `json:"videos,omitempty"`
}

// Question is a plain condition/notes entry. Its ID doubles as the persisted
// element name, so caller-supplied ids must not collide with the reserved
// prefixes or item types (see ReservedName).
type Question struct {
	ID          string     `json:"id"`
	Condition   *Condition `json:"condition,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	BadElements []string   `json:"bad_elements,omitempty"`
	Photos      []MediaRef `json:"photos,omitempty"`
}

// UnitRecord holds the reported facts for one unit of a quantity group, for
// the single record of a quantity-1 group, or for the furniture detail.
type UnitRecord struct {
	Condition   *Condition `json:"condition,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	BadElements []string   `json:"bad_elements,omitempty"`
	Photos      []MediaRef `json:"photos,omitempty"`
}

// QuantityGroup is a count-bearing item (windows, doors, sockets...).
// Invariants: Single is set only when Quantity == 1; Units is used only when
// Quantity > 1 and then len(Units) == Quantity. GroupID distinguishes several
// groups of the same item type within one section; it may be empty and must
// not end in a purely numeric "-n" token, which is how unit suffixes are
// recognized on load.
type QuantityGroup struct {
	ItemType string       `json:"item_type"`
	GroupID  string       `json:"group_id,omitempty"`
	Quantity int          `json:"quantity"`
	Single   *UnitRecord  `json:"single,omitempty"`
	Units    []UnitRecord `json:"units,omitempty"`
}

// BaseName is the persisted element name of the group's aggregate, and the
// prefix of its per-unit names.
func (g QuantityGroup) BaseName() string {
	if g.GroupID == "" {
		return g.ItemType
	}
	return g.ItemType + "-" + g.GroupID
}

// UnitName returns the persisted name of the 1-based unit index.
func (g QuantityGroup) UnitName(index int) string {
	return fmt.Sprintf("%s-%d", g.BaseName(), index)
}

// FurnitureFlag is the existence flag persisted under the literal element
// name "mobiliario", with an optional detail record persisted as
// "mobiliario-detalle" when the flag is set.
type FurnitureFlag struct {
	Exists bool        `json:"exists"`
	Detail *UnitRecord `json:"detail,omitempty"`
}

// Section holds the constructs of one checklist section. For the two dynamic
// sections only Instances is populated, one sub-section per bedroom or
// bathroom instance; instance sections never nest further.
type Section struct {
	Uploads   []UploadSlot    `json:"uploads,omitempty"`
	Questions []Question      `json:"questions,omitempty"`
	Groups    []QuantityGroup `json:"groups,omitempty"`
	Furniture *FurnitureFlag  `json:"furniture,omitempty"`
	Instances []*Section      `json:"instances,omitempty"`
}

// Document is the UI-authored nested checklist representation, keyed by
// section id. It is client-side state: never persisted directly, always
// rebuilt from rows.
type Document map[SectionID]*Section

// NewDocument returns a skeleton document with all eight sections present and
// one empty instance per bedroom/bathroom the property has. Such a document
// validates as fully unreported.
func NewDocument(facts model.PropertyFacts) Document {
	doc := make(Document, len(requiredSections))
	for _, id := range requiredSections {
		sec := &Section{}
		if IsDynamic(id) {
			n := facts.Bedrooms
			if id == SectionBathroom {
				n = facts.Bathrooms
			}
			for i := 0; i < n; i++ {
				sec.Instances = append(sec.Instances, &Section{})
			}
		}
		doc[id] = sec
	}
	return doc
}

const (
	photosPrefix = "photos-"
	videosPrefix = "videos-"

	furnitureName       = "mobiliario"
	furnitureDetailName = "mobiliario-detalle"
)

// itemTypes are the recognized quantity-group name prefixes. An element whose
// name starts with one of these (followed by nothing, a group id, a unit
// suffix, or both) is decoded back into a quantity group.
var itemTypes = []string{
	"ventanas",
	"puertas",
	"enchufes",
	"radiadores",
	"luces",
	"persianas",
}

// matchItemType returns the item type prefix of name, if any.
func matchItemType(name string) (string, bool) {
	for _, it := range itemTypes {
		if name == it || strings.HasPrefix(name, it+"-") {
			return it, true
		}
	}
	return "", false
}

// ReservedName reports whether name is claimed by a non-question construct.
// Question ids must avoid these to keep the per-zone element names unique.
func ReservedName(name string) bool {
	if strings.HasPrefix(name, photosPrefix) || strings.HasPrefix(name, videosPrefix) {
		return true
	}
	if name == furnitureName || name == furnitureDetailName {
		return true
	}
	_, ok := matchItemType(name)
	return ok
}
