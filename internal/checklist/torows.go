package checklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
)

// ZoneRows is one zone's worth of converter output: the zone row to get or
// create plus the elements to upsert under it. IDs are left empty; the
// persistence layer assigns them.
type ZoneRows struct {
	Zone     model.Zone
	Elements []model.Element
}

// ToRows flattens an authored document into zone and element rows for the
// given inspection. Fixed sections emit exactly one zone; dynamic sections
// emit one zone per instance, named by 1-based position. Element names within
// a zone are guaranteed unique, which the store's (zone_id, element_name)
// upsert key relies on; a document that would break that is rejected.
func ToRows(doc Document, inspectionID string) ([]ZoneRows, error) {
	var out []ZoneRows
	for _, id := range requiredSections {
		sec, ok := doc[id]
		if !ok || sec == nil {
			continue
		}
		if IsDynamic(id) {
			for i, inst := range sec.Instances {
				if inst == nil {
					continue
				}
				if len(inst.Instances) > 0 {
					return nil, fmt.Errorf("section %s instance %d: nested instances are not allowed", id, i+1)
				}
				name := DynamicZoneName(id, i+1)
				els, err := flattenSection(inst, name)
				if err != nil {
					return nil, err
				}
				out = append(out, ZoneRows{
					Zone: model.Zone{
						InspectionID: inspectionID,
						Type:         ZoneTypeFor(id),
						Name:         name,
					},
					Elements: els,
				})
			}
			continue
		}
		name := fixedZoneNames[id]
		els, err := flattenSection(sec, name)
		if err != nil {
			return nil, err
		}
		out = append(out, ZoneRows{
			Zone: model.Zone{
				InspectionID: inspectionID,
				Type:         ZoneTypeFor(id),
				Name:         name,
			},
			Elements: els,
		})
	}
	return out, nil
}

// flattenSection emits the element rows for one zone, walking each construct
// kind in turn. zoneName is only used for error messages.
func flattenSection(sec *Section, zoneName string) ([]model.Element, error) {
	var els []model.Element
	seen := make(map[string]bool)

	add := func(e model.Element) error {
		if seen[e.Name] {
			return fmt.Errorf("zone %q: duplicate element name %q", zoneName, e.Name)
		}
		seen[e.Name] = true
		els = append(els, e)
		return nil
	}

	for _, slot := range sec.Uploads {
		if len(slot.Photos) > 0 {
			if err := add(model.Element{
				Name:      photosPrefix + slot.ID,
				ImageURLs: mediaURIs(slot.Photos),
			}); err != nil {
				return nil, err
			}
		}
		if len(slot.Videos) > 0 {
			if err := add(model.Element{
				Name:      videosPrefix + slot.ID,
				VideoURLs: mediaURIs(slot.Videos),
			}); err != nil {
				return nil, err
			}
		}
	}

	for _, q := range sec.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("zone %q: question with empty id", zoneName)
		}
		if ReservedName(q.ID) {
			return nil, fmt.Errorf("zone %q: question id %q collides with a reserved name", zoneName, q.ID)
		}
		if err := add(model.Element{
			Name:      q.ID,
			Condition: ConditionToStorage(q.Condition),
			Notes:     packedNotes(q.Notes, q.BadElements),
			ImageURLs: mediaURIs(q.Photos),
		}); err != nil {
			return nil, err
		}
	}

	for _, g := range sec.Groups {
		ges, err := expandGroup(g, zoneName)
		if err != nil {
			return nil, err
		}
		for _, e := range ges {
			if err := add(e); err != nil {
				return nil, err
			}
		}
	}

	if f := sec.Furniture; f != nil {
		exists := f.Exists
		if err := add(model.Element{
			Name:   furnitureName,
			Exists: &exists,
		}); err != nil {
			return nil, err
		}
		if f.Exists && f.Detail != nil {
			if err := add(model.Element{
				Name:      furnitureDetailName,
				Condition: ConditionToStorage(f.Detail.Condition),
				Notes:     packedNotes(f.Detail.Notes, f.Detail.BadElements),
				ImageURLs: mediaURIs(f.Detail.Photos),
			}); err != nil {
				return nil, err
			}
		}
	}

	return els, nil
}

// expandGroup applies the quantity expansion rule: zero elements for
// quantity 0, one aggregate element for quantity 1, and exactly quantity
// per-unit elements (no aggregate) for quantity > 1. Units the UI has not
// filled in yet still get a row so the loaded group keeps its size.
func expandGroup(g QuantityGroup, zoneName string) ([]model.Element, error) {
	if _, ok := matchItemType(g.ItemType); !ok || g.ItemType == "" {
		return nil, fmt.Errorf("zone %q: unknown item type %q", zoneName, g.ItemType)
	}
	if g.GroupID != "" {
		tokens := strings.Split(g.GroupID, "-")
		if n, err := strconv.Atoi(tokens[len(tokens)-1]); err == nil && n >= 1 {
			return nil, fmt.Errorf("zone %q: group id %q ends in a numeric token, which the loader reads as a unit suffix", zoneName, g.GroupID)
		}
	}
	if g.Quantity < 0 {
		return nil, fmt.Errorf("zone %q: group %q has negative quantity", zoneName, g.BaseName())
	}

	switch {
	case g.Quantity == 0:
		return nil, nil
	case g.Quantity == 1:
		qty := 1
		e := model.Element{Name: g.BaseName(), Quantity: &qty}
		if u := g.Single; u != nil {
			e.Condition = ConditionToStorage(u.Condition)
			e.Notes = packedNotes(u.Notes, u.BadElements)
			e.ImageURLs = mediaURIs(u.Photos)
		}
		return []model.Element{e}, nil
	default:
		if len(g.Units) > g.Quantity {
			return nil, fmt.Errorf("zone %q: group %q has %d units for quantity %d", zoneName, g.BaseName(), len(g.Units), g.Quantity)
		}
		els := make([]model.Element, 0, g.Quantity)
		for i := 1; i <= g.Quantity; i++ {
			e := model.Element{Name: g.UnitName(i)}
			if i <= len(g.Units) {
				u := g.Units[i-1]
				e.Condition = ConditionToStorage(u.Condition)
				e.Notes = packedNotes(u.Notes, u.BadElements)
				e.ImageURLs = mediaURIs(u.Photos)
			}
			els = append(els, e)
		}
		return els, nil
	}
}

// packedNotes runs the bad-elements codec and returns nil for an empty result
// so empty notes persist as NULL.
func packedNotes(notes string, badElements []string) *string {
	packed := PackBadElements(notes, badElements)
	if packed == "" {
		return nil
	}
	return &packed
}
