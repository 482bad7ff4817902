package checklist

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
)

// FromRows rebuilds a document from one inspection's zones and elements.
// elementsByZone is keyed by zone id. The result always carries all eight
// sections, with dynamic sections sized to the property facts even when no
// rows exist yet for some instances.
func FromRows(zones []model.Zone, elementsByZone map[string][]model.Element, facts model.PropertyFacts) (Document, error) {
	doc := NewDocument(facts)

	dynamic := make(map[SectionID]map[int]*Section)
	fixedSeen := make(map[SectionID]string)

	for _, z := range zones {
		id := SectionFor(z.Type)
		if _, required := doc[id]; !required {
			return nil, fmt.Errorf("zone %q: unknown zone type %q", z.Name, z.Type)
		}
		sec, err := sectionFromElements(elementsByZone[z.ID], z.Name)
		if err != nil {
			return nil, err
		}
		if !IsDynamic(id) {
			if prev, dup := fixedSeen[id]; dup {
				return nil, fmt.Errorf("zone %q: type %q already carried by zone %q", z.Name, z.Type, prev)
			}
			fixedSeen[id] = z.Name
			doc[id] = sec
			continue
		}
		idx, err := InstanceIndex(z.Name)
		if err != nil {
			return nil, err
		}
		if dynamic[id] == nil {
			dynamic[id] = make(map[int]*Section)
		}
		if dynamic[id][idx] != nil {
			return nil, fmt.Errorf("zone %q: duplicate instance index %d", z.Name, idx)
		}
		dynamic[id][idx] = sec
	}

	for id, byIndex := range dynamic {
		// Instance indices must be contiguous from 1; a gap means a zone
		// went missing and the positional rebuild would silently shift data.
		for i := 1; i <= len(byIndex); i++ {
			if byIndex[i] == nil {
				return nil, fmt.Errorf("section %s: missing instance %d of %d", id, i, len(byIndex))
			}
		}
		sec := doc[id]
		for len(sec.Instances) < len(byIndex) {
			sec.Instances = append(sec.Instances, &Section{})
		}
		for i := 1; i <= len(byIndex); i++ {
			sec.Instances[i-1] = byIndex[i]
		}
	}

	return doc, nil
}

// InstanceIndex parses the 1-based index off a dynamic zone name like
// "Bedroom 2".
func InstanceIndex(zoneName string) (int, error) {
	i := strings.LastIndex(zoneName, " ")
	if i >= 0 {
		if n, err := strconv.Atoi(zoneName[i+1:]); err == nil && n >= 1 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("zone %q: no instance index in name", zoneName)
}

// groupAccum collects the rows of one quantity group while its elements are
// being classified.
type groupAccum struct {
	itemType  string
	groupID   string
	units     map[int]UnitRecord
	aggregate *UnitRecord
}

// sectionFromElements reverses flattenSection for one zone. Unordered
// collections come back sorted by id so rebuilds are deterministic.
func sectionFromElements(els []model.Element, zoneName string) (*Section, error) {
	sec := &Section{}
	slots := make(map[string]*UploadSlot)
	groups := make(map[string]*groupAccum)

	slot := func(id string) *UploadSlot {
		s, ok := slots[id]
		if !ok {
			s = &UploadSlot{ID: id}
			slots[id] = s
		}
		return s
	}

	for _, e := range els {
		switch {
		case strings.HasPrefix(e.Name, photosPrefix):
			slot(strings.TrimPrefix(e.Name, photosPrefix)).Photos = imageRefs(e.ImageURLs)

		case strings.HasPrefix(e.Name, videosPrefix):
			slot(strings.TrimPrefix(e.Name, videosPrefix)).Videos = videoRefs(e.VideoURLs)

		case e.Name == furnitureName:
			exists := e.Exists != nil && *e.Exists
			if sec.Furniture == nil {
				sec.Furniture = &FurnitureFlag{}
			}
			sec.Furniture.Exists = exists

		case e.Name == furnitureDetailName:
			if sec.Furniture == nil {
				sec.Furniture = &FurnitureFlag{}
			}
			detail := unitRecordFrom(e)
			sec.Furniture.Detail = &detail

		default:
			if it, ok := matchItemType(e.Name); ok {
				if err := accumulateGroupRow(groups, it, e); err != nil {
					return nil, fmt.Errorf("zone %q: %w", zoneName, err)
				}
				continue
			}
			q := Question{ID: e.Name, Photos: imageRefs(e.ImageURLs)}
			q.Condition = ConditionFromStorage(e.Condition)
			q.Notes, q.BadElements = splitNotes(e.Notes)
			sec.Questions = append(sec.Questions, q)
		}
	}

	for id := range slots {
		sec.Uploads = append(sec.Uploads, *slots[id])
	}
	sort.Slice(sec.Uploads, func(i, j int) bool { return sec.Uploads[i].ID < sec.Uploads[j].ID })
	sort.Slice(sec.Questions, func(i, j int) bool { return sec.Questions[i].ID < sec.Questions[j].ID })

	for base, acc := range groups {
		g, err := acc.build()
		if err != nil {
			return nil, fmt.Errorf("zone %q: group %q: %w", zoneName, base, err)
		}
		sec.Groups = append(sec.Groups, g)
	}
	sort.Slice(sec.Groups, func(i, j int) bool { return sec.Groups[i].BaseName() < sec.Groups[j].BaseName() })

	return sec, nil
}

// accumulateGroupRow files one group element under its base name. A trailing
// numeric token is a 1-based unit index; anything else belongs to the group
// id.
func accumulateGroupRow(groups map[string]*groupAccum, itemType string, e model.Element) error {
	groupID := ""
	unit := 0

	rest := strings.TrimPrefix(e.Name, itemType)
	if rest != "" {
		rest = strings.TrimPrefix(rest, "-")
		tokens := strings.Split(rest, "-")
		last := tokens[len(tokens)-1]
		if n, err := strconv.Atoi(last); err == nil && n >= 1 {
			unit = n
			groupID = strings.Join(tokens[:len(tokens)-1], "-")
		} else {
			groupID = rest
		}
	}

	base := itemType
	if groupID != "" {
		base = itemType + "-" + groupID
	}
	acc, ok := groups[base]
	if !ok {
		acc = &groupAccum{itemType: itemType, groupID: groupID, units: make(map[int]UnitRecord)}
		groups[base] = acc
	}

	rec := unitRecordFrom(e)
	if unit > 0 {
		if _, dup := acc.units[unit]; dup {
			return fmt.Errorf("duplicate unit %d for group %q", unit, base)
		}
		acc.units[unit] = rec
		return nil
	}
	if acc.aggregate != nil {
		return fmt.Errorf("duplicate aggregate row for group %q", base)
	}
	acc.aggregate = &rec
	return nil
}

func (a *groupAccum) build() (QuantityGroup, error) {
	g := QuantityGroup{ItemType: a.itemType, GroupID: a.groupID}

	if len(a.units) > 0 {
		if a.aggregate != nil {
			return g, fmt.Errorf("has both aggregate and unit rows")
		}
		max := 0
		for idx := range a.units {
			if idx > max {
				max = idx
			}
		}
		g.Quantity = max
		g.Units = make([]UnitRecord, max)
		for idx, rec := range a.units {
			g.Units[idx-1] = rec
		}
		return g, nil
	}

	g.Quantity = 1
	g.Single = a.aggregate
	return g, nil
}

// unitRecordFrom decodes one element's condition/notes/photos, splitting the
// packed bad-elements list back out of the notes.
func unitRecordFrom(e model.Element) UnitRecord {
	u := UnitRecord{Photos: imageRefs(e.ImageURLs)}
	u.Condition = ConditionFromStorage(e.Condition)
	u.Notes, u.BadElements = splitNotes(e.Notes)
	return u
}

func splitNotes(stored *string) (string, []string) {
	if stored == nil {
		return "", nil
	}
	notes := ""
	if clean := CleanNotes(*stored); clean != nil {
		notes = *clean
	}
	return notes, ExtractBadElements(*stored)
}
