package checklist

// UnitReported reports whether a unit record carries any reported fact.
func UnitReported(u UnitRecord) bool {
	return u.Condition != nil || u.Notes != "" || len(u.BadElements) > 0 || len(u.Photos) > 0
}

// QuestionReported reports whether a question carries any reported fact.
func QuestionReported(q Question) bool {
	return q.Condition != nil || q.Notes != "" || len(q.BadElements) > 0 || len(q.Photos) > 0
}

// SlotReported reports whether an upload slot has at least one photo or video.
func SlotReported(s UploadSlot) bool {
	return len(s.Photos) > 0 || len(s.Videos) > 0
}

// GroupReported applies the per-quantity rule: a zero-quantity group has
// nothing to report, a single group needs its record reported, and a
// multi-unit group needs every unit independently reported.
func GroupReported(g QuantityGroup) bool {
	switch {
	case g.Quantity <= 0:
		return true
	case g.Quantity == 1:
		return g.Single != nil && UnitReported(*g.Single)
	default:
		if len(g.Units) < g.Quantity {
			return false
		}
		for _, u := range g.Units {
			if !UnitReported(u) {
				return false
			}
		}
		return true
	}
}

// SectionFullyReported recursively decides whether every required construct
// in the section has been reported. Absent constructs are vacuously
// satisfied. The furniture flag itself needs no reporting beyond being set;
// only a detail attached to a set flag must be reported.
func SectionFullyReported(sec *Section) bool {
	if sec == nil {
		return false
	}
	for _, s := range sec.Uploads {
		if !SlotReported(s) {
			return false
		}
	}
	for _, q := range sec.Questions {
		if !QuestionReported(q) {
			return false
		}
	}
	for _, g := range sec.Groups {
		if !GroupReported(g) {
			return false
		}
	}
	if f := sec.Furniture; f != nil && f.Exists && f.Detail != nil {
		if !UnitReported(*f.Detail) {
			return false
		}
	}
	for _, inst := range sec.Instances {
		if !SectionFullyReported(inst) {
			return false
		}
	}
	// An empty section has nothing reported at all.
	if len(sec.Uploads) == 0 && len(sec.Questions) == 0 && len(sec.Groups) == 0 &&
		sec.Furniture == nil && len(sec.Instances) == 0 {
		return false
	}
	return true
}

// AllSectionsReported is the completeness gate: all eight required sections
// present and fully reported. Pure; never touches the store.
func AllSectionsReported(doc Document) bool {
	return len(UnreportedSections(doc)) == 0
}

// UnreportedSections returns the required section ids that fail the section
// predicate, in canonical order, for UI surfacing.
func UnreportedSections(doc Document) []SectionID {
	var out []SectionID
	for _, id := range requiredSections {
		if !SectionFullyReported(doc[id]) {
			out = append(out, id)
		}
	}
	return out
}
