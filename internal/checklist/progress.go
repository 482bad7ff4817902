package checklist

// Progress is a reported/total ratio for progress bars. A section with
// nothing to fill in counts as done.
type Progress struct {
	Reported int     `json:"reported"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
}

func makeProgress(reported, total int) Progress {
	p := Progress{Reported: reported, Total: total, Percent: 100}
	if total > 0 {
		p.Percent = float64(reported) / float64(total) * 100
	}
	return p
}

// sectionCounts tallies the leaf report units of one section: one per upload
// slot, question, group record or unit, furniture detail, and everything
// inside dynamic instances.
func sectionCounts(sec *Section) (reported, total int) {
	if sec == nil {
		return 0, 0
	}
	for _, s := range sec.Uploads {
		total++
		if SlotReported(s) {
			reported++
		}
	}
	for _, q := range sec.Questions {
		total++
		if QuestionReported(q) {
			reported++
		}
	}
	for _, g := range sec.Groups {
		switch {
		case g.Quantity <= 0:
		case g.Quantity == 1:
			total++
			if g.Single != nil && UnitReported(*g.Single) {
				reported++
			}
		default:
			total += g.Quantity
			for _, u := range g.Units {
				if UnitReported(u) {
					reported++
				}
			}
		}
	}
	if f := sec.Furniture; f != nil && f.Exists && f.Detail != nil {
		total++
		if UnitReported(*f.Detail) {
			reported++
		}
	}
	for _, inst := range sec.Instances {
		r, t := sectionCounts(inst)
		reported += r
		total += t
	}
	return reported, total
}

// SectionProgress returns the completion ratio of each required section.
func SectionProgress(doc Document) map[SectionID]Progress {
	out := make(map[SectionID]Progress, len(requiredSections))
	for _, id := range requiredSections {
		r, t := sectionCounts(doc[id])
		out[id] = makeProgress(r, t)
	}
	return out
}

// OverallProgress aggregates the ratio across all required sections.
func OverallProgress(doc Document) Progress {
	var reported, total int
	for _, id := range requiredSections {
		r, t := sectionCounts(doc[id])
		reported += r
		total += t
	}
	return makeProgress(reported, total)
}
