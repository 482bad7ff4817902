package checklist

import (
	"path"
	"strings"
)

// Stored condition values. The backing store predates the English document
// enum, so the two sides differ and are mapped here.
const (
	storedGood          = "bueno"
	storedFair          = "regular"
	storedBad           = "malo"
	storedNotApplicable = "no_aplica"
)

var conditionToStored = map[Condition]string{
	ConditionGood:          storedGood,
	ConditionFair:          storedFair,
	ConditionBad:           storedBad,
	ConditionNotApplicable: storedNotApplicable,
}

var storedToCondition = map[string]Condition{
	storedGood:          ConditionGood,
	storedFair:          ConditionFair,
	storedBad:           ConditionBad,
	storedNotApplicable: ConditionNotApplicable,
}

// ConditionToStorage maps a document condition to its stored value. Nil or
// unknown input maps to nil; composition with ConditionFromStorage is the
// identity on the four valid values.
func ConditionToStorage(c *Condition) *string {
	if c == nil {
		return nil
	}
	s, ok := conditionToStored[*c]
	if !ok {
		return nil
	}
	return &s
}

// ConditionFromStorage is the inverse of ConditionToStorage. Nil or unknown
// stored values map to nil.
func ConditionFromStorage(s *string) *Condition {
	if s == nil {
		return nil
	}
	c, ok := storedToCondition[*s]
	if !ok {
		return nil
	}
	return &c
}

// badElementsMarker is the literal delimiter used to smuggle the bad-elements
// list through the notes column. The store has no list column for it, so the
// list rides as a trailing line and is split back out on load.
const badElementsMarker = "Bad elements: "

// PackBadElements appends the bad-elements line to notes. With an empty list
// the notes pass through unchanged.
func PackBadElements(notes string, badElements []string) string {
	items := make([]string, 0, len(badElements))
	for _, b := range badElements {
		if b = strings.TrimSpace(b); b != "" {
			items = append(items, b)
		}
	}
	if len(items) == 0 {
		return notes
	}
	line := badElementsMarker + strings.Join(items, ", ")
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

// ExtractBadElements returns the list packed after the marker, or nil when
// the marker is absent.
func ExtractBadElements(combined string) []string {
	i := strings.Index(combined, badElementsMarker)
	if i < 0 {
		return nil
	}
	var out []string
	for _, part := range strings.Split(combined[i+len(badElementsMarker):], ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// CleanNotes strips the bad-elements line and trailing whitespace, returning
// nil when nothing remains.
func CleanNotes(combined string) *string {
	s := combined
	if i := strings.Index(s, badElementsMarker); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return nil
	}
	return &s
}

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
}

var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
}

// imageRef wraps a stored URI with a best-effort content type. Unknown
// extensions fall back to a generic image type; this is display metadata only.
func imageRef(uri string) MediaRef {
	ext := strings.ToLower(path.Ext(uri))
	ct, ok := imageContentTypes[ext]
	if !ok {
		ct = "image/jpeg"
	}
	return MediaRef{URI: uri, ContentType: ct}
}

func videoRef(uri string) MediaRef {
	ext := strings.ToLower(path.Ext(uri))
	ct, ok := videoContentTypes[ext]
	if !ok {
		ct = "video/mp4"
	}
	return MediaRef{URI: uri, ContentType: ct}
}

func imageRefs(uris []string) []MediaRef {
	if len(uris) == 0 {
		return nil
	}
	out := make([]MediaRef, len(uris))
	for i, u := range uris {
		out[i] = imageRef(u)
	}
	return out
}

func videoRefs(uris []string) []MediaRef {
	if len(uris) == 0 {
		return nil
	}
	out := make([]MediaRef, len(uris))
	for i, u := range uris {
		out[i] = videoRef(u)
	}
	return out
}

// mediaURIs flattens refs back to the stored URI list.
func mediaURIs(refs []MediaRef) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.URI
	}
	return out
}
