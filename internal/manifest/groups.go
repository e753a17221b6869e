package manifest

import "sort"

// walkedTypes are the categories that carry alternate sub-playlists. VIDEO and
// CLOSED-CAPTIONS renditions have no media playlists of their own in this
// model, so the walker skips them.
var walkedTypes = []MediaType{MediaTypeAudio, MediaTypeSubtitles}

// ForEachMediaGroup invokes visit for every rendition in the document's AUDIO
// and SUBTITLES media groups. Categories are visited in a fixed order and
// group/label keys in sorted order, so that any identifiers generated from the
// walk are deterministic. A document without media groups is a no-op.
func ForEachMediaGroup(doc *Document, visit func(r *Rendition, mediaType MediaType, groupKey, labelKey string)) {
	if doc == nil || doc.MediaGroups == nil {
		return
	}
	for _, mt := range walkedTypes {
		groups := doc.MediaGroups[mt]
		for _, groupKey := range sortedKeys(groups) {
			labels := groups[groupKey]
			for _, labelKey := range sortedKeys(labels) {
				visit(labels[labelKey], mt, groupKey, labelKey)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
