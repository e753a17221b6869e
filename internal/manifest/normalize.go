package manifest

import (
	"fmt"
	"log/slog"
)

// defaultTargetDuration is the fallback target duration in seconds when a
// manifest declares none and has no segments to derive one from.
const defaultTargetDuration = 10

// NormalizeOptions configures the document defaulting pass.
type NormalizeOptions struct {
	// LLHLS enables the low-latency extension fields. When false, partial
	// segments, preload hints, and the document-level low-latency fields are
	// stripped even if the parser populated them.
	LLHLS bool
	// OnWarn and OnInfo receive diagnostics; either may be nil.
	OnWarn Sink
	OnInfo Sink
	// Log receives elevated diagnostics about non-compliant streams; may be
	// nil.
	Log *slog.Logger
}

// NormalizeDocument applies the defaulting pass to a freshly parsed document:
// strips low-latency fields when disabled and backfills the mandatory but
// sometimes absent duration fields. The document is mutated in place and
// returned. Anomalies degrade to warnings; the pass never aborts.
func NormalizeDocument(doc *Document, opts NormalizeOptions) *Document {
	if !opts.LLHLS {
		if stripLowLatency(doc) {
			opts.OnInfo.emit("low-latency HLS fields removed from manifest (LL-HLS disabled)")
		}
	}

	if doc.TargetDuration == 0 {
		targetDuration := float64(defaultTargetDuration)
		if max := maxSegmentDuration(doc.Segments); max > 0 {
			targetDuration = max
		}
		opts.OnWarn.emit(fmt.Sprintf("manifest has no targetDuration defaulting to %g", targetDuration))
		doc.TargetDuration = targetDuration
	}

	parts := lastParts(doc.Segments)
	if len(parts) > 0 && doc.PartTargetDuration == 0 {
		partTargetDuration := 0.0
		for _, part := range parts {
			if part.Duration > partTargetDuration {
				partTargetDuration = part.Duration
			}
		}
		opts.OnWarn.emit(fmt.Sprintf("manifest has no partTargetDuration defaulting to %g", partTargetDuration))
		if opts.Log != nil {
			opts.Log.Error("LL-HLS manifest has parts but lacks required #EXT-X-PART-INF:PART-TARGET value. See https://datatracker.ietf.org/doc/html/draft-pantos-hls-rfc8216bis-09#section-4.4.3.7. Playback is not guaranteed.")
		}
		doc.PartTargetDuration = partTargetDuration
	}

	return doc
}

// stripLowLatency removes every low-latency extension field from the document
// and from each segment, including segments nested under top-level playlists.
// It reports whether anything was removed.
func stripLowLatency(doc *Document) bool {
	removed := doc.PreloadSegment != nil || doc.Skip != nil ||
		doc.ServerControl != nil || doc.RenditionReports != nil ||
		doc.PartTargetDuration != 0

	doc.PreloadSegment = nil
	doc.Skip = nil
	doc.ServerControl = nil
	doc.RenditionReports = nil
	doc.PartTargetDuration = 0

	removed = stripSegments(doc.Segments) || removed
	for _, p := range doc.Playlists {
		removed = removed || p.PartTargetDuration != 0
		p.PartTargetDuration = 0
		removed = stripSegments(p.Segments) || removed
	}
	return removed
}

func stripSegments(segments []Segment) bool {
	removed := false
	for i := range segments {
		if segments[i].Parts != nil || segments[i].PreloadHints != nil {
			removed = true
		}
		segments[i].Parts = nil
		segments[i].PreloadHints = nil
	}
	return removed
}

// maxSegmentDuration returns the largest segment duration, or 0 when segments
// is empty.
func maxSegmentDuration(segments []Segment) float64 {
	max := 0.0
	for _, seg := range segments {
		if seg.Duration > max {
			max = seg.Duration
		}
	}
	return max
}

// lastParts collects the partial segments of the trailing contiguous run of
// segments that carry them. Earlier segments whose parts have already been
// superseded by full segments are excluded: the part target derives from the
// live edge only.
func lastParts(segments []Segment) []Part {
	start := len(segments)
	for start > 0 && len(segments[start-1].Parts) > 0 {
		start--
	}
	if start == len(segments) {
		return nil
	}
	var parts []Part
	for _, seg := range segments[start:] {
		parts = append(parts, seg.Parts...)
	}
	return parts
}
