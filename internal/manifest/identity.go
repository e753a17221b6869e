package manifest

import "fmt"

// Sink receives warning or informational messages emitted during
// normalization. A nil Sink drops the message. Sinks must tolerate concurrent
// delivery if the host normalizes documents in parallel.
type Sink func(msg string)

func (s Sink) emit(msg string) {
	if s != nil {
		s(msg)
	}
}

// MakePlaylistID builds the stable identity for a playlist at the given index
// within its sequence. The index is scoped to the sequence the playlist
// belongs to (the top-level list, or a rendition's own nested list). The
// result is deterministic and distinct for any differing (index, uri) pair.
//
// Exported for reuse by segment-identity computations.
func MakePlaylistID(index int, uri string) string {
	return fmt.Sprintf("%d-%s", index, uri)
}

// setupPlaylist assigns a playlist's identity and resets its loader state.
// uri is set only when non-empty: playlists nested under a rendition already
// carry the locator their rendition supplied.
func setupPlaylist(p *Playlist, uri, id string) {
	p.ID = id
	p.ErrorCount = 0
	if uri != "" {
		p.URI = uri
	}
	if p.Attributes == nil {
		p.Attributes = map[string]string{}
	}
}

// SetupAllPlaylists visits every top-level playlist of a main document exactly
// once: resolves its uri against the document's base uri, assigns its id,
// registers it in the document's index under position, id, and uri, and warns
// when the mandatory BANDWIDTH attribute is missing. Each assignment is
// independent, so visitation order does not affect the outcome.
func SetupAllPlaylists(doc *Document, resolve Resolver, warn Sink) {
	if doc.Index == nil {
		doc.Index = NewPlaylistIndex()
	}
	for i, p := range doc.Playlists {
		id := MakePlaylistID(i, p.URI)
		p.ResolvedURI = resolve(doc.URI, p.URI)
		setupPlaylist(p, "", id)
		if _, ok := p.Attributes["BANDWIDTH"]; !ok {
			warn.emit(fmt.Sprintf("Invalid playlist STREAM-INF detected. Missing BANDWIDTH attribute (%s)", id))
		}
		doc.Index.Insert(i, p)
	}
}
