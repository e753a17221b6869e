package manifest

// MediaType identifies one of the four alternate-rendition categories an HLS
// main playlist can declare.
type MediaType string

const (
	MediaTypeAudio          MediaType = "AUDIO"
	MediaTypeVideo          MediaType = "VIDEO"
	MediaTypeSubtitles      MediaType = "SUBTITLES"
	MediaTypeClosedCaptions MediaType = "CLOSED-CAPTIONS"
)

// MediaTypes lists all four categories in their canonical order.
var MediaTypes = []MediaType{MediaTypeAudio, MediaTypeVideo, MediaTypeSubtitles, MediaTypeClosedCaptions}

// MediaGroups maps category -> GROUP-ID -> NAME -> rendition.
type MediaGroups map[MediaType]map[string]map[string]*Rendition

// Part is a partial segment (#EXT-X-PART), available before its parent
// segment completes.
type Part struct {
	URI         string  `json:"uri"`
	Duration    float64 `json:"duration"`
	Independent bool    `json:"independent,omitempty"`
	Gap         bool    `json:"gap,omitempty"`
}

// PreloadHint is an #EXT-X-PRELOAD-HINT entry attached to the segment it
// anticipates.
type PreloadHint struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// Segment is one media segment of a playlist.
type Segment struct {
	URI          string        `json:"uri"`
	Duration     float64       `json:"duration"`
	Title        string        `json:"title,omitempty"`
	Parts        []Part        `json:"parts,omitempty"`
	PreloadHints []PreloadHint `json:"preloadHints,omitempty"`
}

// ServerControl carries the #EXT-X-SERVER-CONTROL delivery directives.
type ServerControl struct {
	CanSkipUntil   float64 `json:"canSkipUntil,omitempty"`
	CanBlockReload bool    `json:"canBlockReload,omitempty"`
	HoldBack       float64 `json:"holdBack,omitempty"`
	PartHoldBack   float64 `json:"partHoldBack,omitempty"`
}

// SkipInfo carries the #EXT-X-SKIP delta-update summary.
type SkipInfo struct {
	SkippedSegments int `json:"skippedSegments"`
}

// RenditionReport is one #EXT-X-RENDITION-REPORT entry.
type RenditionReport struct {
	URI      string `json:"uri"`
	LastMSN  int64  `json:"lastMSN"`
	LastPart int    `json:"lastPart"`
}

// Playlist describes one rendition's segment sequence, or a stream descriptor
// inside a main document before its media playlist has been fetched.
type Playlist struct {
	// URI is the playlist's own locator, relative or absolute. Playlists of
	// formats without a native locator receive a synthetic placeholder during
	// graph resolution.
	URI string `json:"uri"`
	// ResolvedURI is URI resolved against the document's base URI. For
	// synthetic placeholders it equals URI and must never be fed to a
	// URL resolver.
	ResolvedURI string `json:"resolvedUri"`
	// ID is the stable identity derived from position and URI. Once assigned
	// it is never recomputed.
	ID string `json:"id"`
	// Attributes holds the stream-level attribute list (BANDWIDTH, CODECS,
	// RESOLUTION, AUDIO, ...). Non-nil after setup, possibly empty.
	Attributes map[string]string `json:"attributes"`
	Segments   []Segment         `json:"segments,omitempty"`
	// ErrorCount tracks consecutive load failures; owned by downstream
	// loaders, reset to zero at setup.
	ErrorCount int `json:"errorCount"`

	TargetDuration     float64 `json:"targetDuration,omitempty"`
	PartTargetDuration float64 `json:"partTargetDuration,omitempty"`
	EndList            bool    `json:"endList,omitempty"`
}

// Rendition is one alternate audio or subtitle track: either it points at an
// external media playlist via URI, or it embeds its sub-playlists inline.
type Rendition struct {
	URI         string            `json:"uri,omitempty"`
	ResolvedURI string            `json:"resolvedUri,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Language    string            `json:"language,omitempty"`
	Default     bool              `json:"default,omitempty"`
	Autoselect  bool              `json:"autoselect,omitempty"`
	Forced      bool              `json:"forced,omitempty"`
	InstreamID  string            `json:"instreamId,omitempty"`
	// Playlists holds the rendition's nested sub-playlists. Graph resolution
	// synthesizes a one-element sequence here for inline renditions.
	Playlists []*Playlist `json:"playlists,omitempty"`
}

// asPlaylist returns a playlist carrying a shallow copy of the rendition's own
// fields, used when an inline rendition becomes its own one-item sub-playlist
// list.
func (r *Rendition) asPlaylist() *Playlist {
	attrs := make(map[string]string, len(r.Attributes))
	for k, v := range r.Attributes {
		attrs[k] = v
	}
	return &Playlist{
		URI:         r.URI,
		ResolvedURI: r.ResolvedURI,
		Attributes:  attrs,
	}
}

// Document is the root of the playlist graph: a parsed manifest after the
// defaulting pass and graph resolution have run.
//
// A Document is mutated in place by the normalization passes, then treated as
// read-mostly by consumers; it is rebuilt from scratch on every manifest
// refresh.
type Document struct {
	// URI is the document's base location; ResolvedURI its absolute form.
	URI         string `json:"uri"`
	ResolvedURI string `json:"resolvedUri"`
	// TargetDuration is always set after the defaulting pass. Zero means the
	// parser saw no #EXT-X-TARGETDURATION (not a legal HLS value, so zero is
	// safe as the unset marker).
	TargetDuration float64 `json:"targetDuration"`
	// PartTargetDuration is set only when trailing partial segments exist.
	// Zero means unset.
	PartTargetDuration float64 `json:"partTargetDuration,omitempty"`

	// Segments is populated when the source is itself a media playlist
	// rather than a main document.
	Segments []Segment `json:"segments,omitempty"`

	// Playlists is the ordered top-level playlist sequence; Index addresses
	// the same instances by position, id, and uri.
	Playlists   []*Playlist    `json:"playlists"`
	Index       *PlaylistIndex `json:"-"`
	MediaGroups MediaGroups    `json:"mediaGroups,omitempty"`

	// Low-latency extension fields, stripped when LL-HLS is disabled.
	PreloadSegment   *Segment          `json:"preloadSegment,omitempty"`
	Skip             *SkipInfo         `json:"skip,omitempty"`
	ServerControl    *ServerControl    `json:"serverControl,omitempty"`
	RenditionReports []RenditionReport `json:"renditionReports,omitempty"`

	Version             int   `json:"version,omitempty"`
	MediaSequence       int64 `json:"mediaSequence,omitempty"`
	EndList             bool  `json:"endList,omitempty"`
	IndependentSegments bool  `json:"independentSegments,omitempty"`

	mediaDescriptors bool // set by the parser when #EXT-X-STREAM-INF was seen
}

// IsMain reports whether the document is a main playlist (it declared stream
// descriptors) as opposed to a bare media playlist.
func (d *Document) IsMain() bool {
	return d.mediaDescriptors
}

// newMediaGroups returns an empty group mapping with all four categories
// present.
func newMediaGroups() MediaGroups {
	groups := make(MediaGroups, len(MediaTypes))
	for _, mt := range MediaTypes {
		groups[mt] = make(map[string]map[string]*Rendition)
	}
	return groups
}
