package manifest

import (
	"fmt"
	"net/url"
)

// Resolver resolves a relative locator against a base locator. The default is
// ResolveURL.
type Resolver func(base, relative string) string

// ResolveURL resolves relative against base per RFC 3986. Malformed input
// degrades to returning relative unchanged; resolution never aborts a
// normalization pass.
func ResolveURL(base, relative string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return relative
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return relative
	}
	return baseURL.ResolveReference(relURL).String()
}

// GroupIDFunc produces the group-scoped placeholder identity for a rendition
// sub-playlist. Implementations must be pure: the same inputs always yield the
// same id.
type GroupIDFunc func(mediaType MediaType, groupKey, labelKey string, p *Playlist) string

// DefaultGroupID is the default GroupIDFunc. It ignores the sub-playlist and
// derives the id from the rendition coordinates alone.
func DefaultGroupID(mediaType MediaType, groupKey, labelKey string, _ *Playlist) string {
	return fmt.Sprintf("placeholder-uri-%s-%s-%s", mediaType, groupKey, labelKey)
}

// placeholderURI is the synthetic locator for a top-level playlist whose
// format provides no native per-rendition locator.
func placeholderURI(index int) string {
	return fmt.Sprintf("placeholder-uri-%d", index)
}

// ResolveOptions configures graph resolution. The zero value (or a nil
// pointer) selects the defaults.
type ResolveOptions struct {
	// GroupID overrides DefaultGroupID.
	GroupID GroupIDFunc
	// Resolve overrides ResolveURL.
	Resolve Resolver
	// AudioOnly overrides IsAudioOnly as the video-presence predicate.
	AudioOnly func(*Document) bool
	// OnWarn receives diagnostics; may be nil.
	OnWarn Sink
	// UniformGroupLocators disables the legacy locator rule for synthesized
	// rendition sub-playlists. Historically the first sub-playlist of a group
	// took the bare group id as its locator while later ones took the
	// composite playlist id; that asymmetry is kept by default for
	// compatibility with existing consumers of those identifiers. When true,
	// every synthesized sub-playlist takes the composite playlist id.
	UniformGroupLocators bool
}

func (o *ResolveOptions) withDefaults() ResolveOptions {
	opts := ResolveOptions{}
	if o != nil {
		opts = *o
	}
	if opts.GroupID == nil {
		opts.GroupID = DefaultGroupID
	}
	if opts.Resolve == nil {
		opts.Resolve = ResolveURL
	}
	if opts.AudioOnly == nil {
		opts.AudioOnly = IsAudioOnly
	}
	return opts
}

// ResolveGraph normalizes a main document into the fully resolved playlist
// graph: assigns the document's base uri, synthesizes placeholder locators and
// inline rendition sub-playlists, assigns stable ids, registers every playlist
// in the document's index under both id and uri, and resolves every relative
// locator against the base.
//
// ResolveGraph consumes and mutates doc in place and returns nothing; this is
// the contract for the whole resolution family. It raises no errors: malformed
// input degrades via warnings. Resolving an already-resolved document is a
// no-op: placeholders, ids, and locators are only assigned where absent.
func ResolveGraph(doc *Document, uri string, options *ResolveOptions) {
	opts := options.withDefaults()

	doc.URI = uri
	if doc.ResolvedURI == "" {
		doc.ResolvedURI = uri
	}
	if doc.Index == nil {
		doc.Index = NewPlaylistIndex()
	}
	if doc.MediaGroups == nil {
		doc.MediaGroups = newMediaGroups()
	}

	for i, p := range doc.Playlists {
		if p.URI == "" {
			p.URI = placeholderURI(i)
		}
	}

	audioOnly := opts.AudioOnly(doc)

	ForEachMediaGroup(doc, func(r *Rendition, mediaType MediaType, groupKey, labelKey string) {
		if len(r.Playlists) == 0 {
			// An audio rendition of an audio-only stream without its own
			// locator is already represented by a top-level playlist that
			// names its group; it is not a true alternate and gets no
			// sub-playlist of its own.
			if audioOnly && mediaType == MediaTypeAudio && r.URI == "" && hasAudioGroupPlaylist(doc, groupKey) {
				return
			}
			r.Playlists = []*Playlist{r.asPlaylist()}
		}

		for subIndex, p := range r.Playlists {
			groupID := opts.GroupID(mediaType, groupKey, labelKey, p)
			id := MakePlaylistID(subIndex, groupID)
			if p.URI != "" {
				if p.ResolvedURI == "" {
					p.ResolvedURI = opts.Resolve(doc.URI, p.URI)
				}
			} else {
				if subIndex == 0 && !opts.UniformGroupLocators {
					p.URI = groupID
				} else {
					p.URI = id
				}
				// A synthetic placeholder is not resolvable; never run it
				// through the resolver.
				p.ResolvedURI = p.URI
			}
			if p.ID == "" {
				p.ID = id
			}
			if p.Attributes == nil {
				p.Attributes = map[string]string{}
			}
			doc.Index.Link(p)
		}
	})

	SetupAllPlaylists(doc, opts.Resolve, opts.OnWarn)
	resolveMediaGroupURIs(doc, opts.Resolve)
}

// hasAudioGroupPlaylist reports whether any top-level playlist references
// groupKey as its audio group.
func hasAudioGroupPlaylist(doc *Document, groupKey string) bool {
	for _, p := range doc.Playlists {
		if p.Attributes != nil && p.Attributes["AUDIO"] == groupKey {
			return true
		}
	}
	return false
}

// resolveMediaGroupURIs resolves the direct locator of every rendition that
// carries one (rather than nested sub-playlists) against the document's base
// uri.
func resolveMediaGroupURIs(doc *Document, resolve Resolver) {
	ForEachMediaGroup(doc, func(r *Rendition, _ MediaType, _, _ string) {
		if r.URI != "" {
			r.ResolvedURI = resolve(doc.URI, r.URI)
		}
	})
}
