package manifest

// WrapAsMain wraps a bare media playlist into a minimal main document so that
// downstream consumers see a uniform shape regardless of the manifest source.
// uri is the location the media playlist was fetched from; since a bare media
// playlist carries no manifest-level locator of its own, that location also
// serves as the document's base uri. The playlist is reachable at position 0,
// at its id, and at its uri, all three resolving to the same instance; all
// four media-group categories are present and empty.
func WrapAsMain(p *Playlist, uri string) *Document {
	id := MakePlaylistID(0, uri)
	setupPlaylist(p, uri, id)
	p.ResolvedURI = uri

	doc := &Document{
		URI:              uri,
		ResolvedURI:      uri,
		Playlists:        []*Playlist{p},
		Index:            NewPlaylistIndex(),
		MediaGroups:      newMediaGroups(),
		mediaDescriptors: true,
	}
	doc.Index.Insert(0, p)
	return doc
}
