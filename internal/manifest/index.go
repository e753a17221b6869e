package manifest

// PlaylistIndex addresses the document's playlists three ways: by position in
// the top-level sequence, by id, and by uri. All three maps resolve to the
// identical *Playlist instance for a given entry; rendition sub-playlists are
// linked by id and uri only and carry no position.
type PlaylistIndex struct {
	byPos map[int]*Playlist
	byID  map[string]*Playlist
	byURI map[string]*Playlist
}

// NewPlaylistIndex returns an empty index.
func NewPlaylistIndex() *PlaylistIndex {
	return &PlaylistIndex{
		byPos: make(map[int]*Playlist),
		byID:  make(map[string]*Playlist),
		byURI: make(map[string]*Playlist),
	}
}

// Insert registers a top-level playlist under its position, id, and uri.
func (ix *PlaylistIndex) Insert(pos int, p *Playlist) {
	ix.byPos[pos] = p
	ix.Link(p)
}

// Link registers a playlist under its id and uri without a position. Used for
// rendition sub-playlists, which live in their rendition's own sequence.
func (ix *PlaylistIndex) Link(p *Playlist) {
	if p.ID != "" {
		ix.byID[p.ID] = p
	}
	if p.URI != "" {
		ix.byURI[p.URI] = p
	}
}

// At returns the playlist registered at the given top-level position.
func (ix *PlaylistIndex) At(pos int) (*Playlist, bool) {
	p, ok := ix.byPos[pos]
	return p, ok
}

// ByID returns the playlist registered under the given id.
func (ix *PlaylistIndex) ByID(id string) (*Playlist, bool) {
	p, ok := ix.byID[id]
	return p, ok
}

// ByURI returns the playlist registered under the given uri.
func (ix *PlaylistIndex) ByURI(uri string) (*Playlist, bool) {
	p, ok := ix.byURI[uri]
	return p, ok
}

// Len returns the number of distinct id entries.
func (ix *PlaylistIndex) Len() int {
	return len(ix.byID)
}
