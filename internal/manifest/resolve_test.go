package manifest

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestResolveGraph_sets_base_uri_and_registers(t *testing.T) {
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "low.m3u8", Attributes: map[string]string{"BANDWIDTH": "240000"}},
			{URI: "high.m3u8", Attributes: map[string]string{"BANDWIDTH": "640000"}},
		},
	}

	ResolveGraph(doc, "http://example.com/main.m3u8", nil)

	if doc.URI != "http://example.com/main.m3u8" {
		t.Errorf("document uri not set: %q", doc.URI)
	}
	p, ok := doc.Index.ByID("1-high.m3u8")
	if !ok {
		t.Fatal("expected playlist registered by id")
	}
	if p.ResolvedURI != "http://example.com/high.m3u8" {
		t.Errorf("expected resolved uri, got %q", p.ResolvedURI)
	}
	if byURI, _ := doc.Index.ByURI("high.m3u8"); byURI != p {
		t.Error("id and uri keys must resolve to the same instance")
	}
}

func TestResolveGraph_placeholder_for_missing_uri(t *testing.T) {
	doc := &Document{
		Playlists: []*Playlist{
			{Attributes: map[string]string{"BANDWIDTH": "240000"}},
			{Attributes: map[string]string{"BANDWIDTH": "640000"}},
		},
	}

	ResolveGraph(doc, "http://example.com/main.mpd", nil)

	if doc.Playlists[0].URI != "placeholder-uri-0" {
		t.Errorf("expected placeholder-uri-0, got %q", doc.Playlists[0].URI)
	}
	if doc.Playlists[1].URI != "placeholder-uri-1" {
		t.Errorf("expected placeholder-uri-1, got %q", doc.Playlists[1].URI)
	}
	if _, ok := doc.Index.ByURI("placeholder-uri-0"); !ok {
		t.Error("placeholder uri must be registered")
	}
}

func TestResolveGraph_synthesizes_inline_rendition_playlist(t *testing.T) {
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "video.m3u8", Attributes: map[string]string{"BANDWIDTH": "640000", "RESOLUTION": "1280x720"}},
		},
		MediaGroups: MediaGroups{
			MediaTypeAudio: {
				"aud1": {
					"English": &Rendition{Attributes: map[string]string{"GROUP-ID": "aud1", "NAME": "English"}},
				},
			},
		},
	}

	ResolveGraph(doc, "http://example.com/main.m3u8", nil)

	r := doc.MediaGroups[MediaTypeAudio]["aud1"]["English"]
	if len(r.Playlists) != 1 {
		t.Fatalf("expected one synthesized sub-playlist, got %d", len(r.Playlists))
	}
	sub := r.Playlists[0]
	groupID := "placeholder-uri-AUDIO-aud1-English"
	if sub.URI != groupID {
		t.Errorf("first sub-playlist takes the group id as uri, got %q", sub.URI)
	}
	if sub.ResolvedURI != groupID {
		t.Errorf("placeholder must not be resolved, got %q", sub.ResolvedURI)
	}
	if sub.ID != "0-"+groupID {
		t.Errorf("unexpected sub-playlist id %q", sub.ID)
	}
	if byID, _ := doc.Index.ByID(sub.ID); byID != sub {
		t.Error("sub-playlist must be registered by id")
	}
	if byURI, _ := doc.Index.ByURI(sub.URI); byURI != sub {
		t.Error("sub-playlist must be registered by uri")
	}
}

func TestResolveGraph_legacy_locator_asymmetry(t *testing.T) {
	r := &Rendition{
		Playlists: []*Playlist{{}, {}},
	}
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "video.m3u8", Attributes: map[string]string{"BANDWIDTH": "640000", "RESOLUTION": "1280x720"}},
		},
		MediaGroups: MediaGroups{
			MediaTypeAudio: {"aud1": {"English": r}},
		},
	}

	ResolveGraph(doc, "http://example.com/main.m3u8", nil)

	groupID := "placeholder-uri-AUDIO-aud1-English"
	if r.Playlists[0].URI != groupID {
		t.Errorf("index 0 takes the group id, got %q", r.Playlists[0].URI)
	}
	if r.Playlists[1].URI != "1-"+groupID {
		t.Errorf("index 1 takes the composite id, got %q", r.Playlists[1].URI)
	}
	for _, sub := range r.Playlists {
		if sub.ResolvedURI != sub.URI {
			t.Errorf("synthetic locators must not be resolved: %q vs %q", sub.ResolvedURI, sub.URI)
		}
	}
}

func TestResolveGraph_uniform_group_locators(t *testing.T) {
	r := &Rendition{
		Playlists: []*Playlist{{}, {}},
	}
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "video.m3u8", Attributes: map[string]string{"BANDWIDTH": "640000", "RESOLUTION": "1280x720"}},
		},
		MediaGroups: MediaGroups{
			MediaTypeAudio: {"aud1": {"English": r}},
		},
	}

	ResolveGraph(doc, "http://example.com/main.m3u8", &ResolveOptions{UniformGroupLocators: true})

	groupID := "placeholder-uri-AUDIO-aud1-English"
	if r.Playlists[0].URI != "0-"+groupID {
		t.Errorf("uniform mode assigns the composite id at index 0 too, got %q", r.Playlists[0].URI)
	}
	if r.Playlists[1].URI != "1-"+groupID {
		t.Errorf("unexpected uri at index 1: %q", r.Playlists[1].URI)
	}
}

func TestResolveGraph_audio_only_suppression(t *testing.T) {
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "audio-main.m3u8", Attributes: map[string]string{"BANDWIDTH": "96000", "CODECS": "mp4a.40.2", "AUDIO": "grp"}},
		},
		MediaGroups: MediaGroups{
			MediaTypeAudio: {
				"grp": {"label": &Rendition{Attributes: map[string]string{"GROUP-ID": "grp", "NAME": "label"}}},
			},
		},
	}

	ResolveGraph(doc, "http://example.com/main.m3u8", nil)

	r := doc.MediaGroups[MediaTypeAudio]["grp"]["label"]
	if len(r.Playlists) != 0 {
		t.Errorf("audio rendition already represented at top level must not gain sub-playlists, got %d", len(r.Playlists))
	}
}

func TestResolveGraph_audio_only_no_suppression_with_own_uri(t *testing.T) {
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "audio-main.m3u8", Attributes: map[string]string{"BANDWIDTH": "96000", "CODECS": "mp4a.40.2", "AUDIO": "grp"}},
		},
		MediaGroups: MediaGroups{
			MediaTypeAudio: {
				"grp": {"label": &Rendition{URI: "alt.m3u8", Attributes: map[string]string{"GROUP-ID": "grp", "NAME": "label"}}},
			},
		},
	}

	ResolveGraph(doc, "http://example.com/main.m3u8", nil)

	r := doc.MediaGroups[MediaTypeAudio]["grp"]["label"]
	if len(r.Playlists) != 1 {
		t.Fatalf("rendition with its own uri is a true alternate, expected synthesis, got %d", len(r.Playlists))
	}
	if r.Playlists[0].ResolvedURI != "http://example.com/alt.m3u8" {
		t.Errorf("sub-playlist with a real uri resolves against base, got %q", r.Playlists[0].ResolvedURI)
	}
	if r.ResolvedURI != "http://example.com/alt.m3u8" {
		t.Errorf("rendition's direct uri resolves against base, got %q", r.ResolvedURI)
	}
}

func TestResolveGraph_no_suppression_when_group_not_referenced(t *testing.T) {
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "audio-main.m3u8", Attributes: map[string]string{"BANDWIDTH": "96000", "CODECS": "mp4a.40.2", "AUDIO": "other"}},
		},
		MediaGroups: MediaGroups{
			MediaTypeAudio: {
				"grp": {"label": &Rendition{Attributes: map[string]string{"GROUP-ID": "grp", "NAME": "label"}}},
			},
		},
	}

	ResolveGraph(doc, "http://example.com/main.m3u8", nil)

	r := doc.MediaGroups[MediaTypeAudio]["grp"]["label"]
	if len(r.Playlists) != 1 {
		t.Errorf("unreferenced group must still be synthesized, got %d sub-playlists", len(r.Playlists))
	}
}

func TestResolveGraph_custom_group_id(t *testing.T) {
	doc := &Document{
		Playlists: []*Playlist{
			{URI: "video.m3u8", Attributes: map[string]string{"BANDWIDTH": "640000", "RESOLUTION": "1280x720"}},
		},
		MediaGroups: MediaGroups{
			MediaTypeSubtitles: {
				"subs": {"German": &Rendition{Attributes: map[string]string{"GROUP-ID": "subs", "NAME": "German"}}},
			},
		},
	}

	groupID := func(mt MediaType, group, label string, _ *Playlist) string {
		return "custom-" + string(mt) + "-" + group + "-" + label
	}
	ResolveGraph(doc, "http://example.com/main.m3u8", &ResolveOptions{GroupID: groupID})

	sub := doc.MediaGroups[MediaTypeSubtitles]["subs"]["German"].Playlists[0]
	if sub.URI != "custom-SUBTITLES-subs-German" {
		t.Errorf("custom group id function not applied: %q", sub.URI)
	}
}

func TestResolveGraph_idempotent(t *testing.T) {
	build := func() *Document {
		return &Document{
			Playlists: []*Playlist{
				{Attributes: map[string]string{"BANDWIDTH": "240000"}},
				{URI: "high.m3u8", Attributes: map[string]string{"BANDWIDTH": "640000", "RESOLUTION": "1280x720"}},
			},
			MediaGroups: MediaGroups{
				MediaTypeAudio: {
					"aud1": {"English": &Rendition{Attributes: map[string]string{"GROUP-ID": "aud1", "NAME": "English"}}},
				},
			},
		}
	}

	once := build()
	ResolveGraph(once, "http://example.com/main.m3u8", nil)
	twice := build()
	ResolveGraph(twice, "http://example.com/main.m3u8", nil)
	ResolveGraph(twice, "http://example.com/main.m3u8", nil)

	onceJSON, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	twiceJSON, err := json.Marshal(twice)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !reflect.DeepEqual(onceJSON, twiceJSON) {
		t.Errorf("resolving twice must not change the graph:\nonce:  %s\ntwice: %s", onceJSON, twiceJSON)
	}

	r := twice.MediaGroups[MediaTypeAudio]["aud1"]["English"]
	if len(r.Playlists) != 1 {
		t.Errorf("second resolve must not regenerate sub-playlists, got %d", len(r.Playlists))
	}
}

func TestResolveGraph_never_errors_on_sparse_input(t *testing.T) {
	doc := &Document{Playlists: []*Playlist{{}}}
	ResolveGraph(doc, "http://example.com/main.m3u8", nil) // must not panic

	if doc.Playlists[0].URI != "placeholder-uri-0" {
		t.Errorf("expected placeholder, got %q", doc.Playlists[0].URI)
	}
	if doc.Playlists[0].Attributes == nil {
		t.Error("attributes must exist after resolution")
	}
}

func TestDefaultGroupID(t *testing.T) {
	got := DefaultGroupID(MediaTypeAudio, "aud1", "English", nil)
	if got != "placeholder-uri-AUDIO-aud1-English" {
		t.Errorf("unexpected default group id: %q", got)
	}
	if DefaultGroupID(MediaTypeAudio, "aud1", "English", &Playlist{URI: "x"}) != got {
		t.Error("default group id must ignore the sub-playlist")
	}
}

func TestResolveURL(t *testing.T) {
	cases := []struct {
		base, rel, want string
	}{
		{"http://example.com/path/main.m3u8", "low.m3u8", "http://example.com/path/low.m3u8"},
		{"http://example.com/path/main.m3u8", "/abs/low.m3u8", "http://example.com/abs/low.m3u8"},
		{"http://example.com/path/main.m3u8", "http://cdn.example.com/low.m3u8", "http://cdn.example.com/low.m3u8"},
		{"http://example.com/path/main.m3u8", "../other/low.m3u8", "http://example.com/other/low.m3u8"},
	}
	for _, c := range cases {
		if got := ResolveURL(c.base, c.rel); got != c.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", c.base, c.rel, got, c.want)
		}
	}
}
