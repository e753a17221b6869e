package manifest

import (
	"errors"
	"testing"
)

func TestNormalizer_main_document(t *testing.T) {
	var warnings []string
	n := NewNormalizer(true, nil, func(msg string) { warnings = append(warnings, msg) }, nil)

	doc, err := n.NormalizeManifest(mainManifest, "http://example.com/main.m3u8")
	if err != nil {
		t.Fatalf("NormalizeManifest: %v", err)
	}

	if !doc.IsMain() {
		t.Error("expected main document")
	}
	if doc.URI != "http://example.com/main.m3u8" {
		t.Errorf("base uri = %q", doc.URI)
	}
	p, ok := doc.Index.ByID("0-hi/video.m3u8")
	if !ok {
		t.Fatal("expected playlist registered by id")
	}
	if p.ResolvedURI != "http://example.com/hi/video.m3u8" {
		t.Errorf("resolved uri = %q", p.ResolvedURI)
	}
	r := doc.MediaGroups[MediaTypeAudio]["aud1"]["English"]
	if r.ResolvedURI != "http://example.com/audio/en.m3u8" {
		t.Errorf("rendition resolved uri = %q", r.ResolvedURI)
	}
	// A main document has no segments, so the defaulting pass warns once
	// about the missing target duration.
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if doc.TargetDuration != 10 {
		t.Errorf("targetDuration = %g", doc.TargetDuration)
	}
}

func TestNormalizer_media_playlist_wrapped(t *testing.T) {
	n := NewNormalizer(true, nil, nil, nil)

	doc, err := n.NormalizeManifest(mediaManifest, "http://x/a.m3u8")
	if err != nil {
		t.Fatalf("NormalizeManifest: %v", err)
	}

	if len(doc.Playlists) != 1 {
		t.Fatalf("expected 1 playlist, got %d", len(doc.Playlists))
	}
	p := doc.Playlists[0]
	if p.ID != "0-http://x/a.m3u8" {
		t.Errorf("id = %q", p.ID)
	}
	if len(p.Segments) != 2 {
		t.Errorf("wrapped playlist must carry the segments, got %d", len(p.Segments))
	}
	if doc.TargetDuration != 6 {
		t.Errorf("wrapped document keeps the media target duration, got %g", doc.TargetDuration)
	}
	byURI, _ := doc.Index.ByURI("http://x/a.m3u8")
	if byURI != p {
		t.Error("wrapped playlist must be reachable by uri")
	}
}

func TestNormalizer_llhls_disabled(t *testing.T) {
	n := NewNormalizer(false, nil, nil, nil)

	doc, err := n.NormalizeManifest(llhlsManifest, "http://x/ll.m3u8")
	if err != nil {
		t.Fatalf("NormalizeManifest: %v", err)
	}

	if doc.PartTargetDuration != 0 {
		t.Errorf("partTargetDuration must be stripped, got %g", doc.PartTargetDuration)
	}
	for _, p := range doc.Playlists {
		for _, seg := range p.Segments {
			if seg.Parts != nil || seg.PreloadHints != nil {
				t.Error("parts must be stripped everywhere")
			}
		}
	}
}

func TestNormalizer_llhls_enabled_defaults_part_target(t *testing.T) {
	// Same LL-HLS stream but without #EXT-X-PART-INF: the pass must backfill
	// from the trailing parts and warn.
	src := `#EXTM3U
#EXT-X-TARGETDURATION:4
#EXTINF:4.000,
seg100.ts
#EXT-X-PART:DURATION=1.000,URI="seg101.0.ts"
#EXT-X-PART:DURATION=1.020,URI="seg101.1.ts"
#EXTINF:4.000,
seg101.ts
`
	var warnings []string
	n := NewNormalizer(true, nil, func(msg string) { warnings = append(warnings, msg) }, nil)

	doc, err := n.NormalizeManifest(src, "http://x/ll.m3u8")
	if err != nil {
		t.Fatalf("NormalizeManifest: %v", err)
	}
	if doc.PartTargetDuration != 1.02 {
		t.Errorf("partTargetDuration = %g, want 1.02", doc.PartTargetDuration)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
}

func TestNormalizer_not_m3u8(t *testing.T) {
	n := NewNormalizer(true, nil, nil, nil)
	if _, err := n.NormalizeManifest("plain text", "http://x/a.m3u8"); !errors.Is(err, ErrNotM3U8) {
		t.Errorf("expected ErrNotM3U8, got %v", err)
	}
}
