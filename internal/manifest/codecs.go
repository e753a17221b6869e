package manifest

import "strings"

// videoCodecPrefixes covers the codec families that carry video in a CODECS
// attribute.
var videoCodecPrefixes = []string{
	"avc1", "avc3", "hvc1", "hev1", "av01", "vp09", "vp8", "vp9", "mp4v", "theora",
}

// hasVideoCodec reports whether the CODECS attribute value names at least one
// video codec.
func hasVideoCodec(codecs string) bool {
	for _, codec := range strings.Split(codecs, ",") {
		codec = strings.ToLower(strings.TrimSpace(codec))
		for _, prefix := range videoCodecPrefixes {
			if strings.HasPrefix(codec, prefix) {
				return true
			}
		}
	}
	return false
}

// IsAudioOnly is the default video-presence predicate for graph resolution: it
// reports whether the document contains no video-bearing structural element.
// Any VIDEO media group, any playlist with a RESOLUTION attribute or a video
// codec, or any playlist without codec information at all (assumed muxed
// video) makes the document not audio-only.
func IsAudioOnly(doc *Document) bool {
	if len(doc.MediaGroups[MediaTypeVideo]) > 0 {
		return false
	}
	for _, p := range doc.Playlists {
		if p.Attributes == nil {
			return false
		}
		if _, ok := p.Attributes["RESOLUTION"]; ok {
			return false
		}
		codecs, ok := p.Attributes["CODECS"]
		if !ok || codecs == "" || hasVideoCodec(codecs) {
			return false
		}
	}
	return true
}
