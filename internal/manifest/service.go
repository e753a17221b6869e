package manifest

import "log/slog"

// Normalizer runs the full normalization pipeline over raw manifest text:
// grammar parse, defaulting pass, then either graph resolution (main
// documents) or wrapping into a synthetic main document (bare media
// playlists). It holds the host's policy (LL-HLS support, diagnostic sinks)
// so callers normalize with one call per manifest refresh.
//
// A Normalizer is stateless across calls; distinct invocations are
// independent and safe to run concurrently as long as the sinks tolerate
// concurrent delivery.
type Normalizer struct {
	llhls  bool
	log    *slog.Logger
	onWarn Sink
	onInfo Sink
}

// NewNormalizer returns a Normalizer. log may be nil to suppress elevated
// diagnostics; onWarn and onInfo may be nil to drop those events.
func NewNormalizer(llhls bool, log *slog.Logger, onWarn, onInfo Sink) *Normalizer {
	return &Normalizer{llhls: llhls, log: log, onWarn: onWarn, onInfo: onInfo}
}

// NormalizeManifest parses and normalizes one manifest fetched from uri and
// returns the fully resolved document. The only error is ErrNotM3U8; every
// other anomaly degrades to warnings on the configured sinks.
func (n *Normalizer) NormalizeManifest(src, uri string) (*Document, error) {
	doc, err := Parse(src)
	if err != nil {
		return nil, err
	}

	NormalizeDocument(doc, NormalizeOptions{
		LLHLS:  n.llhls,
		OnWarn: n.onWarn,
		OnInfo: n.onInfo,
		Log:    n.log,
	})

	if doc.IsMain() {
		ResolveGraph(doc, uri, &ResolveOptions{OnWarn: n.onWarn})
		return doc, nil
	}

	n.onInfo.emit("media playlist loaded without a main document, wrapping into synthetic main")
	main := WrapAsMain(doc.mediaPlaylist(), uri)
	main.TargetDuration = doc.TargetDuration
	main.PartTargetDuration = doc.PartTargetDuration
	return main, nil
}

// mediaPlaylist views a bare media-playlist document as a Playlist, carrying
// over its segment sequence and duration fields.
func (d *Document) mediaPlaylist() *Playlist {
	return &Playlist{
		Segments:           d.Segments,
		TargetDuration:     d.TargetDuration,
		PartTargetDuration: d.PartTargetDuration,
		EndList:            d.EndList,
		Attributes:         map[string]string{},
	}
}
