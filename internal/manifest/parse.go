package manifest

import (
	"bufio"
	"errors"
	"strconv"
	"strings"
)

// ErrNotM3U8 is returned when the source does not start with the #EXTM3U
// header and therefore cannot be an HLS manifest.
var ErrNotM3U8 = errors.New("source is not an m3u8 manifest")

// Parse runs the grammar pass over raw manifest text and returns the
// structural document: tags are recognized, attribute lists are split, and
// stream descriptors, media groups, and segments are collected. No
// normalization happens here; the result feeds NormalizeDocument and
// ResolveGraph.
//
// Unknown tags are ignored. Playlists is always non-nil (possibly empty) and
// every collected segment carries a valid duration, which the normalization
// passes rely on without re-checking.
func Parse(src string) (*Document, error) {
	doc := &Document{
		Playlists: []*Playlist{},
	}

	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	seenHeader := false
	var pendingVariant map[string]string // attributes of the open EXT-X-STREAM-INF
	var cur Segment                      // segment being accumulated
	curOpen := false

	flushSegment := func(uri string) {
		cur.URI = uri
		doc.Segments = append(doc.Segments, cur)
		cur = Segment{}
		curOpen = false
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if !seenHeader {
			if line != "#EXTM3U" {
				return nil, ErrNotM3U8
			}
			seenHeader = true
			continue
		}

		if !strings.HasPrefix(line, "#") {
			// A bare line is the URI of the open stream descriptor or the
			// open segment.
			switch {
			case pendingVariant != nil:
				doc.Playlists = append(doc.Playlists, &Playlist{URI: line, Attributes: pendingVariant})
				pendingVariant = nil
			case curOpen:
				flushSegment(line)
			}
			continue
		}

		tag, value, _ := strings.Cut(line, ":")
		switch tag {
		case "#EXT-X-VERSION":
			doc.Version = parseInt(value)
		case "#EXT-X-TARGETDURATION":
			doc.TargetDuration = parseFloat(value)
		case "#EXT-X-PART-INF":
			doc.PartTargetDuration = parseFloat(scanAttributes(value)["PART-TARGET"])
		case "#EXT-X-MEDIA-SEQUENCE":
			doc.MediaSequence = int64(parseInt(value))
		case "#EXT-X-INDEPENDENT-SEGMENTS":
			doc.IndependentSegments = true
		case "#EXT-X-ENDLIST":
			doc.EndList = true
		case "#EXTINF":
			durStr, title, _ := strings.Cut(value, ",")
			cur.Duration = parseFloat(durStr)
			cur.Title = strings.TrimSpace(title)
			curOpen = true
		case "#EXT-X-PART":
			attrs := scanAttributes(value)
			cur.Parts = append(cur.Parts, Part{
				URI:         attrs["URI"],
				Duration:    parseFloat(attrs["DURATION"]),
				Independent: attrs["INDEPENDENT"] == "YES",
				Gap:         attrs["GAP"] == "YES",
			})
			curOpen = true
		case "#EXT-X-PRELOAD-HINT":
			attrs := scanAttributes(value)
			cur.PreloadHints = append(cur.PreloadHints, PreloadHint{
				Type: attrs["TYPE"],
				URI:  attrs["URI"],
			})
			curOpen = true
		case "#EXT-X-SERVER-CONTROL":
			attrs := scanAttributes(value)
			doc.ServerControl = &ServerControl{
				CanSkipUntil:   parseFloat(attrs["CAN-SKIP-UNTIL"]),
				CanBlockReload: attrs["CAN-BLOCK-RELOAD"] == "YES",
				HoldBack:       parseFloat(attrs["HOLD-BACK"]),
				PartHoldBack:   parseFloat(attrs["PART-HOLD-BACK"]),
			}
		case "#EXT-X-SKIP":
			doc.Skip = &SkipInfo{SkippedSegments: parseInt(scanAttributes(value)["SKIPPED-SEGMENTS"])}
		case "#EXT-X-RENDITION-REPORT":
			attrs := scanAttributes(value)
			doc.RenditionReports = append(doc.RenditionReports, RenditionReport{
				URI:      attrs["URI"],
				LastMSN:  int64(parseInt(attrs["LAST-MSN"])),
				LastPart: parseInt(attrs["LAST-PART"]),
			})
		case "#EXT-X-STREAM-INF":
			pendingVariant = scanAttributes(value)
			doc.mediaDescriptors = true
		case "#EXT-X-MEDIA":
			addMedia(doc, scanAttributes(value))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seenHeader {
		return nil, ErrNotM3U8
	}

	// Trailing parts or hints without a closing URI belong to the segment
	// still in progress at the live edge.
	if curOpen && (len(cur.Parts) > 0 || len(cur.PreloadHints) > 0) {
		doc.PreloadSegment = &cur
	}

	return doc, nil
}

// addMedia registers an #EXT-X-MEDIA rendition under its category, group, and
// name.
func addMedia(doc *Document, attrs map[string]string) {
	mediaType := MediaType(attrs["TYPE"])
	groupKey := attrs["GROUP-ID"]
	labelKey := attrs["NAME"]
	if groupKey == "" || labelKey == "" {
		return
	}
	known := false
	for _, mt := range MediaTypes {
		if mediaType == mt {
			known = true
			break
		}
	}
	if !known {
		return
	}

	if doc.MediaGroups == nil {
		doc.MediaGroups = newMediaGroups()
	}
	group := doc.MediaGroups[mediaType]
	if group[groupKey] == nil {
		group[groupKey] = make(map[string]*Rendition)
	}
	group[groupKey][labelKey] = &Rendition{
		URI:        attrs["URI"],
		Attributes: attrs,
		Language:   attrs["LANGUAGE"],
		Default:    attrs["DEFAULT"] == "YES",
		Autoselect: attrs["AUTOSELECT"] == "YES",
		Forced:     attrs["FORCED"] == "YES",
		InstreamID: attrs["INSTREAM-ID"],
	}
}

// scanAttributes splits an RFC 8216 attribute list into a key/value map.
// Quoted-string values may contain commas; the surrounding quotes are not part
// of the value.
func scanAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for i := 0; i < len(s); {
		eq := strings.IndexByte(s[i:], '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(s[i : i+eq])
		i += eq + 1

		var value string
		if i < len(s) && s[i] == '"' {
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				value = s[i+1:]
				i = len(s)
			} else {
				value = s[i+1 : i+1+end]
				i += end + 2
			}
			// Skip the comma after the closing quote.
			if i < len(s) && s[i] == ',' {
				i++
			}
		} else {
			end := strings.IndexByte(s[i:], ',')
			if end < 0 {
				value = s[i:]
				i = len(s)
			} else {
				value = s[i : i+end]
				i += end + 1
			}
		}
		if key != "" {
			attrs[key] = strings.TrimSpace(value)
		}
	}
	return attrs
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
