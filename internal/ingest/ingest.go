// Package ingest turns uploaded or piped bytes into briefing text for the
// parser. Plain text passes through, HTML is reduced to readable text and
// every other format is rejected rather than decoded as garbage.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxBytes bounds a single briefing.
const DefaultMaxBytes int64 = 1 << 20

var (
	// ErrUnsupportedFormat is returned for binary documents (PDF, DOCX,
	// images, archives) that the parser cannot read as text.
	ErrUnsupportedFormat = errors.New("unsupported briefing format")
	// ErrTooLarge is returned when the input exceeds the configured limit.
	ErrTooLarge = errors.New("briefing too large")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Result is briefing text ready for brief.Parse.
type Result struct {
	Text string `json:"-"`
	// MIME is the detected media type without parameters.
	MIME string `json:"mime"`
	// Title is the HTML <title>, when the input was HTML.
	Title string `json:"title,omitempty"`
}

// Bytes converts data into briefing text. A maxBytes of zero or less uses
// DefaultMaxBytes.
func Bytes(data []byte, maxBytes int64) (Result, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(data)) > maxBytes {
		return Result{}, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, len(data), maxBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{MIME: "text/plain"}, nil
	}

	mt := mimetype.Detect(data)
	kind := baseType(mt.String())
	switch {
	case mt.Is("text/html"):
		doc := FromHTML(data)
		text := doc.Text
		if doc.Title != "" && !strings.Contains(text, doc.Title) {
			text = doc.Title + "\n\n" + text
		}
		log.Debug().Str("mime", kind).Int("bytes", len(data)).Msg("ingest: converted html briefing")
		return Result{Text: text, MIME: "text/html", Title: doc.Title}, nil
	case isText(mt) || mt.Is("message/rfc822") || (mt.Is("application/octet-stream") && looksLikeText(data)):
		return Result{Text: cleanText(data), MIME: kind}, nil
	default:
		log.Debug().Str("mime", kind).Int("bytes", len(data)).Msg("ingest: rejected binary briefing")
		return Result{MIME: kind}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
}

// isText walks the detection tree; JSON, CSV, XML and friends all descend
// from text/plain.
func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// looksLikeText accepts undetected content without control bytes, e.g. a
// briefing that happens to start like a mail header.
func looksLikeText(data []byte) bool {
	for _, c := range data {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' && c != '\f' {
			return false
		}
	}
	return true
}

func cleanText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	s := string(data)
	if !utf8.ValidString(s) {
		// Word and older mail clients export Windows-1252.
		if decoded, err := charmap.Windows1252.NewDecoder().String(s); err == nil {
			s = decoded
		} else {
			s = strings.ToValidUTF8(s, "\uFFFD")
		}
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func baseType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
