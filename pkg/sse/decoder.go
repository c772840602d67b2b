// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// decoder for consuming streaming answers from the Prep API. It reassembles
// text across arbitrary chunk boundaries, splits the stream into
// newline-delimited frames, and yields the payload of each "data:" frame.
//
// The decoder intentionally ignores SSE event-type lines, comment lines,
// and blank separator lines: the Prep streaming endpoints carry answer text
// exclusively in "data:" frames. This package does NOT provide SSE writer
// or server capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"bufio"
	"io"
	"strings"
)

const dataPrefix = "data:"

// Decoder reads a raw SSE byte stream and yields data-frame payloads in
// stream order. State is scoped per Decoder value, so concurrent streams
// must each construct their own Decoder.
type Decoder struct {
	reader *bufio.Reader

	// drained marks that the final unterminated line, if any, has already
	// been inspected. Prevents re-yielding it on repeated Next calls.
	drained bool
}

// NewDecoder creates a decoder over the given stream.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next non-empty data payload from the stream.
// It blocks until a payload is available, the stream ends (io.EOF),
// or a read error occurs.
//
// Frames that are not "data:" lines, and data frames whose payload trims to
// the empty string, are skipped. Payloads are returned in the exact order
// the corresponding lines appeared in the byte stream. A read failure takes
// precedence over any partially buffered line.
func (d *Decoder) Next() (string, error) {
	for {
		line, err := d.reader.ReadString('\n')

		if err == io.EOF {
			// End of stream: the residual bytes (if any) form one final
			// possibly-unterminated frame, inspected under the same rule
			// but trimmed first. A trailing non-data fragment is dropped.
			if d.drained {
				return "", io.EOF
			}
			d.drained = true

			if payload, ok := DataPayload(strings.TrimSpace(line)); ok && payload != "" {
				return payload, nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}

		payload, ok := DataPayload(strings.TrimSuffix(line, "\n"))
		if !ok || payload == "" {
			continue
		}
		return payload, nil
	}
}

// All drains the stream and returns every data payload in order.
// Intended for small, bounded streams (tests, non-interactive consumption).
func (d *Decoder) All() ([]string, error) {
	var payloads []string
	for {
		payload, err := d.Next()
		if err == io.EOF {
			return payloads, nil
		}
		if err != nil {
			return payloads, err
		}
		payloads = append(payloads, payload)
	}
}

// DataPayload classifies a single frame line. A frame is a data frame iff it
// begins with the literal "data:" prefix; the payload is the remainder with
// the prefix stripped and surrounding whitespace trimmed. The second return
// is false for comment lines, event-type lines, blank separators, and any
// other non-data frame.
func DataPayload(line string) (string, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, dataPrefix)), true
}
