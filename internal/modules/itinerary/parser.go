// README: Extraction and decoding of the model's fenced JSON itinerary.
package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	ErrNoFencedBlock = errors.New("no fenced code block in completion")
	ErrNotJSONObject = errors.New("fenced block is not a JSON object")
)

var (
	fencedBlock = regexp.MustCompile("(?s)```(.*?)```")
	languageTag = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_+.-]*`)
)

// FormatError means the completion held no usable JSON itinerary.
type FormatError struct {
	Err error
	// Excerpt is the start of the offending text, for logs.
	Excerpt string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("itinerary format: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ParseResponse extracts the first fenced block of raw, drops an optional
// language tag after the opening fence and decodes the rest as a JSON object.
// Numbers are kept as json.Number. Itinerary rules are not checked here.
func ParseResponse(raw string) (map[string]any, error) {
	m := fencedBlock.FindStringSubmatch(raw)
	if m == nil {
		return nil, &FormatError{Err: ErrNoFencedBlock, Excerpt: excerpt(raw)}
	}
	body := stripLanguageTag(m[1])

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("decode: %w", err), Excerpt: excerpt(body)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &FormatError{Err: errors.New("decode: trailing data after JSON value"), Excerpt: excerpt(body)}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &FormatError{Err: ErrNotJSONObject, Excerpt: excerpt(body)}
	}
	return obj, nil
}

func stripLanguageTag(block string) string {
	trimmed := strings.TrimLeft(block, " \t\r\n")
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed
	}
	if tag := languageTag.FindString(trimmed); tag != "" {
		return trimmed[len(tag):]
	}
	return trimmed
}

// Fence wraps a JSON document the way the model is asked to reply.
func Fence(jsonText string) string {
	return "```json\n" + jsonText + "\n```"
}

// Canonical re-encodes a decoded itinerary as compact JSON with sorted keys.
func Canonical(itinerary map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(itinerary); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func excerpt(s string) string {
	const n = 200
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
