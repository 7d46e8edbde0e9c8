package extractor

import (
	"encoding/xml"
	"strings"
)

// YouTube serves caption tracks in one of two incompatible timed-text
// schemas, interchangeably and unpredictably:
//
//   - the "segment" form: <timedtext><body><p>...<s>word</s>...</p></body>,
//     where each <p> block is one segment built from nested fragments;
//   - the legacy form: <transcript><text>segment</text>...</transcript>,
//     a flat sequence of entity-encoded text elements.
//
// Detection is structural: if the document carries any <p> blocks it is
// parsed as the segment form exclusively, otherwise as the legacy form.
// Each variant gets its own parser so both stay testable in isolation.

type segmentDocument struct {
	XMLName xml.Name `xml:"timedtext"`
	Body    struct {
		Blocks []segmentBlock `xml:"p"`
	} `xml:"body"`
}

type segmentBlock struct {
	Fragments []segmentFragment `xml:"s"`
	Text      string            `xml:",chardata"`
}

type segmentFragment struct {
	Text string `xml:",chardata"`
}

type legacyDocument struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// ParseTimedText flattens a timed-text caption document into its segments,
// in document order (chronological by caption timing). Empty and
// whitespace-only segments are dropped. Zero remaining segments is a
// terminal parse failure.
func ParseTimedText(doc []byte) ([]string, error) {
	segments := parseSegmentForm(doc)
	if segments == nil {
		segments = parseLegacyForm(doc)
	}
	if len(segments) == 0 {
		return nil, ErrCaptionParse
	}
	return segments, nil
}

// parseSegmentForm handles the <p>/<s> variant. It returns nil when the
// document does not carry any segment blocks, signalling the caller to try
// the legacy form instead.
func parseSegmentForm(doc []byte) []string {
	var parsed segmentDocument
	if err := xml.Unmarshal(doc, &parsed); err != nil {
		return nil
	}
	if len(parsed.Body.Blocks) == 0 {
		return nil
	}

	segments := make([]string, 0, len(parsed.Body.Blocks))
	for _, block := range parsed.Body.Blocks {
		segment := blockText(block)
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// blockText concatenates a block's word fragments, or falls back to the
// block's own character data when it has none. Internal newlines collapse
// to spaces.
func blockText(block segmentBlock) string {
	var builder strings.Builder
	if len(block.Fragments) > 0 {
		for _, fragment := range block.Fragments {
			builder.WriteString(fragment.Text)
		}
	} else {
		builder.WriteString(block.Text)
	}
	return strings.TrimSpace(strings.ReplaceAll(builder.String(), "\n", " "))
}

// parseLegacyForm handles the flat <text> variant.
func parseLegacyForm(doc []byte) []string {
	var parsed legacyDocument
	if err := xml.Unmarshal(doc, &parsed); err != nil {
		return nil
	}

	segments := make([]string, 0, len(parsed.Texts))
	for _, entry := range parsed.Texts {
		segment := strings.TrimSpace(strings.ReplaceAll(entry.Body, "\n", " "))
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
