package extractor

import (
	"strings"
	"testing"
)

const segmentFormDoc = `<?xml version="1.0" encoding="utf-8"?>
<timedtext format="3">
  <body>
    <p t="0" d="2000"><s>Hel</s><s>lo</s></p>
    <p t="2000" d="2000">world</p>
    <p t="4000" d="1000">   </p>
  </body>
</timedtext>`

const legacyFormDoc = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="1.5">A &amp; B</text>
  <text start="1.5" dur="2">second
segment here</text>
  <text start="3.5" dur="1"> </text>
</transcript>`

func TestParseTimedTextSegmentForm(t *testing.T) {
	segments, err := ParseTimedText([]byte(segmentFormDoc))
	if err != nil {
		t.Fatalf("ParseTimedText() error = %v", err)
	}

	want := []string{"Hello", "world"}
	if len(segments) != len(want) {
		t.Fatalf("ParseTimedText() = %v, want %v", segments, want)
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, segments[i], want[i])
		}
	}

	if joined := strings.Join(segments, " "); joined != "Hello world" {
		t.Errorf("joined = %q, want %q", joined, "Hello world")
	}
}

func TestParseTimedTextLegacyForm(t *testing.T) {
	segments, err := ParseTimedText([]byte(legacyFormDoc))
	if err != nil {
		t.Fatalf("ParseTimedText() error = %v", err)
	}

	want := []string{"A & B", "second segment here"}
	if len(segments) != len(want) {
		t.Fatalf("ParseTimedText() = %v, want %v", segments, want)
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, segments[i], want[i])
		}
	}
}

func TestParseTimedTextSegmentFormWins(t *testing.T) {
	// Presence of any <p> blocks selects the segment form exclusively.
	doc := `<timedtext><body><p><s>only</s><s> this</s></p></body></timedtext>`
	segments, err := ParseTimedText([]byte(doc))
	if err != nil {
		t.Fatalf("ParseTimedText() error = %v", err)
	}
	if len(segments) != 1 || segments[0] != "only this" {
		t.Errorf("ParseTimedText() = %v, want [only this]", segments)
	}
}

func TestParseTimedTextFailures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: ""},
		{name: "not xml at all", doc: "{\"json\": true}"},
		{name: "timedtext with no blocks", doc: "<timedtext><body></body></timedtext>"},
		{name: "transcript with no text elements", doc: "<transcript></transcript>"},
		{name: "only whitespace segments", doc: "<transcript><text>   </text><text>\n</text></transcript>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimedText([]byte(tt.doc))
			if err == nil {
				t.Fatal("ParseTimedText() expected error, got nil")
			}
			ee, ok := AsExtractionError(err)
			if !ok {
				t.Fatalf("error is not an ExtractionError: %v", err)
			}
			if ee.Category != CategoryParse {
				t.Errorf("category = %s, want %s", ee.Category, CategoryParse)
			}
		})
	}
}

func TestParseTimedTextNewlinesCollapse(t *testing.T) {
	doc := "<transcript><text>line one\nline two</text></transcript>"
	segments, err := ParseTimedText([]byte(doc))
	if err != nil {
		t.Fatalf("ParseTimedText() error = %v", err)
	}
	if segments[0] != "line one line two" {
		t.Errorf("segment = %q, want %q", segments[0], "line one line two")
	}
}
