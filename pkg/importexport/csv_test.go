package importexport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/smith3v/trade-prompts/pkg/catalog"
)

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected rune
	}{
		{"comma", "title,description\nTrend,Analyze\n", ','},
		{"tab", "title\tdescription\nTrend\tAnalyze\n", '\t'},
		{"semicolon", "title;description\nTrend;Analyze\n", ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectCSVDelimiter([]byte(tt.input))
			if got != tt.expected {
				t.Fatalf("expected %q delimiter, got %q", tt.expected, got)
			}
		})
	}
}

func TestParsePromptsCSVDefaultColumns(t *testing.T) {
	data := strings.Join([]string{
		`Breakout;Momentum;"fast, m15";Find breakouts on [INSTRUMENT]`,
		`;Momentum;x;missing title`,
		`Fade;;;`,
		``,
		`Pivot;;;Pivot levels for [INSTRUMENT]`,
	}, "\n")

	prompts, skipped, err := ParsePromptsCSV([]byte(data))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
	if prompts[0].Title != "Breakout" || prompts[0].Category != "Momentum" || prompts[0].Tags != "fast, m15" {
		t.Fatalf("unexpected first prompt: %+v", prompts[0])
	}
	if prompts[1].Title != "Pivot" || prompts[1].Category != "" {
		t.Fatalf("unexpected second prompt: %+v", prompts[1])
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
}

func TestParsePromptsCSVHeaderAndBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Description,Tags,Title\n\"Analyze [INSTRUMENT], then wait\",swing,Trend\n")...)

	prompts, skipped, err := ParsePromptsCSV(data)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if skipped != 0 || len(prompts) != 1 {
		t.Fatalf("expected one prompt and no skips, got %d and %d", len(prompts), skipped)
	}
	if prompts[0].Title != "Trend" || prompts[0].Tags != "swing" || prompts[0].Description != "Analyze [INSTRUMENT], then wait" {
		t.Fatalf("unexpected prompt: %+v", prompts[0])
	}
}

func TestParsePromptsCSVTwoColumns(t *testing.T) {
	prompts, _, err := ParsePromptsCSV([]byte("Trend,Analyze [INSTRUMENT]\n"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(prompts) != 1 || prompts[0].Title != "Trend" || prompts[0].Description != "Analyze [INSTRUMENT]" {
		t.Fatalf("unexpected prompts: %+v", prompts)
	}
}

func TestBuildExportCSVRoundTrip(t *testing.T) {
	prompts := []catalog.Prompt{
		{Title: "Trend", Category: "Trend Analysis", Tags: []string{"a", "b"}, Description: "Line one\nline \"two\", [INSTRUMENT]"},
		{Title: "Empty tags", Category: "Custom", Tags: []string{}, Description: "d"},
	}

	data, err := BuildExportCSV(prompts)
	if err != nil {
		t.Fatalf("BuildExportCSV returned error: %v", err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Fatal("expected UTF-8 BOM prefix")
	}
	if !strings.Contains(string(data), "title,category,tags,description\r\n") {
		t.Fatalf("expected header row, got %q", string(data))
	}

	parsed, skipped, err := ParsePromptsCSV(data)
	if err != nil {
		t.Fatalf("ParsePromptsCSV returned error: %v", err)
	}
	if skipped != 0 || len(parsed) != 2 {
		t.Fatalf("expected 2 prompts, got %d (skipped %d)", len(parsed), skipped)
	}
	if parsed[0].Description != prompts[0].Description || parsed[0].Tags != "a, b" {
		t.Fatalf("unexpected round trip: %+v", parsed[0])
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	if got != "prompts-20240120.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
