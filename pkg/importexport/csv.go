// Package importexport converts owned prompts to and from CSV files.
package importexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smith3v/trade-prompts/pkg/catalog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maxDelimiterSampleRecords = 20

// Header is the column order written by BuildExportCSV and assumed for
// files without a header row.
var Header = []string{"title", "category", "tags", "description"}

type columns struct {
	title, category, tags, description int
}

var defaultColumns = columns{title: 0, category: 1, tags: 2, description: 3}

// ParsePromptsCSV reads prompts from data. Rows without a title or a
// description are counted as skipped. A two-column file is read as title and
// description.
func ParsePromptsCSV(data []byte) ([]catalog.PromptFields, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	delimiter := detectCSVDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var prompts []catalog.PromptFields
	skipped := 0
	checkedHeader := false
	cols := defaultColumns

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if isEmptyCSVRecord(record) {
			skipped++
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if header, ok := headerColumns(record); ok {
				cols = header
				continue
			}
		}
		fields, ok := recordFields(record, cols)
		if !ok {
			skipped++
			continue
		}
		prompts = append(prompts, fields)
	}

	return prompts, skipped, nil
}

func recordFields(record []string, cols columns) (catalog.PromptFields, bool) {
	if len(record) < 2 {
		return catalog.PromptFields{}, false
	}
	if len(record) == 2 && cols == defaultColumns {
		cols = columns{title: 0, category: -1, tags: -1, description: 1}
	}
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	fields := catalog.PromptFields{
		Title:       field(cols.title),
		Category:    field(cols.category),
		Tags:        field(cols.tags),
		Description: field(cols.description),
	}
	if fields.Title == "" || fields.Description == "" {
		return catalog.PromptFields{}, false
	}
	return fields, true
}

// headerColumns maps a header row to column positions. A header must name at
// least the title and description columns.
func headerColumns(record []string) (columns, bool) {
	cols := columns{title: -1, category: -1, tags: -1, description: -1}
	for i, field := range record {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "title", "name":
			cols.title = i
		case "category":
			cols.category = i
		case "tags":
			cols.tags = i
		case "description", "prompt", "prompt_text", "content":
			cols.description = i
		}
	}
	if cols.title < 0 || cols.description < 0 {
		return defaultColumns, false
	}
	return cols, true
}

func detectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t', ';'}
	bestDelimiter := candidates[0]
	bestScore := -1

	for _, delimiter := range candidates {
		score, err := scoreDelimiter(data, delimiter, maxDelimiterSampleRecords)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delimiter
		}
	}

	if bestScore <= 0 {
		return ','
	}
	return bestDelimiter
}

func scoreDelimiter(data []byte, delimiter rune, maxRecords int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	counts := make(map[int]int)
	recordsSeen := 0

	for recordsSeen < maxRecords {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isEmptyCSVRecord(record) {
			continue
		}
		recordsSeen++

		if len(record) < 2 {
			continue
		}
		counts[len(record)]++
	}

	best := 0
	for _, score := range counts {
		if score > best {
			best = score
		}
	}
	return best, nil
}

func isEmptyCSVRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// BuildExportCSV writes prompts with a header row, BOM-prefixed so
// spreadsheet tools detect UTF-8.
func BuildExportCSV(prompts []catalog.Prompt) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write(Header); err != nil {
		return nil, err
	}
	for _, p := range prompts {
		if err := writer.Write([]string{p.Title, p.Category, catalog.JoinTags(p.Tags), p.Description}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("prompts-%s.csv", now.Format("20060102"))
}
