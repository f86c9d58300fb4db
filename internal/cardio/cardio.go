// Package cardio reads and writes flashcards in the two interchange layouts:
// a JSON array of records and a CSV table with a question,answer,category
// header. CSV has no review date column, so review dates are dropped on
// export and absent after import.
package cardio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
)

// Format names an interchange layout.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// CSVHeader is the header row written on export.
var CSVHeader = []string{"question", "answer", "category"}

// ParseFormat accepts "json" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	default:
		return "", errors.NewValidationError("format", fmt.Sprintf("unsupported format %q", s))
	}
}

// FormatFromPath picks the layout from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.NewValidationError("path", "file has no extension")
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of a layout.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Decode reads every card from r.
func Decode(r io.Reader, f Format) ([]models.Flashcard, error) {
	switch f {
	case JSON:
		return decodeJSON(r)
	case CSV:
		return decodeCSV(r)
	default:
		return nil, errors.NewValidationError("format", fmt.Sprintf("unsupported format %q", f))
	}
}

// Encode writes cards to w.
func Encode(w io.Writer, f Format, cards []models.Flashcard) error {
	switch f {
	case JSON:
		return encodeJSON(w, cards)
	case CSV:
		return encodeCSV(w, cards)
	default:
		return errors.NewValidationError("format", fmt.Sprintf("unsupported format %q", f))
	}
}

func checkRecord(n int, c *models.Flashcard) error {
	if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
		return errors.NewIOFailureError("decode cards", fmt.Errorf("record %d: question and answer are required", n))
	}
	if strings.TrimSpace(c.Category) == "" {
		c.Category = models.DefaultCategory
	}
	return nil
}

func decodeJSON(r io.Reader) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cards); err != nil {
		return nil, errors.NewIOFailureError("decode cards", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.NewIOFailureError("decode cards", fmt.Errorf("unexpected data after card array"))
	}
	for i := range cards {
		if err := checkRecord(i+1, &cards[i]); err != nil {
			return nil, err
		}
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

func encodeJSON(w io.Writer, cards []models.Flashcard) error {
	if cards == nil {
		cards = []models.Flashcard{}
	}
	if err := json.NewEncoder(w).Encode(cards); err != nil {
		return errors.NewIOFailureError("encode cards", err)
	}
	return nil
}

func decodeCSV(r io.Reader) ([]models.Flashcard, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []models.Flashcard{}, nil
	}
	if err != nil {
		return nil, errors.NewIOFailureError("decode cards", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	qi, okQ := cols["question"]
	ai, okA := cols["answer"]
	if !okQ || !okA {
		return nil, errors.NewIOFailureError("decode cards", fmt.Errorf("csv header must contain question and answer, got %v", header))
	}
	ci, okC := cols["category"]

	field := func(rec []string, i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}

	cards := []models.Flashcard{}
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIOFailureError("decode cards", err)
		}
		c := models.Flashcard{Question: field(rec, qi), Answer: field(rec, ai)}
		if okC {
			c.Category = field(rec, ci)
		}
		if err := checkRecord(n, &c); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func encodeCSV(w io.Writer, cards []models.Flashcard) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.NewIOFailureError("encode cards", err)
	}
	for _, c := range cards {
		if err := cw.Write([]string{c.Question, c.Answer, c.Category}); err != nil {
			return errors.NewIOFailureError("encode cards", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewIOFailureError("encode cards", err)
	}
	return nil
}
