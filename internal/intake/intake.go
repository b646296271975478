package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
)

var (
	// ErrMalformedBulk is returned when the bulk payload is not valid JSON.
	ErrMalformedBulk = errors.New("bulk payload is not valid JSON")
	// ErrBulkNotArray is returned when the bulk payload is valid JSON but not an array.
	ErrBulkNotArray = errors.New("bulk payload must be a JSON array")
)

// DecodeBulk decodes a textual JSON array of task records. An empty payload yields
// no records. The payload is rejected as a whole when it is not a well-formed array;
// individual elements that do not fit the record shape are kept and flagged so the
// analyzer can skip them.
func DecodeBulk(payload []byte) ([]analysis.TaskRecord, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, nil
	}
	if !json.Valid(payload) {
		return nil, ErrMalformedBulk
	}
	// null decodes into a nil slice without error, so check the shape first.
	if payload[0] != '[' {
		return nil, fmt.Errorf("%w: got %s", ErrBulkNotArray, jsonKind(payload))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBulk, err)
	}

	records := make([]analysis.TaskRecord, 0, len(raw))
	for i, elem := range raw {
		var rec analysis.TaskRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			rec = analysis.TaskRecord{DecodeError: fmt.Sprintf("element %d: %v", i, err)}
		}
		records = append(records, rec)
	}
	return records, nil
}

func jsonKind(payload []byte) string {
	switch payload[0] {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// Notice turns a bulk rejection into a message suitable for the person who pasted it.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrBulkNotArray):
		return "JSON format error: Input must be a valid JSON array."
	case errors.Is(err, ErrMalformedBulk):
		return "JSON parsing error: Please check your JSON syntax."
	default:
		return "Bulk input rejected: " + err.Error()
	}
}

// Form holds the raw single-entry fields exactly as typed. When decoded from JSON,
// numeric fields may be strings or numbers and dependencies may be a comma-separated
// string or an array of strings.
type Form struct {
	Title          string `json:"title"`
	DueDate        string `json:"due_date"`
	EstimatedHours string `json:"estimated_hours"`
	Importance     string `json:"importance"`
	Dependencies   string `json:"dependencies"`
}

func (f *Form) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title          json.RawMessage `json:"title"`
		DueDate        json.RawMessage `json:"due_date"`
		EstimatedHours json.RawMessage `json:"estimated_hours"`
		Importance     json.RawMessage `json:"importance"`
		Dependencies   json.RawMessage `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"title", raw.Title, &f.Title},
		{"due_date", raw.DueDate, &f.DueDate},
		{"estimated_hours", raw.EstimatedHours, &f.EstimatedHours},
		{"importance", raw.Importance, &f.Importance},
		{"dependencies", raw.Dependencies, &f.Dependencies},
	}
	for _, fld := range fields {
		v, err := formValue(fld.raw)
		if err != nil {
			return fmt.Errorf("form field %s: %w", fld.name, err)
		}
		*fld.dst = v
	}
	return nil
}

// formValue renders a JSON scalar (or string array) as the text a person would type.
func formValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '[':
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", err
		}
		return strings.Join(items, ","), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", jsonKind(raw))
	}
	return n.String(), nil
}

// Empty reports whether nothing was typed into the form.
func (f Form) Empty() bool {
	return strings.TrimSpace(f.Title) == "" &&
		strings.TrimSpace(f.DueDate) == "" &&
		strings.TrimSpace(f.EstimatedHours) == "" &&
		strings.TrimSpace(f.Importance) == "" &&
		strings.TrimSpace(f.Dependencies) == ""
}

// FromForm builds a record from the single-entry form. ok is false when a required
// field is blank or a numeric field is not an integer.
func FromForm(f Form) (analysis.TaskRecord, bool) {
	title := strings.TrimSpace(f.Title)
	due := strings.TrimSpace(f.DueDate)
	hours, errHours := strconv.Atoi(strings.TrimSpace(f.EstimatedHours))
	importance, errImportance := strconv.Atoi(strings.TrimSpace(f.Importance))
	if title == "" || due == "" || errHours != nil || errImportance != nil {
		return analysis.TaskRecord{}, false
	}

	return analysis.TaskRecord{
		Title:          title,
		DueDate:        due,
		EstimatedHours: analysis.Float64Ptr(float64(hours)),
		Importance:     analysis.Float64Ptr(float64(importance)),
		Dependencies:   SplitDependencies(f.Dependencies),
	}, true
}

// SplitDependencies splits a comma-separated list, trimming entries and dropping blanks.
func SplitDependencies(s string) []string {
	deps := []string{}
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			deps = append(deps, d)
		}
	}
	return deps
}

// Batch is the merged input of one submission.
type Batch struct {
	Records []analysis.TaskRecord
	Notices []string
	// Rejected is the bulk decode error, if the bulk payload was dropped.
	Rejected error
}

// Collect merges the form entry (first, when valid) with the bulk records. A rejected
// bulk payload adds a notice and no records; it never drops the form entry.
func Collect(form Form, bulk []byte) ([]analysis.TaskRecord, []string) {
	b := CollectBatch(form, bulk)
	return b.Records, b.Notices
}

// CollectBatch is Collect keeping the bulk rejection error.
func CollectBatch(form Form, bulk []byte) Batch {
	var b Batch
	if rec, ok := FromForm(form); ok {
		b.Records = append(b.Records, rec)
	} else if !form.Empty() {
		b.Notices = append(b.Notices, "Single task entry is incomplete and was ignored.")
	}

	bulkRecords, err := DecodeBulk(bulk)
	if err != nil {
		b.Rejected = err
		b.Notices = append(b.Notices, Notice(err))
	}
	b.Records = append(b.Records, bulkRecords...)
	return b
}

// RejectReason is a short label for a bulk rejection.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrBulkNotArray):
		return "not_array"
	case errors.Is(err, ErrMalformedBulk):
		return "malformed"
	default:
		return "other"
	}
}
