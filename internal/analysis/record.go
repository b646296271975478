package analysis

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

// DateLayout is the ISO-8601 calendar date format accepted for due dates.
const DateLayout = "2006-01-02"

// TaskRecord is one unit of work as supplied by the form or the bulk payload.
// Numeric fields are pointers so that an absent field is distinguishable from zero.
type TaskRecord struct {
	Title          string   `json:"title" validate:"required"`
	DueDate        string   `json:"due_date" validate:"required,datetime=2006-01-02"`
	EstimatedHours *float64 `json:"estimated_hours" validate:"required,gte=0"`
	Importance     *float64 `json:"importance" validate:"required"`
	Dependencies   []string `json:"dependencies,omitempty"`

	// DecodeError is set by producers when the raw element could not be decoded.
	DecodeError string `json:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate reports the first problem that keeps a record from being scored.
func Validate(rec TaskRecord) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return fieldError(verrs[0])
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return &RecordError{Kind: SkipIncomplete, Field: fe.Field(), Msg: "missing " + fe.Field()}
	case "datetime":
		return &RecordError{Kind: SkipInvalid, Field: fe.Field(), Msg: fmt.Sprintf("%s is not a YYYY-MM-DD date", fe.Field())}
	case "gte":
		return &RecordError{Kind: SkipInvalid, Field: fe.Field(), Msg: fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())}
	default:
		return &RecordError{Kind: SkipInvalid, Field: fe.Field(), Msg: fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())}
	}
}

// RecordError describes why a record was not scored.
type RecordError struct {
	Kind  SkipKind
	Field string
	Msg   string
}

func (e *RecordError) Error() string { return e.Msg }

// Input converts a validated record into scorer input.
func (r TaskRecord) Input() (scoring.Input, error) {
	due, err := time.Parse(DateLayout, r.DueDate)
	if err != nil {
		return scoring.Input{}, fmt.Errorf("parse due_date: %w", err)
	}
	in := scoring.Input{
		DueDate:      due,
		Dependencies: len(r.Dependencies),
	}
	if r.EstimatedHours != nil {
		in.EstimatedHours = *r.EstimatedHours
	}
	if r.Importance != nil {
		in.Importance = *r.Importance
	}
	return in, nil
}

// Float64Ptr is a convenience for building records in code.
func Float64Ptr(v float64) *float64 { return &v }
