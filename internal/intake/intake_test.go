package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBulk(t *testing.T) {
	t.Run("empty payload", func(t *testing.T) {
		records, err := DecodeBulk([]byte("   \n"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("array of records", func(t *testing.T) {
		payload := `[
			{"title":"Fix login","due_date":"2024-06-03","estimated_hours":2,"importance":8,"dependencies":["a"]},
			{"title":"Write docs","due_date":"2024-07-01","estimated_hours":5,"importance":3}
		]`
		records, err := DecodeBulk([]byte(payload))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Fix login", records[0].Title)
		assert.Equal(t, "2024-06-03", records[0].DueDate)
		require.NotNil(t, records[0].EstimatedHours)
		assert.Equal(t, 2.0, *records[0].EstimatedHours)
		assert.Equal(t, []string{"a"}, records[0].Dependencies)
		assert.Nil(t, records[1].Dependencies)
	})

	t.Run("object instead of array", func(t *testing.T) {
		records, err := DecodeBulk([]byte(`{"title":"A"}`))
		require.ErrorIs(t, err, ErrBulkNotArray)
		assert.Contains(t, err.Error(), "object")
		assert.Empty(t, records)
	})

	t.Run("null instead of array", func(t *testing.T) {
		records, err := DecodeBulk([]byte(` null `))
		require.ErrorIs(t, err, ErrBulkNotArray)
		assert.Contains(t, err.Error(), "null")
		assert.Empty(t, records)
	})

	t.Run("scalars instead of array", func(t *testing.T) {
		for _, payload := range []string{`"tasks"`, `42`, `true`} {
			_, err := DecodeBulk([]byte(payload))
			assert.ErrorIs(t, err, ErrBulkNotArray, payload)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		records, err := DecodeBulk([]byte(`[{"title":`))
		require.ErrorIs(t, err, ErrMalformedBulk)
		assert.Empty(t, records)
	})

	t.Run("ill-typed element is flagged, not fatal", func(t *testing.T) {
		records, err := DecodeBulk([]byte(`[{"title":"ok","due_date":"2024-06-03","estimated_hours":1,"importance":1}, {"title": 5}, null]`))
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Empty(t, records[0].DecodeError)
		assert.Contains(t, records[1].DecodeError, "element 1")
		assert.Empty(t, records[2].DecodeError)
	})
}

func TestNotice(t *testing.T) {
	_, err := DecodeBulk([]byte(`42`))
	assert.Equal(t, "JSON format error: Input must be a valid JSON array.", Notice(err))

	_, err = DecodeBulk([]byte(`[`))
	assert.Equal(t, "JSON parsing error: Please check your JSON syntax.", Notice(err))
}

func TestFromForm(t *testing.T) {
	tests := []struct {
		name string
		form Form
		ok   bool
	}{
		{"complete", Form{Title: " Ship it ", DueDate: "2024-06-01", EstimatedHours: "3", Importance: "7", Dependencies: "a, b,, "}, true},
		{"missing title", Form{Title: "  ", DueDate: "2024-06-01", EstimatedHours: "3", Importance: "7"}, false},
		{"missing date", Form{Title: "x", EstimatedHours: "3", Importance: "7"}, false},
		{"non-numeric hours", Form{Title: "x", DueDate: "2024-06-01", EstimatedHours: "three", Importance: "7"}, false},
		{"missing importance", Form{Title: "x", DueDate: "2024-06-01", EstimatedHours: "3"}, false},
		{"zero values are present", Form{Title: "x", DueDate: "2024-06-01", EstimatedHours: "0", Importance: "0"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FromForm(tt.form)
			assert.Equal(t, tt.ok, ok)
		})
	}

	rec, ok := FromForm(tests[0].form)
	require.True(t, ok)
	assert.Equal(t, "Ship it", rec.Title)
	assert.Equal(t, []string{"a", "b"}, rec.Dependencies)
	assert.Equal(t, 3.0, *rec.EstimatedHours)
	assert.Equal(t, 7.0, *rec.Importance)
}

func TestSplitDependencies(t *testing.T) {
	assert.Equal(t, []string{}, SplitDependencies(""))
	assert.Equal(t, []string{"x", "y"}, SplitDependencies(" x ,y"))
}

func TestCollect(t *testing.T) {
	form := Form{Title: "Form task", DueDate: "2024-06-01", EstimatedHours: "1", Importance: "5"}

	t.Run("rejected bulk keeps form entry", func(t *testing.T) {
		records, notices := Collect(form, []byte(`{"not":"an array"}`))
		require.Len(t, records, 1)
		assert.Equal(t, "Form task", records[0].Title)
		require.Len(t, notices, 1)
		assert.Contains(t, notices[0], "JSON array")
	})

	t.Run("form first then bulk", func(t *testing.T) {
		records, notices := Collect(form, []byte(`[{"title":"Bulk"}]`))
		assert.Empty(t, notices)
		require.Len(t, records, 2)
		assert.Equal(t, "Form task", records[0].Title)
		assert.Equal(t, "Bulk", records[1].Title)
	})

	t.Run("empty form is silent", func(t *testing.T) {
		records, notices := Collect(Form{}, nil)
		assert.Empty(t, records)
		assert.Empty(t, notices)
	})

	t.Run("partial form adds notice", func(t *testing.T) {
		records, notices := Collect(Form{Title: "only a title"}, nil)
		assert.Empty(t, records)
		require.Len(t, notices, 1)
	})
}

func TestCollectBatchKeepsRejection(t *testing.T) {
	b := CollectBatch(Form{}, []byte(`[{"title":`))
	assert.Empty(t, b.Records)
	assert.ErrorIs(t, b.Rejected, ErrMalformedBulk)
	assert.Equal(t, "malformed", RejectReason(b.Rejected))

	b = CollectBatch(Form{}, []byte(`"text"`))
	assert.ErrorIs(t, b.Rejected, ErrBulkNotArray)
	assert.Equal(t, "not_array", RejectReason(b.Rejected))

	b = CollectBatch(Form{}, []byte(`null`))
	assert.ErrorIs(t, b.Rejected, ErrBulkNotArray)
	assert.Equal(t, []string{"JSON format error: Input must be a valid JSON array."}, b.Notices)

	b = CollectBatch(Form{}, []byte(`[]`))
	assert.NoError(t, b.Rejected)
	assert.Empty(t, b.Notices)
}

func TestFormUnmarshalJSON(t *testing.T) {
	t.Run("numbers and dependency array", func(t *testing.T) {
		var f Form
		require.NoError(t, json.Unmarshal([]byte(`{"title":"Ship","due_date":"2024-06-01","estimated_hours":3,"importance":7,"dependencies":["a","b"]}`), &f))
		assert.Equal(t, Form{Title: "Ship", DueDate: "2024-06-01", EstimatedHours: "3", Importance: "7", Dependencies: "a,b"}, f)

		rec, ok := FromForm(f)
		require.True(t, ok)
		assert.Equal(t, 3.0, *rec.EstimatedHours)
		assert.Equal(t, []string{"a", "b"}, rec.Dependencies)
	})

	t.Run("strings as typed", func(t *testing.T) {
		var f Form
		require.NoError(t, json.Unmarshal([]byte(`{"title":" x ","estimated_hours":"2","importance":null,"dependencies":"a, b"}`), &f))
		assert.Equal(t, Form{Title: " x ", EstimatedHours: "2", Dependencies: "a, b"}, f)
	})

	t.Run("wrong type", func(t *testing.T) {
		var f Form
		err := json.Unmarshal([]byte(`{"importance":true}`), &f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "importance")
	})
}
