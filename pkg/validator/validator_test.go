package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Task     string  `json:"task" validate:"required"`
	Status   string  `json:"status,omitempty" validate:"omitempty,item_status"`
	Priority *string `json:"priority,omitempty" validate:"omitempty,item_priority"`
	Deadline string  `query:"due" validate:"omitempty,item_deadline"`
}

func TestValidateBoardTags(t *testing.T) {
	v := New()
	high := "High"

	require.NoError(t, v.Validate(&sample{Task: "x", Status: "In Progress", Priority: &high, Deadline: "2026-10-20"}))
	require.NoError(t, v.Validate(&sample{Task: "x"}))

	tests := []struct {
		name  string
		in    sample
		field string
	}{
		{"missing task", sample{}, "task"},
		{"bad status", sample{Task: "x", Status: "blocked"}, "status"},
		{"bad deadline", sample{Task: "x", Deadline: "soon"}, "due"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.in)
			require.Error(t, err)
			field, ok := FailedField(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}

	bad := "whenever"
	field, ok := FailedField(v.Validate(&sample{Task: "x", Priority: &bad}))
	require.True(t, ok)
	assert.Equal(t, "priority", field)

	_, ok = FailedField(assert.AnError)
	assert.False(t, ok)
}
