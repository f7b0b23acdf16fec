package controllers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2026-06-01T18:30:00Z",
			want:  time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC),
		},
		{
			name:  "datetime-local",
			input: "2026-06-01T18:30",
			want:  time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2026-06-01",
			want:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date and time",
			input: "2026-06-01 18:30",
			want:  time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC),
		},
		{name: "garbage", input: "next tuesday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestValidationErrors(t *testing.T) {
	v := validator.New()

	type input struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}

	err := v.Struct(input{Email: "not-an-email"})
	require.Error(t, err)

	out := validationErrors(err, map[string]string{
		"Name":  "Name is required",
		"Email": "Please include a valid email",
	})
	require.Len(t, out, 2)
	assert.Equal(t, "Name is required", out[0]["msg"])
	assert.Equal(t, "Name", out[0]["param"])
	assert.Equal(t, "Please include a valid email", out[1]["msg"])
}

func TestValidationErrorsNonValidatorError(t *testing.T) {
	out := validationErrors(assert.AnError, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "Invalid request body", out[0]["msg"])
}

func TestValidationErrorsUnknownField(t *testing.T) {
	v := validator.New()

	type input struct {
		Category string `validate:"required"`
	}

	err := v.Struct(input{})
	require.Error(t, err)

	out := validationErrors(err, map[string]string{})
	require.Len(t, out, 1)
	assert.Equal(t, "Invalid value", out[0]["msg"])
}
