package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PipelineError
		want string
	}{
		{
			name: "without cause",
			err:  NewConfigError("config.Validate", "top_n must be positive"),
			want: "config.Validate: top_n must be positive",
		},
		{
			name: "with cause",
			err:  NewExtractionError("extract.Fetch", "download failed", io.ErrUnexpectedEOF),
			want: "extract.Fetch: download failed: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPipelineError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("exporter.SaveGold", "failed to write table", cause)

	assert.ErrorIs(t, err, cause)

	var pe *PipelineError
	require.ErrorAs(t, fmt.Errorf("run failed: %w", err), &pe)
	assert.Equal(t, CodeStorage, pe.Code)
}

func TestNewSchemaError_NamesColumn(t *testing.T) {
	err := NewSchemaError("extract.ParseWorkbook", "unitprice")
	assert.Equal(t, CodeSchema, err.Code)
	assert.Contains(t, err.Message, `"unitprice"`)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "config", err: NewConfigError("op", "m"), want: CodeConfig},
		{name: "schema", err: NewSchemaError("op", "col"), want: CodeSchema},
		{name: "extraction", err: NewExtractionError("op", "m", nil), want: CodeExtraction},
		{name: "storage", err: NewStorageError("op", "m", nil), want: CodeStorage},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NewConfigError("op", "m")), want: CodeConfig},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConfig(NewConfigError("op", "m")))
	assert.True(t, IsSchema(NewSchemaError("op", "col")))
	assert.True(t, IsExtraction(NewExtractionError("op", "m", nil)))
	assert.False(t, IsConfig(NewSchemaError("op", "col")))
}
