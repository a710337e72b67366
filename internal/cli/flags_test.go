package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

// TestIsValidOutputFormat tests output format validation.
func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("xml"))
	assert.False(t, IsValidOutputFormat(""))
}

// TestValidOutputFormats tests the advertised format list.
func TestValidOutputFormats(t *testing.T) {
	assert.Equal(t, []string{"text", "json"}, ValidOutputFormats())
}

// TestExitCodeForError tests exit code selection.
func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: ExitSuccess,
		},
		{
			name: "invalid output format",
			err:  pserrors.ErrInvalidOutputFormat,
			want: ExitInvalidInput,
		},
		{
			name: "unknown flag",
			err:  errors.New("unknown flag: --bogus"),
			want: ExitInvalidInput,
		},
		{
			name: "mutually exclusive flags",
			err:  errors.New("if any flags in the group [verbose quiet] are set none of the others can be; [quiet verbose] were all set"),
			want: ExitInvalidInput,
		},
		{
			name: "generic error",
			err:  errors.New("something broke"),
			want: ExitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
