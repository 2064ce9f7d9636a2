package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_RejectsEmptyFilters(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"both empty", "", ""},
		{"both whitespace", "   ", "\t"},
		{"newlines only", "\n", " \r\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.source, tt.contains)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBothEmpty))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, BothEmpty, ve.Kind)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestQuery_Encode(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
		want     string
	}{
		{"source only", "web-1", "", "source=web-1"},
		{"contains only", "", "boot", "contains=boot"},
		{"both, source first", "web-1", "boot", "source=web-1&contains=boot"},
		{"trimmed", "  web-1 ", "\tboot\n", "source=web-1&contains=boot"},
		{"whitespace contains omitted", "web-1", "   ", "source=web-1"},
		{"inner spaces kept", "", "disk full", "contains=disk+full"},
		{"reserved characters escaped", "a&b", "x=y", "source=a%26b&contains=x%3Dy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(tt.source, tt.contains)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Encode())
		})
	}
}

func TestQuery_Accessors(t *testing.T) {
	q, err := Build(" web-1 ", "")
	require.NoError(t, err)
	assert.Equal(t, "web-1", q.Source())
	assert.Equal(t, "", q.Contains())
	assert.Equal(t, "source=web-1", q.String())
}

func TestQuery_URL(t *testing.T) {
	q, err := Build("web-1", "ready")
	require.NoError(t, err)

	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8082", "http://localhost:8082/search?source=web-1&contains=ready"},
		{"http://localhost:8082/", "http://localhost:8082/search?source=web-1&contains=ready"},
		{"https://logs.example.com/api", "https://logs.example.com/api/search?source=web-1&contains=ready"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := q.URL(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput_Trimmed(t *testing.T) {
	in := Input{Source: "  api ", Contains: " timeout  "}.Trimmed()
	assert.Equal(t, Input{Source: "api", Contains: "timeout"}, in)
}
