package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"junit", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "checkout", decoded["name"])
	assert.Equal(t, float64(5), decoded["totalSamples"])
	assert.Contains(t, buf.String(), "\n  \"runId\"", "output is indented")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "runId: 6f1c1f5e-0000-4000-8000-000000000001\n")
	assert.Contains(t, out, "totalSamples: 5\n")
	assert.NotContains(t, out, "{", "block style only")

	var decoded struct {
		Name   string `yaml:"name"`
		Limits []int64
		Hourly struct {
			Data []int64 `yaml:"data"`
		} `yaml:"hourly"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "checkout", decoded.Name)
	assert.Equal(t, []int64{10, 100, 1000}, decoded.Limits)
	assert.Equal(t, []int64{4, 1}, decoded.Hourly.Data)
}

func TestWriteYAML_QuotesNumericStrings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, map[string]string{"id": "123"}))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "123", decoded["id"])
}
