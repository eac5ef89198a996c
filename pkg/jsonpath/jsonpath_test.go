package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var report = []byte(`{
	"runId": "3d8e0a52-1f0b-4c5e-9a53-8f6f2b1e6c11",
	"name": "checkout",
	"totalSamples": 5,
	"description": null,
	"overall": [
		{"sum": 2, "total": 5, "limit": 10},
		{"sum": 3, "total": 5, "limit": 100}
	],
	"estimates": [
		{"quantile": 50, "bucketed": 100, "unbounded": false},
		{"quantile": 99, "bucketed": 9223372036854775807, "unbounded": true}
	],
	"intervals": [{"total": 4}, {"total": 1}],
	"hourly": {"hours": 1, "granularity": 30, "data": [4, 1], "max": 4}
}`)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
		wantErr  bool
	}{
		{name: "simple member", path: "$.name", expected: "checkout"},
		{name: "without dollar", path: "totalSamples", expected: "5"},
		{name: "nested member", path: "$.hourly.max", expected: "4"},
		{name: "array element", path: "$.estimates[0].bucketed", expected: "100"},
		{name: "int64 sentinel", path: "$.estimates[1].bucketed", expected: "9223372036854775807"},
		{name: "boolean", path: "$.estimates[1].unbounded", expected: "true"},
		{name: "bracket single quotes", path: "$['runId']", expected: "3d8e0a52-1f0b-4c5e-9a53-8f6f2b1e6c11"},
		{name: "bracket double quotes", path: `$["hourly"]["hours"]`, expected: "1"},
		{name: "wildcard", path: "$.intervals[*].total", expected: "[4,1]"},
		{name: "array length", path: "$.overall.#", expected: "2"},
		{name: "raw array", path: "$.hourly.data", expected: "[4, 1]"},
		{name: "null", path: "$.description", expected: "null"},
		{name: "missing member", path: "$.missing", wantErr: true},
		{name: "index out of range", path: "$.overall[5]", wantErr: true},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(report, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_Root(t *testing.T) {
	got, err := Extract(report, "$")
	require.NoError(t, err)
	assert.JSONEq(t, string(report), got)
}

func TestQuery_InvalidDocument(t *testing.T) {
	_, err := Query(nil, "$.name")
	assert.Error(t, err)

	_, err = Query([]byte(`{"name": `), "$.name")
	assert.Error(t, err)
}

func TestQuery_ResultType(t *testing.T) {
	result, err := Query(report, "$.estimates[1].bucketed")
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), result.Int())

	result, err = Query(report, "$.hourly.data")
	require.NoError(t, err)
	assert.True(t, result.IsArray())
	assert.Len(t, result.Array(), 2)
}

func TestExtractMultiple(t *testing.T) {
	results, err := ExtractMultiple(report, map[string]string{
		"name":  "$.name",
		"max":   "$.hourly.max",
		"bogus": "$.nope",
		"other": "$.overall[9]",
	})

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, map[string]string{"name": "checkout", "max": "4"}, results)

	_, err = ExtractMultiple(report, nil)
	assert.Error(t, err)
}

func TestConvertToGjsonPath(t *testing.T) {
	tests := map[string]string{
		"$":                    "@this",
		"$.":                   "@this",
		"$.a.b":                "a.b",
		"$[0]":                 "0",
		"$.a[1].b":             "a.1.b",
		"$.a[1][2]":            "a.1.2",
		"$['a']['b']":          "a.b",
		"$.intervals[*].total": "intervals.#.total",
	}
	for in, want := range tests {
		assert.Equal(t, want, convertToGjsonPath(in), in)
	}
}
