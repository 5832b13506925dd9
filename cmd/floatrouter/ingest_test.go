package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecordsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floats.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"float_id": "5904471", "region": "Southern Ocean", "latitude": -54.2, "longitude": 12.5,
   "profiles": [{"profile_id": "p1", "profile_time": "2023-03-01T00:00:00Z", "variable_name": "TEMP", "variable_value": 2.1}]},
  {"float_id": "5904472"}
]`), 0o600))

	records, err := readRecords(nil, path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Southern Ocean", records[0].Region)
	require.Len(t, records[0].Profiles, 1)
	assert.Equal(t, "TEMP", records[0].Profiles[0].VariableName)
}

func TestReadRecordsFromStdin(t *testing.T) {
	records, err := readRecords(strings.NewReader(`[{"float_id": "a"}]`), "-")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].FloatID)
}

func TestReadRecordsRejectsInvalid(t *testing.T) {
	_, err := readRecords(strings.NewReader(`[{"float_id": "a"}, {"float_id": "b", "latitude": 120}]`), "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")

	_, err = readRecords(strings.NewReader(`{"float_id": "a"}`), "-")
	assert.ErrorContains(t, err, "decode records")

	_, err = readRecords(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "open records")
}
