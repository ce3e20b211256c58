package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec), "every line must parse independently")
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestAppendCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "decisions.jsonl")

	j, err := New(path)
	require.NoError(t, err)
	require.NoError(t, j.Log("test", "directory", "parent should exist"))

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
}

func TestAppendWritesOneParseableRecordPerCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	j, err := New(path)
	require.NoError(t, err)

	entries := []Entry{
		{Kind: "edge_created", Subject: "a->b", Reasoning: "first"},
		{Kind: "pattern_noticed", Subject: "repetition", Reasoning: "second", Action: "logged"},
		{Kind: "refusal", Subject: "boundary", Reasoning: "third",
			Result: map[string]interface{}{"held": true},
			Tags:   []string{"identity", "boundary"}},
	}
	for _, e := range entries {
		require.NoError(t, j.Append(e))
	}

	records := readRecords(t, path)
	require.Len(t, records, len(entries))

	// Records land in call order with matching fields.
	for i, e := range entries {
		rec := records[i]
		assert.Equal(t, e.Kind, rec["type"])
		assert.Equal(t, e.Subject, rec["subject"])
		assert.Equal(t, e.Reasoning, rec["reasoning"])
		assert.Equal(t, e.Action, rec["action"])
		assert.NotEmpty(t, rec["ts"])
	}

	assert.Equal(t, map[string]interface{}{"held": true}, records[2]["result"])
	assert.Equal(t, []interface{}{"identity", "boundary"}, records[2]["tags"])
}

func TestAppendDefaultsEmptyResultAndTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	j, err := New(path)
	require.NoError(t, err)
	require.NoError(t, j.Log("test", "defaults", "omitted fields become empty, not null"))

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]interface{}{}, records[0]["result"])
	assert.Equal(t, []interface{}{}, records[0]["tags"])
}

func TestAppendPreservesExplicitTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	j, err := New(path)
	require.NoError(t, err)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.Append(Entry{Timestamp: ts, Kind: "test", Subject: "ts", Reasoning: "fixed"}))

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, ts.Format(time.RFC3339Nano), records[0]["ts"])
}

func TestAppendOnlyNeverRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	j, err := New(path)
	require.NoError(t, err)

	require.NoError(t, j.Log("test", "first", "written once"))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, j.Log("test", "second", "appended after"))
	both, err := os.ReadFile(path)
	require.NoError(t, err)

	// The original bytes are a strict prefix of the grown file.
	assert.Equal(t, string(first), string(both[:len(first)]))
}
