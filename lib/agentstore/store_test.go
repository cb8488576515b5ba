package agentstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func record(id, name string) AgentRecord {
	return NewAgentRecord(DefaultRegistryBase, id, name, "0x"+id, "Qm"+id)
}

func requireUniqueIds(t testing.TB, records []AgentRecord) {
	t.Helper()
	seen := map[string]bool{}
	for _, r := range records {
		require.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestLoadMissingFile(t *testing.T) {
	records, err := Load(filepath.Join(t.TempDir(), "nope", "agent_status.json"))
	require.NoError(t, err)
	require.Empty(t, records)
	require.NotNil(t, records)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_status.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	records, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_status.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_status.json")
	require.NoError(t, Save(path, []AgentRecord{record("1", "TradeBot")}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(contents)
	require.True(t, strings.HasPrefix(text, "[\n    {\n        \"id\": \"1\","), text)

	var raw []map[string]string
	require.NoError(t, json.Unmarshal(contents, &raw))
	require.Len(t, raw, 1)
	keys := []string{}
	for k := range raw[0] {
		keys = append(keys, k)
	}
	require.ElementsMatch(t, []string{"id", "name", "owner", "hash", "agent_url", "owner_link", "hash_link"}, keys)
}

func TestSaveMissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "missing", "agent_status.json"), nil)
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	testCases := []struct {
		name     string
		existing []AgentRecord
		batch    []AgentRecord
		merged   []AgentRecord
		added    []AgentRecord
	}{
		{
			name:     "empty store",
			existing: []AgentRecord{},
			batch:    []AgentRecord{record("1", "a"), record("2", "b")},
			merged:   []AgentRecord{record("1", "a"), record("2", "b")},
			added:    []AgentRecord{record("1", "a"), record("2", "b")},
		},
		{
			name:     "only new ids appended",
			existing: []AgentRecord{record("1", "a")},
			batch:    []AgentRecord{record("2", "b"), record("1", "a")},
			merged:   []AgentRecord{record("1", "a"), record("2", "b")},
			added:    []AgentRecord{record("2", "b")},
		},
		{
			name:     "existing never overwritten",
			existing: []AgentRecord{record("1", "a")},
			batch:    []AgentRecord{NewAgentRecord(DefaultRegistryBase, "1", "", Missing, Missing)},
			merged:   []AgentRecord{record("1", "a")},
			added:    nil,
		},
		{
			name:     "duplicate ids in batch keep first",
			existing: nil,
			batch:    []AgentRecord{record("3", "first"), record("3", "second")},
			merged:   []AgentRecord{record("3", "first")},
			added:    []AgentRecord{record("3", "first")},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			merged, added := Merge(test.existing, test.batch)
			if diff := cmp.Diff(test.merged, merged); diff != "" {
				t.Fatalf("merged mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.added, added); diff != "" {
				t.Fatalf("added mismatch (-want +got):\n%s", diff)
			}
			requireUniqueIds(t, merged)
		})
	}
}

func TestMergeDoesNotModifyExisting(t *testing.T) {
	existing := make([]AgentRecord, 1, 4)
	existing[0] = record("1", "a")

	merged, _ := Merge(existing, []AgentRecord{record("2", "b")})
	merged[0].Name = "changed"

	require.Equal(t, "a", existing[0].Name)
	require.Len(t, existing, 1)
}

func TestMergeFileIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_status.json")
	require.NoError(t, Save(path, []AgentRecord{record("1", "a")}))

	batch := []AgentRecord{record("1", "a"), record("2", "b"), record("3", "c")}

	added, err := MergeFile(path, batch)
	require.NoError(t, err)
	require.Len(t, added, 2)
	once, err := os.ReadFile(path)
	require.NoError(t, err)

	added, err = MergeFile(path, batch)
	require.NoError(t, err)
	require.Empty(t, added)
	twice, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, string(once), string(twice))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	requireUniqueIds(t, records)
}

func TestMergeFileAllKnownLeavesStoreUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_status.json")
	require.NoError(t, Save(path, []AgentRecord{record("1", "a"), record("2", "b")}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	added, err := MergeFile(path, []AgentRecord{record("2", "b"), record("1", "a")})
	require.NoError(t, err)
	require.Empty(t, added)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestFind(t *testing.T) {
	records := []AgentRecord{record("1", "a"), record("2", "b")}

	r, err := Find(records, "2")
	require.NoError(t, err)
	require.Equal(t, "b", r.Name)

	_, err = Find(records, "9")
	require.ErrorIs(t, err, ErrNotFound)
}
