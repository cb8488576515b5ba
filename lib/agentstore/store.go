package agentstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrNotFound = errors.New("agent not found")

// Load reads the record set at path. A missing or empty file is an empty set.
func Load(path string) ([]AgentRecord, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []AgentRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return []AgentRecord{}, nil
	}

	var records []AgentRecord
	err = json.Unmarshal(contents, &records)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if records == nil {
		records = []AgentRecord{}
	}
	return records, nil
}

// Save writes records to path as a json array indented with 4 spaces.
func Save(path string, records []AgentRecord) error {
	if records == nil {
		records = []AgentRecord{}
	}
	contents, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	contents = append(contents, '\n')
	return os.WriteFile(path, contents, 0644)
}

// Merge appends the records of batch whose id is not yet in existing, in batch
// order. When batch repeats an id only its first occurrence is kept. Existing
// records are never replaced and existing is not modified.
func Merge(existing, batch []AgentRecord) (merged []AgentRecord, added []AgentRecord) {
	seen := make(map[string]struct{}, len(existing)+len(batch))
	for _, r := range existing {
		seen[r.ID] = struct{}{}
	}

	for _, r := range batch {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		added = append(added, r)
	}

	merged = make([]AgentRecord, 0, len(existing)+len(added))
	merged = append(merged, existing...)
	merged = append(merged, added...)
	return merged, added
}

// MergeFile merges batch into the record set stored at path and writes the
// result back, returning the records that were added.
func MergeFile(path string, batch []AgentRecord) ([]AgentRecord, error) {
	existing, err := Load(path)
	if err != nil {
		return nil, err
	}
	merged, added := Merge(existing, batch)
	err = Save(path, merged)
	if err != nil {
		return nil, err
	}
	return added, nil
}

// Find returns the record with the given id.
func Find(records []AgentRecord, id string) (AgentRecord, error) {
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return AgentRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
