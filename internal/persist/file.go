package persist

import (
	"encoding/json"
	"fmt"
	"os"
)

// Save writes the document as indented JSON, atomically (write temp +
// rename).
func Save(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: marshal document: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("persist: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persist: rename: %w", err)
	}
	return nil
}

// Load reads a document written by Save.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("persist: read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("persist: parse %s: %w", path, err)
	}
	if doc.Families == nil {
		doc.Families = make(map[string]FamilyRecord)
	}
	return doc, nil
}
