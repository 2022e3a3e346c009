package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tilemark/blockboard/pkg/errors"
)

// SaveFile writes a document as indented JSON. The parent directory is
// created if needed.
func SaveFile(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeSessionIO, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeSessionIO, err, "write session %s", path)
	}
	return nil
}

// LoadFile reads a document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open session %s", path)
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeSessionIO, err, "read session %s", path)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidSession, err, "parse session %s", path)
	}
	return doc, nil
}
