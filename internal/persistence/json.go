package persistence

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveJSON writes object as indented JSON, atomically like SaveGob.
func SaveJSON(filePath string, object interface{}) error {
	return writeAtomically(filePath, func(file *os.File) error {
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(object); err != nil {
			return fmt.Errorf("failed to encode JSON to file %s: %w", filePath, err)
		}
		return nil
	})
}

// LoadJSON decodes a JSON file into objectPointer.
// It returns os.ErrNotExist when the file is missing.
func LoadJSON(filePath string, objectPointer interface{}) error {
	file, err := openExisting(filePath)
	if err != nil {
		return err
	}
	defer closeQuietly(file)

	if err := json.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to decode JSON from file %s: %w", filePath, err)
	}
	return nil
}
