package persistence

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// SaveGob gob-encodes object into filePath. The snapshot is written to a temporary
// file in the same directory and renamed into place, so readers never observe a
// partially written file. Missing directories are created.
func SaveGob(filePath string, object interface{}) error {
	return writeAtomically(filePath, func(file *os.File) error {
		if err := gob.NewEncoder(file).Encode(object); err != nil {
			return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
		}
		return nil
	})
}

// LoadGob decodes a gob-encoded file into objectPointer.
// It returns os.ErrNotExist when the file is missing so callers can start empty.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := openExisting(filePath)
	if err != nil {
		return err
	}
	defer closeQuietly(file)

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

func openExisting(filePath string) (*os.File, error) {
	file, err := os.Open(filePath) // #nosec G304 -- path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	return file, nil
}

func writeAtomically(filePath string, write func(*os.File) error) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filePath, err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		closeQuietly(tmp)
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", filePath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move snapshot into place at %s: %w", filePath, err)
	}
	return nil
}

func closeQuietly(file *os.File) {
	if err := file.Close(); err != nil {
		log.Printf("Warning: failed to close file %s: %v", file.Name(), err)
	}
}
