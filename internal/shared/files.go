package shared

import (
	"encoding/json"
	"fmt"
	"os"
)

// MarshalJSON encodes data as JSON, optionally pretty-printed.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// VerifyAndReadFile checks that a path exists and is a regular file, then reads it.
func VerifyAndReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidArgument, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// ValidateJSON returns an error when data is not valid JSON.
func ValidateJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidInput)
	}
	return nil
}
