package poster

import (
	"fmt"
	"os"
	"path/filepath"
)

func readImageFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read X-Image-Path %s: %w", path, err)
	}
	return data, nil
}

func imageFileName(path string) string {
	return filepath.Base(path)
}
