package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
)

type FileUtils struct{}

func NewFileUtils() *FileUtils {
	return &FileUtils{}
}

func (fu *FileUtils) ExtractFileFromVSIX(reader *zip.Reader, filePath string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != filePath {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
		return content, nil
	}

	return nil, fmt.Errorf("file %s not found in .vsix archive", filePath)
}

func (fu *FileUtils) EnsureDirectory(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, 0755)
	}
	return nil
}

func (fu *FileUtils) IsVSIXFile(filePath string) bool {
	return strings.HasSuffix(strings.ToLower(filePath), VSIXExtension)
}

func (fu *FileUtils) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// RemoveIfExists ignores a missing file.
func (fu *FileUtils) RemoveIfExists(filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
