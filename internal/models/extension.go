package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidIdentifier = errors.New("extension ID must be in format 'publisher.extension'")

// Identifier names an extension as "publisher.name".
type Identifier struct {
	Publisher string `json:"publisher"`
	Name      string `json:"name"`
}

// ParseIdentifier requires exactly one "." with non-empty text on both sides.
func ParseIdentifier(raw string) (Identifier, error) {
	publisher, name, ok := strings.Cut(raw, ".")
	if !ok || publisher == "" || name == "" || strings.Contains(name, ".") {
		return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return Identifier{Publisher: publisher, Name: name}, nil
}

func (id Identifier) String() string {
	return id.Publisher + "." + id.Name
}

// FileName is the package file written for the extension.
func (id Identifier) FileName() string {
	return id.Name + ".vsix"
}

type Extension struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Publisher   string   `json:"publisher"`
	Engines     Engines  `json:"engines"`
	Categories  []string `json:"categories,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	License     string   `json:"license,omitempty"`
	FileSize    int64    `json:"fileSize"`
	FilePath    string   `json:"filePath"`
}

type Engines struct {
	VSCode string `json:"vscode"`
}
