package extensions

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"vsixinstall/internal/models"
	"vsixinstall/internal/utils"
)

// Inspector reads the manifest of a downloaded .vsix package.
type Inspector struct {
	fileUtils *utils.FileUtils
}

func NewInspector() *Inspector {
	return &Inspector{fileUtils: utils.NewFileUtils()}
}

func (in *Inspector) ReadExtensionInfo(filePath string) (*models.Extension, error) {
	if !in.fileUtils.IsVSIXFile(filePath) {
		return nil, fmt.Errorf("not a .vsix file: %s", filePath)
	}

	reader, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open .vsix file: %w", err)
	}
	defer reader.Close()

	packageJSON, err := in.fileUtils.ExtractFileFromVSIX(&reader.Reader, utils.PackageJSONPath)
	if err != nil {
		return nil, err
	}

	pkg, err := parsePackageJSON(packageJSON)
	if err != nil {
		return nil, err
	}

	in.processLocalization(&reader.Reader, pkg)

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return createExtension(pkg, filePath, fileInfo.Size()), nil
}

type packageInfo struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName"`
	Description string         `json:"description"`
	Version     string         `json:"version"`
	Publisher   string         `json:"publisher"`
	Engines     models.Engines `json:"engines"`
	Categories  []string       `json:"categories"`
	Repository  interface{}    `json:"repository"`
	License     string         `json:"license"`
}

func parsePackageJSON(packageJSON []byte) (*packageInfo, error) {
	var pkg packageInfo
	if err := json.Unmarshal(packageJSON, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return &pkg, nil
}

func (in *Inspector) processLocalization(reader *zip.Reader, pkg *packageInfo) {
	if !isPlaceholder(pkg.DisplayName) && !isPlaceholder(pkg.Description) {
		return
	}

	nlsBytes, err := in.fileUtils.ExtractFileFromVSIX(reader, utils.PackageNLSPath)
	if err != nil {
		return
	}

	nls := parseNLS(nlsBytes)
	if key := strings.Trim(pkg.DisplayName, "%"); nls[key] != "" {
		pkg.DisplayName = nls[key]
	}
	if key := strings.Trim(pkg.Description, "%"); nls[key] != "" {
		pkg.Description = nls[key]
	}
}

func isPlaceholder(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "%") && strings.HasSuffix(s, "%")
}

// parseNLS accepts both the flat and the {"message": ...} form of entries.
func parseNLS(data []byte) map[string]string {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	nls := make(map[string]string)
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			nls[key] = v
		case map[string]interface{}:
			if msg, ok := v["message"].(string); ok {
				nls[key] = msg
			}
		}
	}
	return nls
}

func createExtension(pkg *packageInfo, filePath string, size int64) *models.Extension {
	return &models.Extension{
		ID:          fmt.Sprintf("%s.%s", pkg.Publisher, pkg.Name),
		Name:        pkg.Name,
		DisplayName: pkg.DisplayName,
		Description: pkg.Description,
		Version:     pkg.Version,
		Publisher:   pkg.Publisher,
		Engines:     pkg.Engines,
		Categories:  pkg.Categories,
		Repository:  extractURL(pkg.Repository),
		License:     pkg.License,
		FileSize:    size,
		FilePath:    filePath,
	}
}

// extractURL handles fields that are either a bare string or {"url": ...}.
func extractURL(field interface{}) string {
	switch v := field.(type) {
	case string:
		return v
	case map[string]interface{}:
		if url, ok := v["url"].(string); ok {
			return url
		}
	}
	return ""
}
