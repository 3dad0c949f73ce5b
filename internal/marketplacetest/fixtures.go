package marketplacetest

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"vsixinstall/internal/utils"
)

// AssetURIPage renders an item page carrying the primary asset field.
func AssetURIPage(assetURI string) string {
	return fmt.Sprintf(`<html><head><script>var state = {"versions":[{"version":"1.0.0","assetUri":"%s","fallbackAssetUri":"%s-fallback"}]};</script></head><body></body></html>`,
		assetURI, assetURI)
}

// FallbackAssetURIPage carries only the fallback asset field.
func FallbackAssetURIPage(fallbackAssetURI string) string {
	return fmt.Sprintf(`<html><head><script>var state = {"versions":[{"version":"1.0.0", "fallbackAssetUri" : "%s"}]};</script></head><body></body></html>`,
		fallbackAssetURI)
}

// EmbeddedJSONPage carries neither asset field, only a JSON data block that
// lists the package file.
func EmbeddedJSONPage(source string) string {
	block := map[string]interface{}{
		"Resources": map[string]interface{}{
			"files": []map[string]string{
				{"assetType": "Microsoft.VisualStudio.Services.Icons.Default", "source": "https://example.invalid/icon.png"},
				{"assetType": utils.VSIXPackageAssetType, "source": source},
			},
		},
	}
	data, _ := json.MarshalIndent(block, "", "  ")
	return fmt.Sprintf(`<html><head>
<script type="application/json" class="jiContext">not json at all</script>
<script type="application/json" class="rhs-content">
%s
</script>
</head><body></body></html>`, data)
}

// EmptyPage matches no extraction strategy.
func EmptyPage() string {
	return `<html><head><script type="application/json">{"Resources":{}}</script></head><body>nothing here</body></html>`
}

type Manifest struct {
	Publisher   string
	Name        string
	DisplayName string
	Description string
	Version     string
	// NLS is written to extension/package.nls.json when non-nil.
	NLS map[string]interface{}
}

// BuildVSIX returns a minimal .vsix archive for m.
func BuildVSIX(t testing.TB, m Manifest) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	writeJSON := func(name string, v interface{}) {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	writeJSON(utils.PackageJSONPath, map[string]interface{}{
		"name":        m.Name,
		"publisher":   m.Publisher,
		"displayName": m.DisplayName,
		"description": m.Description,
		"version":     m.Version,
		"engines":     map[string]string{"vscode": "^1.80.0"},
		"repository":  map[string]string{"type": "git", "url": "https://github.com/" + m.Publisher + "/" + m.Name},
		"license":     "MIT",
	})
	if m.NLS != nil {
		writeJSON(utils.PackageNLSPath, m.NLS)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
