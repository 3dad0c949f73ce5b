package marketplace

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"vsixinstall/internal/utils"
)

// Strategy names the place on an item page a download URL was taken from.
type Strategy string

const (
	StrategyAssetURI         Strategy = "assetUri"
	StrategyFallbackAssetURI Strategy = "fallbackAssetUri"
	StrategyEmbeddedJSON     Strategy = "embedded JSON"
)

const vsixPackageSuffix = "/" + utils.VSIXPackageAssetType

var (
	assetURIPattern         = regexp.MustCompile(`"assetUri"\s*:\s*"([^"]+)"`)
	fallbackAssetURIPattern = regexp.MustCompile(`"fallbackAssetUri"\s*:\s*"([^"]+)"`)
	embeddedSourcePattern   = regexp.MustCompile(`"assetType"\s*:\s*"` + regexp.QuoteMeta(utils.VSIXPackageAssetType) + `"\s*,\s*"source"\s*:\s*"([^"]+)"`)
)

// ExtractDownloadURL applies the extraction strategies to an item page in
// priority order and returns the first hit. The two asset URI fields point at
// an asset bundle, so they get the package suffix; the embedded source is
// already a package URL and is returned as is.
func ExtractDownloadURL(body []byte) (string, Strategy, bool) {
	if m := assetURIPattern.FindSubmatch(body); m != nil {
		return string(m[1]) + vsixPackageSuffix, StrategyAssetURI, true
	}
	if m := fallbackAssetURIPattern.FindSubmatch(body); m != nil {
		return string(m[1]) + vsixPackageSuffix, StrategyFallbackAssetURI, true
	}
	for _, block := range embeddedJSONBlocks(body) {
		if source, ok := packageSourceFromJSON(block); ok {
			return source, StrategyEmbeddedJSON, true
		}
	}
	return "", "", false
}

func packageSourceFromJSON(block []byte) (string, bool) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, bytes.TrimSpace(block)); err != nil {
		return "", false
	}
	m := embeddedSourcePattern.FindSubmatch(compact.Bytes())
	if m == nil {
		return "", false
	}

	var source string
	quoted := append(append([]byte{'"'}, m[1]...), '"')
	if err := json.Unmarshal(quoted, &source); err != nil {
		return "", false
	}
	return source, source != ""
}

// embeddedJSONBlocks collects the bodies of <script type="application/json">
// elements in document order.
func embeddedJSONBlocks(body []byte) [][]byte {
	var blocks [][]byte
	z := html.NewTokenizer(bytes.NewReader(body))
	inJSON := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return blocks
		case html.StartTagToken:
			inJSON = isJSONScript(z)
		case html.TextToken:
			if inJSON {
				blocks = append(blocks, append([]byte(nil), z.Text()...))
			}
		case html.EndTagToken, html.SelfClosingTagToken:
			inJSON = false
		}
	}
}

func isJSONScript(z *html.Tokenizer) bool {
	name, hasAttr := z.TagName()
	if string(name) != "script" {
		return false
	}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "type" && strings.EqualFold(strings.TrimSpace(string(val)), utils.JSONContentType) {
			return true
		}
	}
	return false
}
