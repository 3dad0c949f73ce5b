package marketplace

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var itemPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/items/([^/]+/[^/]+)`),
	regexp.MustCompile(`/extension/([^/]+/[^/]+)`),
	regexp.MustCompile(`/marketplace/item/([^/]+/[^/]+)`),
	regexp.MustCompile(`/items/([^/]+\.[^/]+)`),
}

// IdentifierFromToken turns a marketplace page link into "publisher.name".
// Anything that is not an http(s) URL is returned unchanged.
func IdentifierFromToken(token string) string {
	if !strings.HasPrefix(token, "http://") && !strings.HasPrefix(token, "https://") {
		return token
	}

	parsedURL, err := url.Parse(strings.ReplaceAll(token, "\\", ""))
	if err != nil {
		return token
	}

	id, err := extractExtensionID(parsedURL)
	if err != nil {
		return token
	}
	return id
}

func extractExtensionID(parsedURL *url.URL) (string, error) {
	if itemName := parsedURL.Query().Get("itemName"); itemName != "" {
		return itemName, nil
	}

	for _, re := range itemPathPatterns {
		if matches := re.FindStringSubmatch(parsedURL.Path); len(matches) > 1 {
			return strings.Replace(matches[1], "/", ".", 1), nil
		}
	}

	return "", fmt.Errorf("could not extract extension ID from URL: %s", parsedURL.String())
}
