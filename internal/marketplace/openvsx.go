package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"vsixinstall/internal/models"
	"vsixinstall/internal/utils"
)

type OpenVSXMarketplace struct {
	baseURL string
	client  *Client
	logger  *utils.Logger
}

func NewOpenVSX(baseURL string, client *Client, logger *utils.Logger) *OpenVSXMarketplace {
	return &OpenVSXMarketplace{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

func (m *OpenVSXMarketplace) GetName() string {
	return "Open VSX Registry"
}

func (m *OpenVSXMarketplace) Resolve(ctx context.Context, id models.Identifier) (*ExtensionInfo, error) {
	apiURL := fmt.Sprintf("%s/api/-/query?extensionId=%s", m.baseURL, url.QueryEscape(id.String()))

	m.logger.LogInfo("Querying Open VSX for %s", id)
	resp, err := m.client.Fetch(ctx, apiURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid status: %d, body: %s", resp.StatusCode, string(resp.Body))
	}

	var response struct {
		Extensions []struct {
			ExtensionName string `json:"name"`
			DisplayName   string `json:"displayName"`
			Description   string `json:"description"`
			Publisher     string `json:"namespace"`
			LatestVersion string `json:"version"`
			Files         struct {
				Download string `json:"download"`
			} `json:"files"`
		} `json:"extensions"`
	}

	if err := json.Unmarshal(resp.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Extensions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrExtensionNotFound, id)
	}

	ext := response.Extensions[0]
	if ext.Files.Download == "" {
		return nil, fmt.Errorf("%w: download URL not found for %s", ErrResolutionExhausted, id)
	}
	m.logger.LogExtraction("Open VSX API", ext.Files.Download)

	return &ExtensionInfo{
		ID:          fmt.Sprintf("%s.%s", ext.Publisher, ext.ExtensionName),
		Name:        ext.ExtensionName,
		DisplayName: ext.DisplayName,
		Description: ext.Description,
		Version:     ext.LatestVersion,
		Publisher:   ext.Publisher,
		DownloadURL: ext.Files.Download,
	}, nil
}
