package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"vsixinstall/internal/models"
	"vsixinstall/internal/utils"
)

// GalleryMarketplace asks the Marketplace extensionquery API instead of
// scraping item pages.
type GalleryMarketplace struct {
	apiURL string
	client *Client
	logger *utils.Logger
}

func NewGallery(apiURL string, client *Client, logger *utils.Logger) *GalleryMarketplace {
	return &GalleryMarketplace{
		apiURL: apiURL,
		client: client,
		logger: logger,
	}
}

func (m *GalleryMarketplace) GetName() string {
	return "Visual Studio Marketplace Gallery API"
}

type galleryResponse struct {
	Results []struct {
		Extensions []struct {
			ExtensionID      string `json:"extensionId"`
			ExtensionName    string `json:"extensionName"`
			DisplayName      string `json:"displayName"`
			ShortDescription string `json:"shortDescription"`
			Versions         []struct {
				Version          string `json:"version"`
				AssetURI         string `json:"assetUri"`
				FallbackAssetURI string `json:"fallbackAssetUri"`
				Files            []struct {
					AssetType string `json:"assetType"`
					Source    string `json:"source"`
				} `json:"files"`
			} `json:"versions"`
			Publisher struct {
				PublisherName string `json:"publisherName"`
			} `json:"publisher"`
		} `json:"extensions"`
	} `json:"results"`
}

func (m *GalleryMarketplace) Resolve(ctx context.Context, id models.Identifier) (*ExtensionInfo, error) {
	requestBody := map[string]interface{}{
		"filters": []map[string]interface{}{
			{
				"criteria": []map[string]interface{}{
					{
						"filterType": utils.GalleryFilterTypeName,
						"value":      id.String(),
					},
				},
				"pageNumber": 1,
				"pageSize":   1,
			},
		},
		"flags": utils.GalleryQueryFlags,
	}

	m.logger.LogInfo("Querying gallery API for %s", id)
	resp, err := m.client.PostJSON(ctx, m.apiURL, utils.GalleryAccept, requestBody)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid status: %d, body: %s", resp.StatusCode, string(resp.Body))
	}

	var response galleryResponse
	if err := json.Unmarshal(resp.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Results) == 0 || len(response.Results[0].Extensions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrExtensionNotFound, id)
	}

	ext := response.Results[0].Extensions[0]
	if len(ext.Versions) == 0 {
		return nil, fmt.Errorf("no versions found for extension %s", id)
	}

	latestVersion := ext.Versions[0]
	var downloadURL string
	for _, file := range latestVersion.Files {
		if file.AssetType == utils.VSIXPackageAssetType {
			downloadURL = file.Source
			break
		}
	}
	switch {
	case downloadURL != "":
	case latestVersion.AssetURI != "":
		downloadURL = latestVersion.AssetURI + vsixPackageSuffix
	case latestVersion.FallbackAssetURI != "":
		downloadURL = latestVersion.FallbackAssetURI + vsixPackageSuffix
	default:
		return nil, fmt.Errorf("%w: download URL not found for %s", ErrResolutionExhausted, id)
	}
	m.logger.LogExtraction("gallery API", downloadURL)

	return &ExtensionInfo{
		ID:          id.String(),
		Name:        ext.ExtensionName,
		DisplayName: ext.DisplayName,
		Description: ext.ShortDescription,
		Version:     latestVersion.Version,
		Publisher:   ext.Publisher.PublisherName,
		DownloadURL: downloadURL,
	}, nil
}
