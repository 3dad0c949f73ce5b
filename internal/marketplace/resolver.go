package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"vsixinstall/internal/models"
	"vsixinstall/internal/utils"
)

// PageResolver finds the package URL by scraping the public item page of
// the Visual Studio Marketplace. The page is requested once per fragment;
// the first variant that yields a URL wins.
type PageResolver struct {
	baseURL   string
	fragments []string
	fetcher   Fetcher
	logger    *utils.Logger
}

func NewMicrosoft(baseURL string, fragments []string, fetcher Fetcher, logger *utils.Logger) *PageResolver {
	return &PageResolver{
		baseURL:   strings.TrimRight(baseURL, "/"),
		fragments: fragments,
		fetcher:   fetcher,
		logger:    logger,
	}
}

func (r *PageResolver) GetName() string {
	return "Visual Studio Marketplace"
}

func (r *PageResolver) PageURLs(id models.Identifier) []string {
	page := fmt.Sprintf("%s/items?itemName=%s&ssr=false", r.baseURL, url.QueryEscape(id.String()))
	if len(r.fragments) == 0 {
		return []string{page}
	}

	urls := make([]string, 0, len(r.fragments))
	for _, fragment := range r.fragments {
		urls = append(urls, page+"#"+fragment)
	}
	return urls
}

func (r *PageResolver) Resolve(ctx context.Context, id models.Identifier) (*ExtensionInfo, error) {
	pages := r.PageURLs(id)
	for _, pageURL := range pages {
		r.logger.LogPageAttempt(pageURL)

		resp, err := r.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.LogPageFailure(pageURL, 0, err)
			continue
		}
		if !resp.OK() {
			r.logger.LogPageFailure(pageURL, resp.StatusCode, nil)
			continue
		}

		downloadURL, strategy, ok := ExtractDownloadURL(resp.Body)
		if !ok {
			r.logger.LogExtractionMiss(pageURL)
			continue
		}
		r.logger.LogExtraction(string(strategy), downloadURL)

		return &ExtensionInfo{
			ID:          id.String(),
			Name:        id.Name,
			Publisher:   id.Publisher,
			DownloadURL: downloadURL,
		}, nil
	}

	return nil, fmt.Errorf("%w: could not find assetUri, fallbackAssetUri, or embedded VSIXPackage source for %s on %d marketplace pages",
		ErrResolutionExhausted, id, len(pages))
}
