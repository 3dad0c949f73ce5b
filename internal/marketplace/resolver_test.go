package marketplace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsixinstall/internal/config"
	"vsixinstall/internal/marketplacetest"
	"vsixinstall/internal/models"
	"vsixinstall/internal/utils"
)

type fakeFetcher struct {
	responses map[string]*Response
	errs      map[string]error
	calls     []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*Response, error) {
	f.calls = append(f.calls, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if resp, ok := f.responses[rawURL]; ok {
		return resp, nil
	}
	return &Response{StatusCode: 404}, nil
}

var pythonID = models.Identifier{Publisher: "ms-python", Name: "python"}

func newTestResolver(f Fetcher) *PageResolver {
	return NewMicrosoft("https://marketplace.example/", config.DefaultPageFragments, f, utils.NopLogger())
}

func TestPageURLs(t *testing.T) {
	r := newTestResolver(&fakeFetcher{})
	assert.Equal(t, []string{
		"https://marketplace.example/items?itemName=ms-python.python&ssr=false#overview",
		"https://marketplace.example/items?itemName=ms-python.python&ssr=false#review-details",
		"https://marketplace.example/items?itemName=ms-python.python&ssr=false#qna",
		"https://marketplace.example/items?itemName=ms-python.python&ssr=false#version-history",
	}, r.PageURLs(pythonID))

	bare := NewMicrosoft("https://marketplace.example", nil, &fakeFetcher{}, utils.NopLogger())
	assert.Equal(t, []string{"https://marketplace.example/items?itemName=ms-python.python&ssr=false"}, bare.PageURLs(pythonID))
}

func TestResolveFirstPageWins(t *testing.T) {
	r := newTestResolver(nil)
	urls := r.PageURLs(pythonID)
	f := &fakeFetcher{responses: map[string]*Response{
		urls[0]: {StatusCode: 200, Body: []byte(marketplacetest.AssetURIPage("https://cdn.example/a"))},
		urls[1]: {StatusCode: 200, Body: []byte(marketplacetest.AssetURIPage("https://cdn.example/b"))},
	}}
	r.fetcher = f

	info, err := r.Resolve(context.Background(), pythonID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/a/Microsoft.VisualStudio.Services.VSIXPackage", info.DownloadURL)
	assert.Equal(t, "ms-python.python", info.ID)
	assert.Equal(t, "python", info.Name)
	assert.Equal(t, "ms-python", info.Publisher)
	assert.Equal(t, urls[:1], f.calls)
}

func TestResolveSkipsFailingVariants(t *testing.T) {
	r := newTestResolver(nil)
	urls := r.PageURLs(pythonID)
	f := &fakeFetcher{
		errs: map[string]error{urls[0]: errors.New("connection reset")},
		responses: map[string]*Response{
			urls[1]: {StatusCode: 503, Body: []byte(marketplacetest.AssetURIPage("https://unreachable.example"))},
			urls[2]: {StatusCode: 200, Body: []byte(marketplacetest.EmptyPage())},
			urls[3]: {StatusCode: 200, Body: []byte(marketplacetest.EmbeddedJSONPage("https://cdn.example/python.vsix"))},
		},
	}
	r.fetcher = f

	info, err := r.Resolve(context.Background(), pythonID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/python.vsix", info.DownloadURL)
	assert.Equal(t, urls, f.calls)
}

func TestResolveExhausted(t *testing.T) {
	r := newTestResolver(nil)
	urls := r.PageURLs(pythonID)
	responses := make(map[string]*Response)
	for _, u := range urls {
		responses[u] = &Response{StatusCode: 200, Body: []byte(marketplacetest.EmptyPage())}
	}
	f := &fakeFetcher{responses: responses}
	r.fetcher = f

	info, err := r.Resolve(context.Background(), pythonID)
	assert.Nil(t, info)
	require.ErrorIs(t, err, ErrResolutionExhausted)
	assert.Contains(t, err.Error(), "ms-python.python")
	assert.Equal(t, urls, f.calls)
}

func TestResolveStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestResolver(nil)
	urls := r.PageURLs(pythonID)
	f := &fakeFetcher{errs: map[string]error{urls[0]: context.Canceled}}
	r.fetcher = f

	_, err := r.Resolve(ctx, pythonID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, f.calls, 1)
}

func TestResolveAgainstMarketplace(t *testing.T) {
	srv := marketplacetest.New(t)
	srv.Add(marketplacetest.Extension{
		Publisher: "ms-python",
		Name:      "python",
		Version:   "2024.1.0",
		PageBody:  marketplacetest.FallbackAssetURIPage(srv.AssetURI("ms-python", "python", "2024.1.0")),
	})

	client := NewClient(5*time.Second, "test-agent", utils.NopLogger())
	r := NewMicrosoft(srv.URL(), config.DefaultPageFragments, client, utils.NopLogger())

	info, err := r.Resolve(context.Background(), pythonID)
	require.NoError(t, err)
	assert.Equal(t, srv.PackageURL("ms-python", "python", "2024.1.0"), info.DownloadURL)
	assert.Equal(t, []string{"GET /items"}, srv.Requests())
}
