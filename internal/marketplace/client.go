package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"vsixinstall/internal/utils"
)

// Fetcher performs a GET and hands back the status and body. Non-2xx
// statuses are not errors at this level.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

type DownloadResult struct {
	FilePath string
	Size     int64
}

type Client struct {
	client    *http.Client
	userAgent string
	logger    *utils.Logger
	fileUtils *utils.FileUtils
}

func NewClient(timeout time.Duration, userAgent string, logger *utils.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		logger:    logger,
		fileUtils: utils.NewFileUtils(),
	}
}

func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) PostJSON(ctx context.Context, rawURL, accept string, payload interface{}) (*Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(utils.ContentTypeHeader, utils.JSONContentType)
	req.Header.Set(utils.AcceptHeader, accept)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	if c.userAgent != "" {
		req.Header.Set(utils.UserAgentHeader, c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.LogHTTPRequest(req.Method, req.URL.String(), resp.StatusCode, time.Since(start))

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// DownloadPackage streams downloadURL into filePath. The body goes to a
// temporary file next to the target first, so a failed download never
// leaves a truncated package behind.
func (c *Client) DownloadPackage(ctx context.Context, downloadURL, filePath string) (*DownloadResult, error) {
	dir := filepath.Dir(filePath)
	if err := c.fileUtils.EnsureDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set(utils.UserAgentHeader, c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download the VSIX file: invalid status code: %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+"-*.part")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, resp.Body)
	if err == nil {
		err = tmp.Chmod(0644)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = c.fileUtils.RemoveIfExists(tmpPath)
		c.logger.LogFileOperation("download", filePath, 0, err)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = c.fileUtils.RemoveIfExists(tmpPath)
		return nil, fmt.Errorf("failed to move file into place: %w", err)
	}

	c.logger.LogFileOperation("download", filePath, written, nil)
	return &DownloadResult{FilePath: filePath, Size: written}, nil
}
