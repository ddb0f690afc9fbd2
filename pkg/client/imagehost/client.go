// Package imagehost uploads icon images to Cloudinary with an unsigned preset.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	xerrors "rentx-admin/pkg/utils/errors"
	"rentx-admin/pkg/utils/image"
)

type Options struct {
	UploadURL    string
	CloudName    string
	UploadPreset string
	Limits       image.Limits
	Timeout      time.Duration
	HTTPClient   *http.Client
}

type Client struct {
	opts       Options
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	opts.UploadURL = strings.TrimRight(opts.UploadURL, "/")
	return &Client{opts: opts, httpClient: hc, logger: logger}
}

func (c *Client) Enabled() bool {
	return c.opts.CloudName != "" && c.opts.UploadPreset != ""
}

func (c *Client) endpoint() string {
	return c.opts.UploadURL + "/" + c.opts.CloudName + "/image/upload"
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one image and returns its secure URL. Oversized raster images are
// scaled down first; anything that cannot be decoded is sent unchanged. Images
// whose header exceeds the pixel budget are refused without contacting the host.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if !c.Enabled() {
		return "", xerrors.ErrUploadNotEnabled
	}

	if c.opts.Limits.MaxWidth > 0 || c.opts.Limits.MaxHeight > 0 {
		shrunk, resized, err := image.Shrink(data, c.opts.Limits)
		switch {
		case err == nil && resized:
			c.logger.Debug("image scaled before upload",
				zap.String("file", filename),
				zap.Int("before", len(data)),
				zap.Int("after", len(shrunk)))
			data = shrunk
			filename = strings.TrimSuffix(filename, path.Ext(filename)) + ".jpg"
		case errors.Is(err, xerrors.ErrImageTooLarge):
			c.logger.Warn("image rejected before upload", zap.String("file", filename), zap.Error(err))
			return "", fmt.Errorf("%w: %w", xerrors.ErrUploadFailed, err)
		case err != nil && !errors.Is(err, xerrors.ErrUnsupportedFormat):
			c.logger.Warn("image scaling failed, uploading original", zap.String("file", filename), zap.Error(err))
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	_ = mw.WriteField("upload_preset", c.opts.UploadPreset)
	_ = mw.WriteField("cloud_name", c.opts.CloudName)
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("image upload request failed", zap.String("file", filename), zap.Error(err))
		return "", fmt.Errorf("%w: %v", xerrors.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrUploadFailed, err)
	}

	var result uploadResult
	_ = json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || result.SecureURL == "" {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		c.logger.Warn("image host rejected upload",
			zap.String("file", filename),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return "", fmt.Errorf("%w: %s", xerrors.ErrUploadFailed, msg)
	}

	c.logger.Info("image uploaded", zap.String("file", filename), zap.String("url", result.SecureURL))
	return result.SecureURL, nil
}
