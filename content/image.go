package content

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

// DefaultImageName is the file name of the downloaded hook image.
const DefaultImageName = "hookImage.png"

// newHTTPClient returns the client used for image downloads.
func newHTTPClient() *resty.Client {
	return resty.New().
		SetTimeout(2 * time.Minute).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= 500)
		})
}

// downloadImage fetches url and stores it as PNG at path.
func downloadImage(ctx context.Context, client *resty.Client, url, path string) error {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("download image: %s", resp.Status())
	}

	body := resp.Body()
	mtype := mimetype.Detect(body)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return fmt.Errorf("%w: %s", ErrNotAnImage, mtype.String())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}

	if mtype.Is("image/png") {
		return os.WriteFile(path, body, 0o644)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrNotAnImage, mtype.String(), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
