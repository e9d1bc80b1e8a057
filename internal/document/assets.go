package document

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/logger"
)

const maxAssetBytes = 2 << 20

// AssetFetcher downloads remote branding images. Every failure is
// non-fatal; a credential document without a logo is still a valid
// credential document.
type AssetFetcher struct {
	client *http.Client
}

// NewAssetFetcher creates a fetcher with a short timeout so a dead
// logo host cannot stall batch issuance.
func NewAssetFetcher(timeout time.Duration) *AssetFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AssetFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads an image and reports its fpdf image type.
// ok=false means skip the image and keep composing.
func (f *AssetFetcher) Fetch(url string) (data []byte, imageType string, ok bool) {
	if strings.TrimSpace(url) == "" {
		return nil, "", false
	}
	resp, err := f.client.Get(url)
	if err != nil {
		logger.Warnw("asset fetch failed", "url", url, "error", err)
		return nil, "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warnw("asset fetch bad status", "url", url, "status", resp.StatusCode)
		return nil, "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil || len(body) == 0 {
		logger.Warnw("asset read failed", "url", url, "error", err)
		return nil, "", false
	}

	imageType = sniffImageType(body)
	if imageType == "" {
		logger.Warnw("asset is not a supported image", "url", url)
		return nil, "", false
	}
	return body, imageType, true
}

// sniffImageType maps content sniffing onto fpdf's image type names.
func sniffImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}
