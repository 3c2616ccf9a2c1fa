package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image")

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Store persists decoded image bytes and returns the URL they are served from.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
}

// ListingImageKey is the object key for a new image of an owner's listing.
func ListingImageKey(ownerID, ext string) string {
	return path.Join("listings", ownerID, uuid.NewString()+"."+ext)
}

// Processor validates listing images. With a Store, data URLs are uploaded and
// replaced by their public URL; without one they are kept as given.
type Processor struct {
	store    Store
	maxBytes int64
	logger   *slog.Logger
}

func NewProcessor(store Store, maxBytes int64, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, maxBytes: maxBytes, logger: logger}
}

// Process returns the images to persist, in input order.
func (p *Processor) Process(ctx context.Context, ownerID string, images []string) ([]string, error) {
	out := make([]string, 0, len(images))
	for i, raw := range images {
		img := strings.TrimSpace(raw)
		switch {
		case isHTTPURL(img):
			out = append(out, img)
		case strings.HasPrefix(img, "data:"):
			ref, err := p.dataURL(ctx, ownerID, img)
			if err != nil {
				return nil, fmt.Errorf("%w: image %d: %s", ErrInvalidImage, i+1, err.Error())
			}
			out = append(out, ref)
		default:
			return nil, fmt.Errorf("%w: image %d must be an http(s) URL or a data URL", ErrInvalidImage, i+1)
		}
	}
	return out, nil
}

func (p *Processor) dataURL(ctx context.Context, ownerID, img string) (string, error) {
	contentType, data, err := DecodeDataURL(img)
	if err != nil {
		return "", err
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported type %q", contentType)
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return "", fmt.Errorf("exceeds %d bytes", p.maxBytes)
	}
	// the declared type is client input; the bytes must agree with it
	if sniffed := http.DetectContentType(data); sniffed != contentType {
		return "", fmt.Errorf("content is %s, declared %s", sniffed, contentType)
	}

	if p.store == nil {
		return img, nil
	}

	key := ListingImageKey(ownerID, ext)
	publicURL, err := p.store.Put(ctx, key, data, contentType)
	if err != nil {
		// keep the inline data so the listing can still be saved
		p.logger.Warn("image upload failed, storing inline", "key", key, "error", err)
		return img, nil
	}
	return publicURL, nil
}

// DecodeDataURL parses a base64 data URL of the form data:<type>;base64,<payload>.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data URL must be base64 encoded")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.New("invalid base64 payload")
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty payload")
	}
	return contentType, data, nil
}

func isHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
