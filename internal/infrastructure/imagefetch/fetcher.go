package imagefetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// maxImageBytes bounds how much of an upstream response is read.
const maxImageBytes = 20 << 20

// Fetcher resolves a proof image reference into raw bytes, dimensions and
// EXIF metadata.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*domain.ImagePayload, error)
}

// ObjectStore is the subset of the S3 store the fetcher needs.
type ObjectStore interface {
	Bucket() string
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// HTTPFetcher downloads images over HTTP(S) and, when an object store is
// configured, resolves s3://<bucket>/<key> references against it.
type HTTPFetcher struct {
	client *http.Client
	store  ObjectStore
}

func NewHTTPFetcher(store ObjectStore) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 15 * time.Second},
		store:  store,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (*domain.ImagePayload, error) {
	data, err := f.fetchBytes(ctx, ref)
	if err != nil {
		return nil, err
	}

	payload := &domain.ImagePayload{Data: data}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		payload.Width = cfg.Width
		payload.Height = cfg.Height
	} else {
		slog.Warn("could not decode image dimensions", "ref", ref, "err", err)
	}
	payload.EXIF = decodeEXIF(data)
	return payload, nil
}

func (f *HTTPFetcher) fetchBytes(ctx context.Context, ref string) ([]byte, error) {
	if key, ok := f.s3Key(ref); ok {
		body, err := f.store.Download(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ref, domain.ErrUpstream)
		}
		defer body.Close()
		data, err := io.ReadAll(io.LimitReader(body, maxImageBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ref, domain.ErrUpstream)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image reference %q: %w", ref, domain.ErrBadRequest)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, domain.ErrUpstream)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d: %w", ref, resp.StatusCode, domain.ErrUpstream)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, domain.ErrUpstream)
	}
	return data, nil
}

// s3Key extracts the object key from an s3://<bucket>/<key> reference
// targeting the configured bucket.
func (f *HTTPFetcher) s3Key(ref string) (string, bool) {
	if f.store == nil || !strings.HasPrefix(ref, "s3://") {
		return "", false
	}
	rest := strings.TrimPrefix(ref, "s3://")
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket != f.store.Bucket() || key == "" {
		return "", false
	}
	return key, true
}

// decodeEXIF extracts the metadata subset the pipeline inspects. Images
// without an EXIF block (or with a broken one) yield nil.
func decodeEXIF(data []byte) *domain.EXIFMetadata {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	meta := &domain.EXIFMetadata{}
	if dt, err := x.DateTime(); err == nil {
		meta.DateTime = dt
	}
	if tag, err := x.Get(exif.Make); err == nil {
		meta.Make, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.Model); err == nil {
		meta.Model, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.Software); err == nil {
		meta.Software, _ = tag.StringVal()
	}
	if lat, lng, err := x.LatLong(); err == nil {
		meta.GPSInfo = &domain.GPSPoint{Lat: lat, Lng: lng}
	}
	return meta
}
