package imagefetch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

type stubStore struct {
	bucket  string
	objects map[string][]byte
}

func (s *stubStore) Bucket() string { return s.bucket }
func (s *stubStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestFetch_HTTPDecodesDimensions(t *testing.T) {
	img := pngBytes(t, 640, 480)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	payload, err := NewHTTPFetcher(nil).Fetch(context.Background(), srv.URL+"/p1.png")

	require.NoError(t, err)
	assert.Equal(t, img, payload.Data)
	assert.Equal(t, 640, payload.Width)
	assert.Equal(t, 480, payload.Height)
	assert.Nil(t, payload.EXIF)
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(nil).Fetch(context.Background(), srv.URL+"/missing.png")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestFetch_S3Reference(t *testing.T) {
	img := pngBytes(t, 320, 240)
	store := &stubStore{bucket: "travelmatch-proofs", objects: map[string][]byte{"proofs/p1.png": img}}

	payload, err := NewHTTPFetcher(store).Fetch(context.Background(), "s3://travelmatch-proofs/proofs/p1.png")

	require.NoError(t, err)
	assert.Equal(t, img, payload.Data)
	assert.Equal(t, 320, payload.Width)
}

func TestFetch_S3MissingObject(t *testing.T) {
	store := &stubStore{bucket: "travelmatch-proofs", objects: map[string][]byte{}}

	_, err := NewHTTPFetcher(store).Fetch(context.Background(), "s3://travelmatch-proofs/proofs/nope.png")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestS3Key(t *testing.T) {
	f := NewHTTPFetcher(&stubStore{bucket: "travelmatch-proofs"})

	key, ok := f.s3Key("s3://travelmatch-proofs/proofs/p1.png")
	assert.True(t, ok)
	assert.Equal(t, "proofs/p1.png", key)

	_, ok = f.s3Key("s3://other-bucket/proofs/p1.png")
	assert.False(t, ok)

	_, ok = f.s3Key("https://cdn.example.com/p1.png")
	assert.False(t, ok)

	_, ok = f.s3Key("s3://travelmatch-proofs/")
	assert.False(t, ok)
}

func TestFetch_NonImagePayloadStillReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	payload, err := NewHTTPFetcher(nil).Fetch(context.Background(), srv.URL+"/junk")

	require.NoError(t, err)
	assert.Equal(t, []byte("not an image"), payload.Data)
	assert.Zero(t, payload.Width)
	assert.Zero(t, payload.Height)
}
