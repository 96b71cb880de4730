package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{})        {}
func (noopLogger) Infof(string, ...interface{})         {}
func (noopLogger) Warnf(string, ...interface{})         {}
func (noopLogger) Errorf(error, string, ...interface{}) {}

type captureImageRepo struct {
	uploaded *domain.Image
	deleted  []string
	err      error
}

func (c *captureImageRepo) Upload(_ context.Context, img *domain.Image) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.uploaded = img
	return img.ObjectKey, nil
}

func (c *captureImageRepo) Delete(_ context.Context, key string) error {
	if c.err != nil {
		return c.err
	}
	c.deleted = append(c.deleted, key)
	return nil
}

func newTestNormalizer(repo usecase.ImageRepository) *Normalizer {
	return NewNormalizer(repo, &cfg.ImagesCfg{FetchTimeout: 5 * time.Second}, noopLogger{})
}

// pngWithAlpha возвращает PNG с полупрозрачным пикселем.
func pngWithAlpha(t *testing.T) []byte {
	t.Helper()

	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 128})
	src.SetNRGBA(2, 2, color.NRGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	return buf.Bytes()
}

func TestNormalizeImage_PNGToJPEG(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngWithAlpha(t))
	}))
	defer srv.Close()

	repo := &captureImageRepo{}
	n := newTestNormalizer(repo)

	res, err := n.NormalizeImage(context.Background(), usecase.NewNormalizeImageReq("sku-1", srv.URL))
	require.NoError(t, err)

	assert.Equal(t, "sku-1.jpg", res.ObjectKey)
	require.NotNil(t, repo.uploaded)
	require.NotNil(t, repo.uploaded.ContentType)
	assert.Equal(t, "image/jpeg", *repo.uploaded.ContentType)

	decoded, format, err := image.Decode(bytes.NewReader(repo.uploaded.Bytes))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Rect(0, 0, 4, 4), decoded.Bounds())
}

func TestNormalizeImage_JPEGPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	repo := &captureImageRepo{}
	n := newTestNormalizer(repo)

	res, err := n.NormalizeImage(context.Background(), usecase.NewNormalizeImageReq("sku-2", srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "sku-2.jpg", res.ObjectKey)
}

func TestNormalizeImage_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	n := newTestNormalizer(&captureImageRepo{})

	_, err := n.NormalizeImage(context.Background(), usecase.NewNormalizeImageReq("sku-1", srv.URL))
	assert.ErrorIs(t, err, e.ErrImageFetchFailed)
}

func TestNormalizeImage_InvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not an image"))
	}))
	defer srv.Close()

	n := newTestNormalizer(&captureImageRepo{})

	_, err := n.NormalizeImage(context.Background(), usecase.NewNormalizeImageReq("sku-1", srv.URL))
	assert.ErrorIs(t, err, e.ErrInvalidImage)
}

func TestNormalizeImage_StorageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngWithAlpha(t))
	}))
	defer srv.Close()

	repo := &captureImageRepo{err: assert.AnError}
	n := newTestNormalizer(repo)

	_, err := n.NormalizeImage(context.Background(), usecase.NewNormalizeImageReq("sku-1", srv.URL))
	assert.ErrorIs(t, err, e.ErrImageStorageFailed)
}

func TestRemoveImage(t *testing.T) {
	t.Run("deletes object by key", func(t *testing.T) {
		repo := &captureImageRepo{}
		n := newTestNormalizer(repo)

		require.NoError(t, n.RemoveImage(context.Background(), "sku-1.jpg"))
		assert.Equal(t, []string{"sku-1.jpg"}, repo.deleted)
	})

	t.Run("storage error is returned", func(t *testing.T) {
		repo := &captureImageRepo{err: assert.AnError}
		n := newTestNormalizer(repo)

		assert.ErrorIs(t, n.RemoveImage(context.Background(), "sku-1.jpg"), assert.AnError)
	})
}

func TestFlattenToRGB(t *testing.T) {
	t.Run("transparent background becomes white", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 2))

		flat := flattenToRGB(src)

		r, g, b, _ := flat.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), r)
		assert.Equal(t, uint32(0xffff), g)
		assert.Equal(t, uint32(0xffff), b)
	})

	t.Run("palette image is converted", func(t *testing.T) {
		src := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
		src.SetColorIndex(0, 0, 0)

		flat := flattenToRGB(src)

		r, _, _, a := flat.At(0, 0).RGBA()
		assert.Equal(t, uint32(0), r)
		assert.Equal(t, uint32(0xffff), a)
	})
}
