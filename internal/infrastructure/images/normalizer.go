package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"net/http"

	_ "image/gif"
	_ "image/png"

	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

const (
	// Качество JPEG фиксировано, чтобы ограничить размер хранимого объекта
	jpegQuality = 85

	contentTypeJPEG = "image/jpeg"

	// Лимит на размер исходного изображения
	maxImageBytes = 20 << 20
)

// Normalizer скачивает исходное изображение товара, декодирует его,
// приводит к RGB независимо от исходного цветового режима (палитра,
// градации серого, альфа-канал) и сохраняет как JPEG с ключом {item_id}.jpg.
type Normalizer struct {
	imageRepo  usecase.ImageRepository
	httpClient *http.Client
	logger     logger.Logger
}

func NewNormalizer(imageRepo usecase.ImageRepository, cfg *cfg.ImagesCfg, logger logger.Logger) *Normalizer {
	return &Normalizer{
		imageRepo: imageRepo,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		logger: logger,
	}
}

// NormalizeImage выполняет полный цикл: скачивание → декодирование → RGB → JPEG → MinIO.
// Любая ошибка возвращается вызывающему; для конвейера загрузки она не фатальна.
func (n *Normalizer) NormalizeImage(ctx context.Context, req *usecase.NormalizeImageReq) (*usecase.NormalizeImageRes, error) {
	const op = "Normalizer.NormalizeImage"

	data, err := n.fetch(ctx, req.ImageURL)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrInvalidImage, err))
	}

	n.logger.Debugf("decoded source image. item_id: %s, format: %s", req.ItemID, format)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattenToRGB(src), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrInvalidImage, err))
	}

	var (
		objectKey   = req.ItemID + ".jpg"
		size        = int64(buf.Len())
		contentType = contentTypeJPEG
	)

	key, err := n.imageRepo.Upload(ctx, domain.NewImage(objectKey, buf.Bytes(), &size, &contentType))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrImageStorageFailed, err))
	}

	return usecase.NewNormalizeImageRes(key), nil
}

// RemoveImage удаляет сохранённое изображение из хранилища.
// Вызывается конвейером, когда товар после загрузки blob-а не был сохранён.
func (n *Normalizer) RemoveImage(ctx context.Context, objectKey string) error {
	const op = "Normalizer.RemoveImage"

	if err := n.imageRepo.Delete(ctx, objectKey); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// fetch скачивает исходное изображение с ограниченным таймаутом и лимитом размера.
func (n *Normalizer) fetch(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrImageFetchFailed, err)
	}

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrImageFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", e.ErrImageFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrImageFetchFailed, err)
	}

	if len(data) > maxImageBytes {
		return nil, e.ErrImageTooLarge
	}

	return data, nil
}

// flattenToRGB сводит изображение любого цветового режима к трёхканальному RGB.
// JPEG-кодек не хранит альфа-канал, поэтому достаточно перерисовки в RGBA.
func flattenToRGB(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}
