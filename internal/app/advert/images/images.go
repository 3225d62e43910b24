// Package images stores advert images in the object store and releases
// them when an advert no longer points at them.
package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/pkg/background"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// KeyPrefix is the object key prefix for advert images.
const KeyPrefix = "photos/"

// sniffLen is how many leading bytes are inspected to detect the type.
const sniffLen = 3072

// allowed maps accepted image types to their canonical extension.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is an image received with a create or edit request.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// Service puts and releases advert images.
type Service struct {
	store   contracts.ObjectStore
	runner  *background.Runner
	metrics *metrics.MetricsManager
	logger  *zap.Logger
}

// NewService creates an image Service. m may be nil.
func NewService(store contracts.ObjectStore, runner *background.Runner, m *metrics.MetricsManager, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		runner:  runner,
		metrics: m,
		logger:  logger,
	}
}

// Store detects the image type from its content, writes it under a fresh
// key and returns the key. Non-image content is a validation error.
func (s *Service) Store(ctx context.Context, up *Upload) (string, error) {
	if up == nil || up.Body == nil {
		return "", domain.ErrImageRequired
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if n == 0 {
		return "", domain.ErrImageRequired
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	ext, ok := allowed[mt.String()]
	if !ok {
		return "", domain.ErrInvalidImage
	}

	key := NewKey(up.Filename, ext)
	body := io.MultiReader(bytes.NewReader(head), up.Body)
	if err := s.store.Put(ctx, key, body, up.Size, mt.String()); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return key, nil
}

// Release deletes key and waits for the result. Failures are logged and
// counted, never returned.
func (s *Service) Release(ctx context.Context, key, advertID string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to release image",
			zap.String("advert_id", advertID),
			zap.String("image_ref", key),
			zap.Error(err),
		)
		s.countFailure()
	}
}

// ReleaseDetached deletes key in a background task that outlives ctx.
func (s *Service) ReleaseDetached(key, advertID string) {
	if key == "" {
		return
	}
	s.runner.Go("release_image", func(ctx context.Context) error {
		if err := s.store.Delete(ctx, key); err != nil {
			s.countFailure()
			return err
		}
		return nil
	}, zap.String("advert_id", advertID), zap.String("image_ref", key))
}

func (s *Service) countFailure() {
	if s.metrics != nil {
		s.metrics.ImageReleaseFailuresTotal.Inc()
	}
}

// NewKey returns photos/<uuid><ext>. The client's extension is kept when it
// agrees with the detected type.
func NewKey(filename, detectedExt string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == ".jpeg" && detectedExt == ".jpg" {
		ext = ".jpeg"
	} else {
		ext = detectedExt
	}
	return KeyPrefix + uuid.New().String() + ext
}
