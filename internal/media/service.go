// Package media uploads product images to object storage.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/internal/storage"
)

var (
	ErrNoImages      = apperr.Validation(httputil.CodeNoImages, "no images to upload")
	ErrNoValidImages = apperr.Validation(httputil.CodeNoValidImages, "no valid image files")
	ErrFileTooLarge  = apperr.Validation(httputil.CodeFileTooLarge, "image exceeds the maximum upload size")
	ErrUploadFailed  = apperr.Upstream(httputil.CodeUploadFailed, "failed to upload images", nil)
)

var dataURLPattern = regexp.MustCompile(`(?s)^data:([A-Za-z-+/]+);base64,(.+)$`)

// ObjectStore persists an object and returns its public URL
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// File is one uploaded multipart part
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Service struct {
	store       ObjectStore
	maxBytes    int64
	concurrency int
	now         func() time.Time
	newSuffix   func() string
}

func NewService(store ObjectStore, maxBytes int64, concurrency int) *Service {
	return &Service{
		store:       store,
		maxBytes:    maxBytes,
		concurrency: concurrency,
		now:         time.Now,
		newSuffix:   randomSuffix,
	}
}

// MaxBytes is the per-image size limit
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

type pendingUpload struct {
	key         string
	contentType string
	data        []byte
}

// UploadDataURLs stores every "data:image/<type>;base64,..." item and returns
// the public URLs in input order. Items that are not image data URLs, do not
// decode, or exceed the size limit are skipped.
func (s *Service) UploadDataURLs(ctx context.Context, images []string) ([]string, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	logger := logging.GetLoggerFromContext(ctx)

	uploads := make([]pendingUpload, 0, len(images))
	for i, img := range images {
		mimeType, data, ok := decodeDataURL(img)
		if !ok {
			logger.Debug("skipping image that is not a base64 data URL", "index", i)
			continue
		}
		if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
			logger.Warn("skipping oversized image", "index", i, "bytes", len(data))
			continue
		}
		uploads = append(uploads, pendingUpload{
			key:         s.objectKey(extensionForMime(mimeType)),
			contentType: mimeType,
			data:        data,
		})
	}

	return s.uploadAll(ctx, uploads)
}

// UploadFiles stores multipart image parts. Parts without an image/* content
// type are ignored; any oversized image rejects the whole request.
func (s *Service) UploadFiles(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	uploads := make([]pendingUpload, 0, len(files))
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			continue
		}
		if s.maxBytes > 0 && int64(len(f.Data)) > s.maxBytes {
			return nil, ErrFileTooLarge.WithDetail("file", f.Name)
		}

		uploads = append(uploads, pendingUpload{
			key:         s.objectKey(extensionForMime(f.ContentType)),
			contentType: f.ContentType,
			data:        f.Data,
		})
	}

	if len(uploads) == 0 {
		return nil, ErrNoValidImages
	}

	return s.uploadAll(ctx, uploads)
}

func (s *Service) uploadAll(ctx context.Context, uploads []pendingUpload) ([]string, error) {
	logger := logging.GetLoggerFromContext(ctx)
	urls := make([]string, len(uploads))

	res := storage.RunBatch(ctx, len(uploads), s.concurrency, func(ctx context.Context, i int) error {
		u, err := s.store.Put(ctx, uploads[i].key, uploads[i].contentType, uploads[i].data)
		if err != nil {
			return err
		}
		urls[i] = u
		return nil
	})

	out := make([]string, 0, len(urls))
	var firstErr error
	for i, u := range urls {
		if err := res.Errs[i]; err != nil {
			logger.Warn("image upload failed", "key", uploads[i].key, "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, u)
	}

	if len(out) == 0 {
		if firstErr == nil {
			firstErr = fmt.Errorf("no image could be decoded")
		}
		return nil, ErrUploadFailed.Wrap(firstErr)
	}

	tally := res.Tally()
	logger.Info("images uploaded", "uploaded", tally.Succeeded, "failed", tally.Failed)
	return out, nil
}

// objectKey is <unix-ms>_<random>.<ext>
func (s *Service) objectKey(ext string) string {
	return fmt.Sprintf("%d_%s.%s", s.now().UnixMilli(), s.newSuffix(), ext)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func decodeDataURL(s string) (string, []byte, bool) {
	if !strings.HasPrefix(s, "data:image/") {
		return "", nil, false
	}

	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return "", nil, false
	}

	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(m[2]); err != nil {
			return "", nil, false
		}
	}
	if len(data) == 0 {
		return "", nil, false
	}

	return m[1], data, true
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
