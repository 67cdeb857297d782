package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/lborres/inventrack/core"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const (
	MaxImageSize   = 5 << 20
	MaxImageWidth  = 800
	MaxImagePixels = 40_000_000
	jpegQuality    = 80
)

type ImageService struct {
	bucket   core.ImageBucket
	profiles core.ProfileStorage
	logger   *zap.Logger
	now      func() time.Time
}

func NewImageService(bucket core.ImageBucket, profiles core.ProfileStorage, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{bucket: bucket, profiles: profiles, logger: logger, now: time.Now}
}

// Upload downscales the image, stores it and points the user's profile at it.
// It returns the public URL of the stored object.
func (s *ImageService) Upload(ctx context.Context, userID string, data []byte) (string, error) {
	userID, err := core.ParseUUID(userID, "user")
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", core.ErrFileRequired
	}
	if len(data) > MaxImageSize {
		return "", core.ErrFileTooLarge
	}

	if _, err := s.profiles.GetProfileByUserID(ctx, userID); err != nil {
		return "", core.Translate(err, profileResource)
	}

	encoded, ext, contentType, err := normalizeImage(data)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("profile_%s_%d.%s", userID, s.now().UnixMilli(), ext)
	if err := s.bucket.Upload(ctx, name, contentType, encoded); err != nil {
		s.logger.Error("profile image upload failed",
			zap.String("user_id", userID),
			zap.String("object", name),
			zap.Error(err),
		)
		return "", core.Translate(err, "profile image")
	}

	url := s.bucket.PublicURL(name)
	if _, err := s.profiles.SetProfileImage(ctx, userID, url); err != nil {
		return "", core.Translate(err, profileResource)
	}
	return url, nil
}

// Get returns the profile image URL of the user.
func (s *ImageService) Get(ctx context.Context, userID string) (string, error) {
	userID, err := core.ParseUUID(userID, "user")
	if err != nil {
		return "", err
	}

	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if core.KindOf(core.Translate(err, profileResource)) == core.KindNotFound {
			return "", core.ErrImageNotFound
		}
		return "", core.Translate(err, profileResource)
	}
	if profile.ProfileImageURL == nil || *profile.ProfileImageURL == "" {
		return "", core.ErrImageNotFound
	}
	return *profile.ProfileImageURL, nil
}

// Object reads a stored object back, for buckets that serve their own files.
func (s *ImageService) Object(ctx context.Context, name string) (*core.StoredObject, error) {
	reader, ok := s.bucket.(core.ObjectReader)
	if !ok {
		return nil, core.ErrObjectNotFound
	}
	obj, err := reader.GetObject(ctx, name)
	if err != nil {
		if core.KindOf(core.Translate(err, "object")) == core.KindNotFound {
			return nil, core.ErrObjectNotFound
		}
		return nil, core.Translate(err, "object")
	}
	return obj, nil
}

// normalizeImage sniffs the format from the content, downscales wide images
// and re-encodes them. GIFs keep their first frame and become PNGs.
// Images declaring more than MaxImagePixels are refused before decoding.
func normalizeImage(data []byte) ([]byte, string, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", core.ErrUnsupportedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", "", core.ErrUnsupportedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, "", "", core.ErrFileTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", core.ErrUnsupportedImage
	}

	if img.Bounds().Dx() > MaxImageWidth {
		img = resize.Resize(MaxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", "", fmt.Errorf("failed to encode jpeg: %w", err)
		}
		return buf.Bytes(), "jpg", "image/jpeg", nil
	case "png", "gif":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", "", fmt.Errorf("failed to encode png: %w", err)
		}
		return buf.Bytes(), "png", "image/png", nil
	default:
		return nil, "", "", core.ErrUnsupportedImage
	}
}
