// Package fs stores uploaded images on the local filesystem: the
// resolution-tagged variants embedded in pin records and single-size profile
// avatars.
package fs

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
	"golang.org/x/image/draw"
)

// Variant widths. Heights preserve the source aspect ratio.
const (
	widthHigh   = 1280
	widthMedium = 640
	widthLow    = 240
	widthAvatar = 320
)

type Storage struct {
	rootPath string
	baseURL  string
}

func New(rootPath, baseURL string) (*Storage, error) {
	p := filepath.Clean(rootPath)
	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media root %s: %w", p, err)
	}
	return &Storage{rootPath: p, baseURL: baseURL}, nil
}

// StoreVariants decodes raw image bytes and writes three downscaled JPEG
// variants under a fresh asset id. Returns public URLs for each variant.
func (s *Storage) StoreVariants(raw []byte) (domain.ImageVariants, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return domain.ImageVariants{}, errors.Wrap(errors.Validation, "unsupported or corrupt image", err)
	}

	assetId := uuid.NewString()
	var variants domain.ImageVariants
	for _, v := range []struct {
		tag   string
		width int
		dst   *string
	}{
		{"high", widthHigh, &variants.High},
		{"medium", widthMedium, &variants.Medium},
		{"low", widthLow, &variants.Low},
	} {
		filename := fmt.Sprintf("%s_%s.jpg", assetId, v.tag)
		if err := s.writeScaled(src, v.width, filename); err != nil {
			return domain.ImageVariants{}, err
		}
		*v.dst = s.baseURL + "/" + filename
	}
	return variants, nil
}

// StoreAvatar decodes raw image bytes and writes a single 320-wide JPEG for
// use as a profile picture. Returns its public URL.
func (s *Storage) StoreAvatar(raw []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", errors.Wrap(errors.Validation, "unsupported or corrupt image", err)
	}

	filename := fmt.Sprintf("%s_avatar.jpg", uuid.NewString())
	if err := s.writeScaled(src, widthAvatar, filename); err != nil {
		return "", err
	}
	return s.baseURL + "/" + filename, nil
}

func (s *Storage) writeScaled(src image.Image, maxWidth int, filename string) error {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > maxWidth {
		height = height * maxWidth / width
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	f, err := os.Create(filepath.Join(s.rootPath, filename))
	if err != nil {
		return fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, dst, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode variant: %w", err)
	}
	return nil
}
