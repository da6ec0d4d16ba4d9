package media

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// Store writes uploaded bird photos and their thumbnails under a single
// media directory.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "birds"), 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// SaveImage stores the uploaded file under a random name and renders a
// 300x300 JPEG thumbnail next to it. Returns both paths relative to the
// media directory so they can be served from the static /media route.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", "", fmt.Errorf("unsupported image type %q", ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String()
	imageRel := filepath.Join("birds", name+ext)
	thumbRel := filepath.Join("birds", name+"_thumb.jpg")

	dst, err := os.Create(filepath.Join(s.Dir, imageRel))
	if err != nil {
		return "", "", fmt.Errorf("creating image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("writing image file: %w", err)
	}

	if err := s.writeThumbnail(filepath.Join(s.Dir, imageRel), filepath.Join(s.Dir, thumbRel)); err != nil {
		// A bird without a thumbnail still renders; fall back to the original.
		return imageRel, imageRel, nil
	}

	return imageRel, thumbRel, nil
}

func (s *Store) writeThumbnail(imagePath, thumbPath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	thumbnail := resize.Thumbnail(300, 300, img, resize.Lanczos3)

	out, err := os.Create(thumbPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return jpeg.Encode(out, thumbnail, &jpeg.Options{Quality: 85})
}
