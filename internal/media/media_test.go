package media

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename string, payload []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestSaveImageWithThumbnail(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	fh := uploadHeader(t, "photo.png", pngBytes(t, 640, 480))

	imagePath, thumbPath, err := store.SaveImage(fh)
	require.NoError(t, err)
	assert.NotEqual(t, imagePath, thumbPath)

	// Both files exist under the media dir.
	_, err = os.Stat(filepath.Join(store.Dir, imagePath))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(store.Dir, thumbPath))
	require.NoError(t, err)
	defer f.Close()

	// Thumbnail fits in 300x300 and keeps the 4:3 aspect.
	thumb, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 225, thumb.Bounds().Dy())
}

func TestSaveImageRejectsUnknownType(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	fh := uploadHeader(t, "notes.txt", []byte("not an image"))
	_, _, err = store.SaveImage(fh)
	assert.Error(t, err)
}

func TestSaveImageCorruptFallsBackToOriginal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Valid extension, garbage bytes: stored as-is, thumbnail falls back.
	fh := uploadHeader(t, "broken.jpg", []byte{0x00, 0x01, 0x02})
	imagePath, thumbPath, err := store.SaveImage(fh)
	require.NoError(t, err)
	assert.Equal(t, imagePath, thumbPath)
}
