package openai

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// MaxImagesPerRequest bounds the images sent to the vision model.
const MaxImagesPerRequest = 3

// MaxImageBytes is the largest local image file accepted.
const MaxImageBytes = 5 << 20

var errUnsupportedImage = errors.New("unsupported image")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// imagePart converts an image reference into a message part. Remote and
// data URLs are passed through; local files are read and sent inline.
func imagePart(ref string) (llms.ContentPart, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("%w: empty reference", errUnsupportedImage)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "data:image/"):
		return llms.ImageURLPart(ref), nil
	}

	if !imageExtensions[strings.ToLower(filepath.Ext(ref))] {
		return nil, fmt.Errorf("%w: %s", errUnsupportedImage, filepath.Ext(ref))
	}
	info, err := os.Stat(ref)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", errUnsupportedImage, info.Size(), MaxImageBytes)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: content is %s", errUnsupportedImage, mime)
	}
	return llms.BinaryPart(mime, data), nil
}
