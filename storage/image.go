// Package storage keeps menu and shop images out of the database. A document only ever holds
// the reference (URL or path) an ImageStore returns.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"quisine/models"
)

const (
	maxFileSize       = 5 * 1024 * 1024
	compressThreshold = 100 * 1024
	targetWidth       = 800
	jpegQuality       = 80
)

var (
	ErrTooLarge    = errors.New("file size exceeds the 5MB limit")
	ErrUnsupported = errors.New("unsupported file format")
)

type ImageStore interface {
	// Upload stores the image under folder and returns the reference to save in the document.
	Upload(ctx context.Context, folder string, img models.ImageUpload) (string, error)
	// Remove deletes a reference previously returned by Upload.
	Remove(ctx context.Context, ref string) error
	// Owns reports whether ref was produced by this store.
	Owns(ref string) bool
}

type prepared struct {
	data        []byte
	contentType string
	ext         string
}

// prepare validates the upload and downsizes anything above the compression threshold to
// an 800px wide JPEG.
func prepare(img models.ImageUpload) (prepared, error) {
	if len(img.Data) > maxFileSize {
		return prepared{}, ErrTooLarge
	}
	contentType := img.ContentType
	if contentType != "image/jpeg" && contentType != "image/png" {
		return prepared{}, fmt.Errorf("%w: %s", ErrUnsupported, contentType)
	}

	var decoded image.Image
	var err error
	if contentType == "image/png" {
		decoded, err = png.Decode(bytes.NewReader(img.Data))
	} else {
		decoded, err = jpeg.Decode(bytes.NewReader(img.Data))
	}
	if err != nil {
		return prepared{}, fmt.Errorf("failed to decode image: %v", err)
	}

	if len(img.Data) < compressThreshold {
		return prepared{data: img.Data, contentType: contentType, ext: extensionFor(contentType)}, nil
	}

	var buf bytes.Buffer
	resized := resize.Resize(targetWidth, 0, decoded, resize.Lanczos3)
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return prepared{}, fmt.Errorf("failed to encode resized image: %v", err)
	}
	return prepared{data: buf.Bytes(), contentType: "image/jpeg", ext: ".jpg"}, nil
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

// objectKey builds a collision free key such as "menu/1700000000_3f2a....jpg".
func objectKey(folder, ext string) string {
	folder = strings.Trim(filepath.ToSlash(folder), "/")
	return fmt.Sprintf("%s/%d_%s%s", folder, time.Now().Unix(), uuid.NewString(), ext)
}
