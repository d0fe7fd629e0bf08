package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quisine/models"
)

// PublicPrefix is the route the disk store's files are served under.
const PublicPrefix = "/uploads"

// DiskStore writes images below a local directory. Used when no bucket is configured.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *DiskStore) Root() string { return d.root }

func (d *DiskStore) Upload(_ context.Context, folder string, img models.ImageUpload) (string, error) {
	p, err := prepare(img)
	if err != nil {
		return "", err
	}
	key := objectKey(folder, p.ext)
	full := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create image directory: %v", err)
	}
	if err := os.WriteFile(full, p.data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %v", err)
	}
	return d.baseURL + PublicPrefix + "/" + key, nil
}

func (d *DiskStore) Remove(_ context.Context, ref string) error {
	key, ok := d.keyFor(ref)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (d *DiskStore) Owns(ref string) bool {
	_, ok := d.keyFor(ref)
	return ok
}

func (d *DiskStore) keyFor(ref string) (string, bool) {
	prefix := d.baseURL + PublicPrefix + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(ref, prefix)
	// Reject anything that would escape the upload root.
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
