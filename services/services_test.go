package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quisine/models"
	"quisine/repository"
)

// fakeImages records uploads and removals in memory.
type fakeImages struct {
	mu       sync.Mutex
	seq      int
	uploaded []string
	removed  []string
	fail     error
}

func (f *fakeImages) Upload(_ context.Context, folder string, img models.ImageUpload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return "", f.fail
	}
	f.seq++
	ref := fmt.Sprintf("fake://%s/%d_%s", folder, f.seq, img.Filename)
	f.uploaded = append(f.uploaded, ref)
	return ref, nil
}

func (f *fakeImages) Remove(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	return nil
}

func (f *fakeImages) Owns(ref string) bool { return strings.HasPrefix(ref, "fake://") }

func (f *fakeImages) removedRefs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// newMenu returns a menu service over a fresh memory store with the tenant's menu created.
func newMenu(t *testing.T, tenant string) (MenuService, *fakeImages, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	images := &fakeImages{}
	svc := NewMenuService(store.Menus, images)
	_, err := svc.GetMenu(context.Background(), tenant)
	require.NoError(t, err)
	return svc, images, store
}

func float(v float64) *float64 { return &v }

func amount(v float64) *models.Amount {
	a := models.Amount(v)
	return &a
}
