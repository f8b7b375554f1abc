package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cfg "github.com/templui/objectives/internal/config"
)

// fakeS3 answers the path-style requests the storage issues.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodHead && path == "docs":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = string(body)
		f.types[path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeStorage(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()

	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	s, err := NewS3Storage(context.Background(), S3Config{
		Region:        "us-east-1",
		Bucket:        "docs",
		AccessKey:     "test",
		SecretKey:     "test",
		Endpoint:      server.URL,
		PresignExpiry: 5 * time.Minute,
	})
	require.NoError(t, err)
	return s, fake
}

func TestNewWithoutBucket(t *testing.T) {
	s, err := New(context.Background(), &cfg.Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, s)
}

func TestS3StorageSaveAndDelete(t *testing.T) {
	s, fake := newFakeStorage(t)
	ctx := context.Background()

	key := "documents/u1/g1/passport.pdf"
	err := s.Save(ctx, key, strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", fake.objects["docs/"+key])
	assert.Equal(t, "application/pdf", fake.types["docs/"+key])

	require.NoError(t, s.Delete(ctx, key))
	assert.NotContains(t, fake.objects, "docs/"+key)
}

func TestS3StorageURLIsPresigned(t *testing.T) {
	s, _ := newFakeStorage(t)

	url, err := s.URL(context.Background(), "documents/u1/g1/passport.pdf")
	require.NoError(t, err)
	assert.Contains(t, url, "/docs/documents/u1/g1/passport.pdf")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=300")
}
