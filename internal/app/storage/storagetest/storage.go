/*
Package storagetest provides an in-memory StorageService for tests.
*/
package storagetest

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"privlib/internal/app/storage"
)

type object struct {
	data        []byte
	contentType string
}

// Storage keeps objects in a map.
type Storage struct {
	mu      sync.Mutex
	objects map[string]object

	// UploadErr, when set, is returned by Upload.
	UploadErr error
}

var _ storage.StorageService = (*Storage)(nil)

// New returns an empty store.
func New() *Storage {
	return &Storage{objects: make(map[string]object)}
}

func (s *Storage) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if s.UploadErr != nil {
		return s.UploadErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: data, contentType: contentType}
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

func (s *Storage) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{ContentType: obj.contentType, Size: int64(len(obj.data))}, nil
}

func (s *Storage) PresignDownload(_ context.Context, key, filename string, duration time.Duration) (string, error) {
	q := url.Values{}
	q.Set("filename", filename)
	q.Set("expires", duration.String())
	return "https://storage.test/" + key + "?" + q.Encode(), nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns the stored bytes for key.
func (s *Storage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj.data, ok
}

// Keys lists stored keys, sorted.
func (s *Storage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
