package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrObjectNotFound is returned by MemoryStorage for unknown keys.
	ErrObjectNotFound = errors.New("object not found")
	// ErrLinkExpired and ErrLinkSignature reject download links that are stale
	// or were not issued by this store.
	ErrLinkExpired   = errors.New("download link expired")
	ErrLinkSignature = errors.New("download link signature mismatch")
)

type memObject struct {
	data        []byte
	contentType string
}

// MemoryStorage is the process-local payload store used when MinIO is not
// configured and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
	secret  []byte
}

// NewMemoryStorage returns an empty store. baseURL prefixes the URLs returned by
// GetPresignedURL. Links are signed with a key generated per store, so they
// stop working when the process restarts, together with the objects.
func NewMemoryStorage(baseURL string) *MemoryStorage {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(fmt.Sprintf("storage: generate link key: %v", err))
	}
	return &MemoryStorage{objects: map[string]memObject{}, baseURL: baseURL, secret: secret}
}

func (s *MemoryStorage) UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read payload %s: %w", key, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("payload %s: got %d bytes, want %d", key, len(data), size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memObject{data: data, contentType: contentType}
	return nil
}

func (s *MemoryStorage) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStorage) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// GetPresignedURL returns <baseURL>/files/<key>?expires=<unix>&sig=<hmac>.
// VerifyLink accepts the link until it expires.
func (s *MemoryStorage) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	exp := time.Now().Add(expires).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(exp, 10))
	q.Set("sig", s.sign(key, exp))
	return fmt.Sprintf("%s/files/%s?%s", s.baseURL, escapeKey(key), q.Encode()), nil
}

// VerifyLink checks the expires and sig query values of a link for key.
func (s *MemoryStorage) VerifyLink(key, expires, sig string) error {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrLinkSignature
	}
	got, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(got, s.mac(key, exp)) {
		return ErrLinkSignature
	}
	if time.Now().Unix() > exp {
		return ErrLinkExpired
	}
	return nil
}

func (s *MemoryStorage) mac(key string, exp int64) []byte {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s|%d", key, exp)
	return h.Sum(nil)
}

func (s *MemoryStorage) sign(key string, exp int64) string {
	return hex.EncodeToString(s.mac(key, exp))
}

// escapeKey escapes each path segment of key and keeps the slashes.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Len reports how many objects are stored.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
