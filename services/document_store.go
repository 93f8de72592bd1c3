package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DocumentStore is a filesystem blob store for uploaded resumes and cover
// letters. Files are content-addressed by SHA256, so the same upload twice
// costs one copy on disk. Contents are opaque; nothing here parses them.
type DocumentStore struct {
	rootDir string
	mutex   sync.RWMutex
}

func NewDocumentStore(rootDir string) *DocumentStore {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		slog.Error("Failed to create document store directory", "dir", rootDir, "error", err)
	}

	return &DocumentStore{rootDir: rootDir}
}

func (ds *DocumentStore) pathFor(key string) string {
	return filepath.Join(ds.rootDir, key+".bin")
}

// Save writes the blob and returns its storage path. The returned path is
// what the document metadata row records.
func (ds *DocumentStore) Save(reader io.Reader) (string, int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", 0, fmt.Errorf("empty upload")
	}

	hash := sha256.Sum256(data)
	key := hex.EncodeToString(hash[:])
	path := ds.pathFor(key)

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	if _, err := os.Stat(path); err == nil {
		// Identical content already stored
		return path, int64(len(data)), nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Error("Failed to write document blob", "path", path, "error", err)
		return "", 0, err
	}

	slog.Info("Document blob stored", "path", path, "size", len(data))
	return path, int64(len(data)), nil
}

// Open returns a reader over a stored blob
func (ds *DocumentStore) Open(storagePath string) (io.ReadCloser, error) {
	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	// Refuse paths outside the store root
	cleaned := filepath.Clean(storagePath)
	if !filepath.IsAbs(cleaned) {
		cleaned, _ = filepath.Abs(cleaned)
	}
	root, _ := filepath.Abs(ds.rootDir)
	rel, err := filepath.Rel(root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("storage path outside document root")
	}

	return os.Open(cleaned)
}

// Delete removes a blob. Missing files are not an error; deduplicated blobs
// may already be gone or shared with another metadata row.
func (ds *DocumentStore) Delete(storagePath string) error {
	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	if err := os.Remove(storagePath); err != nil && !os.IsNotExist(err) {
		slog.Error("Failed to delete document blob", "path", storagePath, "error", err)
		return err
	}
	return nil
}

// Stats returns the blob count and total size on disk
func (ds *DocumentStore) Stats() (int, int64, error) {
	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	entries, err := os.ReadDir(ds.rootDir)
	if err != nil {
		return 0, 0, err
	}

	var totalSize int64
	fileCount := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".bin" {
			fileCount++
			if info, err := entry.Info(); err == nil {
				totalSize += info.Size()
			}
		}
	}

	return fileCount, totalSize, nil
}
