package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MEDIA_ROOT 配下に保存する（開発用）
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root string, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, imageFolder), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{root: root, baseURL: baseURL}, nil
}

// storageIDはMEDIA_ROOTからの相対パス
func (s *LocalStorage) Save(ctx context.Context, productID int64, filename string, r io.Reader) (string, string, error) {
	rel := path.Join(imageFolder, fmt.Sprintf("product_%d_%s%s", productID, uuid.NewString(), strings.ToLower(filepath.Ext(filename))))

	f, err := os.Create(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", "", err
	}
	return s.baseURL + rel, rel, nil
}

func (s *LocalStorage) Delete(ctx context.Context, storageID string) error {
	if storageID == "" || strings.Contains(storageID, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(storageID)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func baseName(filename string) string {
	b := filepath.Base(filename)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
