package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecommerce/internal/infra/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewLocalStorage(root, "/media")
	require.NoError(t, err)

	url, id, err := s.Save(context.Background(), 7, "Photo.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/media/store/images/product_7_"))
	assert.True(t, strings.HasSuffix(id, ".png"))

	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(id)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	require.NoError(t, s.Delete(context.Background(), id))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(id)))
	assert.True(t, os.IsNotExist(err))

	// 2回目は何もしない
	assert.NoError(t, s.Delete(context.Background(), id))
}

func TestNewCloudinaryStorage_RequiresURL(t *testing.T) {
	_, err := storage.NewCloudinaryStorage("")
	assert.EqualError(t, err, "cloudinary URL is required")
}
