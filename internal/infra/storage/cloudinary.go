package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const imageFolder = "store/images"

// 商品画像をCloudinaryへ
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cloudinaryURL string) (*CloudinaryStorage, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

// 戻り値は (公開URL, public_id)
func (s *CloudinaryStorage) Save(ctx context.Context, productID int64, filename string, r io.Reader) (string, string, error) {
	overwrite := false
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     fmt.Sprintf("product_%d_%s", productID, baseName(filename)),
		Folder:       imageFolder,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}

	url := res.SecureURL
	if url == "" {
		url = forceHTTPS(res.URL)
	}
	return url, res.PublicID, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, storageID string) error {
	if storageID == "" {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     storageID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func forceHTTPS(in string) string {
	return strings.Replace(strings.TrimSpace(in), "http://", "https://", 1)
}
