package utils

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/princinho/vidstream/models"
)

// GCSStore is the Google Cloud Storage backend of MediaStore.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func newGCSStore(ctx context.Context, cfg StorageConfig) (*GCSStore, error) {
	if cfg.Bucket == "" || cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("missing GCS config (MEDIA_BUCKET, CREDENTIALS_FILE_LOCATION)")
	}
	client, err := storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSStore{client: client, bucket: cfg.Bucket}, nil
}

func (g *GCSStore) Upload(ctx context.Context, localPath string, kind ResourceKind, prefix string) (models.FileRef, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	name := objectName(kind, prefix, localPath)
	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentTypeFor(localPath)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return models.FileRef{}, fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.FileRef{}, fmt.Errorf("upload close: %w", err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name)
	return models.FileRef{PublicID: name, URL: url}, nil
}

func (g *GCSStore) Delete(ctx context.Context, publicID string, _ ResourceKind) error {
	if publicID == "" {
		return nil
	}
	if err := g.client.Bucket(g.bucket).Object(publicID).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}
