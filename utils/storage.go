package utils

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/princinho/vidstream/models"
)

type ResourceKind string

const (
	ResourceImage ResourceKind = "image"
	ResourceVideo ResourceKind = "video"
)

// MediaStore is the remote media service: upload a local file and get back a
// remote id + public URL, delete by remote id. Uploads block the request;
// deletes are best-effort with no transactional link to the database —
// callers mutate the database first and delete remote assets after, accepting
// the orphan-asset window.
type MediaStore interface {
	Upload(ctx context.Context, localPath string, kind ResourceKind, prefix string) (models.FileRef, error)
	Delete(ctx context.Context, publicID string, kind ResourceKind) error
}

// StorageConfig is read once at startup and passed into the store
// constructor; nothing below reads the environment at call time.
type StorageConfig struct {
	Backend string // "r2" (default) or "gcs"

	Bucket string

	// R2
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain    string // custom domain or r2.dev URL

	// GCS
	CredentialsFile string
}

func LoadStorageConfig() StorageConfig {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("MEDIA_BACKEND")))
	if backend == "" {
		backend = "r2"
	}
	return StorageConfig{
		Backend:         backend,
		Bucket:          os.Getenv("MEDIA_BUCKET"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		Endpoint:        os.Getenv("R2_ENDPOINT"),
		PublicDomain:    os.Getenv("R2_PUBLIC_DOMAIN"),
		CredentialsFile: os.Getenv("CREDENTIALS_FILE_LOCATION"),
	}
}

func NewMediaStore(ctx context.Context, cfg StorageConfig) (MediaStore, error) {
	switch cfg.Backend {
	case "r2":
		return newR2Store(ctx, cfg)
	case "gcs":
		return newGCSStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}

// objectName builds a unique object key: <kind-folder>/<prefix>/<ts>-<uuid><ext>
func objectName(kind ResourceKind, prefix, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = ".bin"
	}
	folder := "images"
	if kind == ResourceVideo {
		folder = "videos"
	}
	if prefix == "" {
		prefix = "misc"
	}
	return fmt.Sprintf("%s/%s/%d-%s%s", folder, prefix, time.Now().UTC().Unix(), uuid.New().String(), ext)
}

func contentTypeFor(localPath string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

// R2Store uploads to Cloudflare R2 through the S3 API.
type R2Store struct {
	s3           *s3.Client
	bucket       string
	publicDomain string
}

func newR2Store(ctx context.Context, cfg StorageConfig) (*R2Store, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 config (MEDIA_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Store{s3: client, bucket: cfg.Bucket, publicDomain: strings.TrimRight(cfg.PublicDomain, "/")}, nil
}

func (r *R2Store) Upload(ctx context.Context, localPath string, kind ResourceKind, prefix string) (models.FileRef, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	name := objectName(kind, prefix, localPath)
	_, err = r.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(name),
		Body:        f,
		ContentType: aws.String(contentTypeFor(localPath)),
	})
	if err != nil {
		return models.FileRef{}, fmt.Errorf("upload %s: %w", name, err)
	}

	return models.FileRef{PublicID: name, URL: r.publicURL(name)}, nil
}

func (r *R2Store) Delete(ctx context.Context, publicID string, _ ResourceKind) error {
	if publicID == "" {
		return nil
	}
	_, err := r.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

func (r *R2Store) publicURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", r.publicDomain, r.bucket, name)
}
