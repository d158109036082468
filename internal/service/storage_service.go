package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/logger"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Generated documents stay downloadable through signed links for a week.
const signedURLExpiry = 7 * 24 * time.Hour

// StorageProvider keeps generated documents such as certificates. Keys are
// slash separated and relative.
type StorageProvider interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (url string, err error)
	Remove(ctx context.Context, key string) error
	Name() string
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

// LocalStorageProvider writes under Root; the router serves Root at /uploads.
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) Name() string { return util.StorageLocal }

// Put writes to a temporary file first so readers never see half a document.
func (p *LocalStorageProvider) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(p.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}

func (p *LocalStorageProvider) Remove(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(p.Root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MinioStorageProvider stores objects in a MinIO bucket and hands out presigned links.
type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStorageProvider(ctx context.Context, cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	endpoint := cfg.MinioEndpoint
	secure := strings.HasPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	if endpoint == "" || cfg.MinioBucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Name() string { return util.StorageMinio }

func (p *MinioStorageProvider) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	_, err = p.Client.PutObject(ctx, p.Bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	signed, err := p.Client.PresignedGetObject(ctx, p.Bucket, key, signedURLExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return signed.String(), nil
}

func (p *MinioStorageProvider) Remove(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

// OSSStorageProvider stores objects in an Aliyun OSS bucket and hands out signed links.
type OSSStorageProvider struct {
	Bucket *oss.Bucket
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSBucket == "" {
		return nil, fmt.Errorf("oss endpoint and bucket are required")
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Bucket: bucket}, nil
}

func (p *OSSStorageProvider) Name() string { return util.StorageOSS }

func (p *OSSStorageProvider) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := p.Bucket.PutObject(key, bytes.NewReader(body), oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return p.Bucket.SignURL(key, oss.HTTPGet, int64(signedURLExpiry/time.Second))
}

func (p *OSSStorageProvider) Remove(ctx context.Context, key string) error {
	return p.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

type StorageService struct {
	Provider StorageProvider
}

// NewStorageService falls back to local storage when the remote provider cannot be built.
func NewStorageService(cfg *config.Config) *StorageService {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		provider StorageProvider
		err      error
	)
	switch cfg.Storage.Type {
	case util.StorageMinio:
		provider, err = NewMinioStorageProvider(ctx, &cfg.Storage)
	case util.StorageOSS:
		provider, err = NewOSSStorageProvider(&cfg.Storage)
	}
	if err != nil {
		logger.Log.Warn("remote storage unavailable, using local storage",
			zap.String("type", cfg.Storage.Type),
			zap.Error(err))
		provider = nil
	}

	if provider == nil {
		provider = &LocalStorageProvider{Root: cfg.Storage.LocalPath}
	}
	logger.Log.Info("storage ready", zap.String("provider", provider.Name()))
	return &StorageService{Provider: provider}
}

func (s *StorageService) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	url, err := s.Provider.Put(ctx, key, body, contentType)
	if err != nil {
		return "", fmt.Errorf("%s storage: %w", s.Provider.Name(), err)
	}
	return url, nil
}

func (s *StorageService) Remove(ctx context.Context, key string) error {
	return s.Provider.Remove(ctx, key)
}
