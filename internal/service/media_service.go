package service

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"doglingo_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaProvider stores exercise audio and image files.
type MediaProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalMediaProvider writes uploads to the configured directory.
type LocalMediaProvider struct {
	Config *config.StorageConfig
}

func (p *LocalMediaProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalMediaProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

func (p *LocalMediaProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

// MinioMediaProvider stores uploads in a MinIO bucket.
type MinioMediaProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioMediaProvider(cfg *config.StorageConfig) (*MinioMediaProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioMediaProvider{Config: cfg, Client: client}, nil
}

func (p *MinioMediaProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioMediaProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioMediaProvider) GetURL(filename string) string {
	return "http://" + p.Config.MinioEndpoint + "/" + p.Config.MinioBucket + "/" + filename
}

type MediaService struct {
	Provider MediaProvider
}

func NewMediaService(cfg *config.Config) (*MediaService, error) {
	switch cfg.Storage.Type {
	case "minio":
		provider, err := NewMinioMediaProvider(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		return &MediaService{Provider: provider}, nil
	default:
		return &MediaService{Provider: &LocalMediaProvider{Config: &cfg.Storage}}, nil
	}
}

func (s *MediaService) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, filename, reader, size, contentType)
}
