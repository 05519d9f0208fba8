package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"course-intel/config"
)

// Persister stores a named blob (screenshot, report) and returns where it
// ended up: a file path, s3:// URI or remote path.
type Persister interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// LocalPersister writes under a directory on disk.
type LocalPersister struct {
	dir string
}

func NewLocalPersister(dir string) *LocalPersister {
	return &LocalPersister{dir: dir}
}

func (p *LocalPersister) Save(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(p.dir, filepath.FromSlash(name))

	// Create output directory if needed (e.g. "output/<run>/")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("could not create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}
	return path, nil
}

// NewPersister picks the backend named by cfg.Storage.
func NewPersister(ctx context.Context, cfg *config.Config) (Persister, error) {
	switch cfg.Storage {
	case "", "local":
		return NewLocalPersister(cfg.OutputDir), nil
	case "s3":
		return NewS3Persister(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Prefix:          cfg.S3Prefix,
		})
	case "sftp":
		return NewSFTPPersister(SFTPConfig{
			Host:      cfg.SFTPHost,
			Port:      cfg.SFTPPort,
			User:      cfg.SFTPUser,
			Pass:      cfg.SFTPPass,
			RemoteDir: cfg.SFTPRemoteDir,
		})
	default:
		return nil, fmt.Errorf("unknown storage %q (want local, s3 or sftp)", cfg.Storage)
	}
}
