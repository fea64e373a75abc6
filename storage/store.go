// Package storage holds the image file backends. Report images are stored
// under keys of the form relatorios/{reportID}/{name}; the submission and
// deletion flows in controllers treat Save/Delete as synchronous and let
// errors abort the surrounding database transaction.
package storage

import (
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/relatoria/api-go/config"
)

type ImageStore interface {
	// Save writes the blob under key, creating parent locations as needed.
	Save(key string, r io.Reader) error
	// Delete removes the blob. A missing blob is not an error: the row is
	// the source of truth and the file may already be gone.
	Delete(key string) error
	// Exists reports whether a blob is present under key.
	Exists(key string) (bool, error)
}

// ImageKey builds the stored key for one report image. The uuid keeps
// distinct uploads with the same client filename from colliding while the
// extension survives for content sniffing by static servers.
func ImageKey(reportID uint, fileName string) string {
	ext := path.Ext(fileName)
	return fmt.Sprintf("relatorios/%d/%s%s", reportID, uuid.New().String(), ext)
}

// NewStore picks the backend from configuration.
func NewStore(cfg *config.StorageConfig) (ImageStore, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Store(cfg)
	case "local":
		return NewLocalStore(cfg.MediaRoot)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
