package formula

import (
	"bytes"
	"context"
	"crypto"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/formula-updater/internal/logger"
)

const (
	// DefaultFileMode is the permission of written formula files.
	DefaultFileMode os.FileMode = 0o644

	// DefaultDirMode is the permission of created parent directories.
	DefaultDirMode os.FileMode = 0o755
)

// ErrNotFound is returned when the formula file does not exist yet.
var ErrNotFound = errors.New("formula not found")

// Repository defines persistence operations for a rendered formula.
type Repository interface {
	Load(ctx context.Context, path string) ([]byte, error)
	Save(ctx context.Context, path string, content []byte) error
}

// FileRepository stores formulas on the local filesystem.
type FileRepository struct{}

// NewFileRepository creates a filesystem-backed repository.
func NewFileRepository() *FileRepository {
	return new(FileRepository)
}

// Load reads the current formula at path.
func (*FileRepository) Load(_ context.Context, path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read formula %s: %w", path, err)
	}

	return contents, nil
}

// Save replaces the formula at path with content, creating parent
// directories as needed.
func (*FileRepository) Save(ctx context.Context, path string, content []byte) error {
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirMode); err != nil {
		return fmt.Errorf("create formula directory: %w", err)
	}

	// go-update swaps files by renaming the existing target away first.
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.DebugKV(ctx, "Creating formula file", "path", path)

		if err = os.WriteFile(path, nil, DefaultFileMode); err != nil {
			return fmt.Errorf("create formula %s: %w", path, err)
		}
	} else if err != nil {
		return fmt.Errorf("stat formula %s: %w", path, err)
	}

	checksum := sha256.Sum256(content)

	options := goupdate.Options{
		TargetPath: path,
		TargetMode: DefaultFileMode,
		Checksum:   checksum[:],
		Hash:       crypto.SHA256,
	}

	if err := goupdate.Apply(bytes.NewReader(content), options); err != nil {
		return fmt.Errorf("write formula %s: %w", path, err)
	}

	return nil
}
