package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"timesheet.reports/internal/observability"
)

// TempStore stages generated artifacts on disk before they are streamed to the caller.
type TempStore struct {
	dir string
}

func NewTempStore(dir string) *TempStore {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "timesheet-exports")
	}
	return &TempStore{dir: dir}
}

func (s *TempStore) Dir() string {
	return s.dir
}

// Artifact is a staged file. Release must be called exactly once; it is safe to defer.
type Artifact struct {
	Path string
	Size int64
}

// Stage writes an artifact through write into a uniquely named file. prefix keeps
// concurrent requests for the same client apart together with a random suffix.
func (s *TempStore) Stage(prefix, ext string, write func(io.Writer) error) (*Artifact, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.%s", prefix, uuid.NewString(), ext))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}

	werr := write(f)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
		return nil, werr
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("stat temp file: %w", err)
	}
	return &Artifact{Path: path, Size: info.Size()}, nil
}

// StreamTo copies the staged file to w.
func (a *Artifact) StreamTo(w io.Writer) error {
	f, err := os.Open(a.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Release deletes the staged file. Failures are logged and counted, never returned.
func (a *Artifact) Release(ctx context.Context) {
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		log.Ctx(ctx).Error().Err(err).Str("path", a.Path).Msg("Failed to delete temporary export file")
		observability.RecordTempCleanupFailure()
	}
}
