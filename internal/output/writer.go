package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"edfconv/internal/fileutil"
	"edfconv/internal/logging"
	"edfconv/internal/services"
	"edfconv/internal/textutil"
	"edfconv/internal/tfrecord"
)

// DefaultExtension is appended to the recording stem when the output path is
// a directory.
const DefaultExtension = ".tfrecord"

// Result describes a completed write.
type Result struct {
	Path     string
	Bytes    int64
	SHA256   string
	Replaced bool
}

// Writer writes single-record TFRecord files.
type Writer struct {
	Overwrite bool
	Lock      bool
	Logger    *slog.Logger
}

// NewWriter returns a Writer that overwrites and locks.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{Overwrite: true, Lock: true, Logger: logger}
}

// Destination resolves the file a conversion writes to. When outputPath is an
// existing directory the record goes to "<dir>/<edf stem><ext>", with the stem
// passed through textutil.SanitizeStem; any other value is used as given.
func Destination(outputPath, edfPath, ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		base := filepath.Base(edfPath)
		stem := textutil.SanitizeStem(strings.TrimSuffix(base, filepath.Ext(base)))
		return filepath.Join(outputPath, stem+ext)
	}
	return outputPath
}

// Write frames record and stores it at path. Errors carry services.ErrWrite.
func (w *Writer) Write(path string, record []byte) (result Result, err error) {
	logger := w.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, services.Wrap(services.ErrWrite, "output", "resolve", "destination path is empty", nil)
	}
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		return Result{}, services.Wrap(services.ErrWrite, "output", "resolve", fmt.Sprintf("%s is a directory", path), nil)
	}

	if w.Lock {
		release, lockErr := acquire(path)
		if lockErr != nil {
			return Result{}, lockErr
		}
		defer func() {
			if releaseErr := release(); releaseErr != nil && err == nil {
				logging.WarnWithContext(logger, "failed to release output lock", "output_lock_release",
					logging.String("path", path),
					logging.Error(releaseErr),
					logging.String(logging.FieldErrorHint, "remove the stale .lock file next to the output"),
					logging.String(logging.FieldImpact, "record was written"),
				)
			}
		}()
	}

	_, statErr := os.Lstat(path)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return Result{}, services.Wrap(services.ErrWrite, "output", "stat", path, statErr)
	}
	if exists && !w.Overwrite {
		return Result{}, services.Wrap(services.ErrWrite, "output", "overwrite", fmt.Sprintf("%s exists and overwrite is disabled", path), nil)
	}

	err = fileutil.WriteAtomic(path, 0o644, func(out io.Writer) error {
		return tfrecord.NewWriter(out).Write(record)
	})
	if err != nil {
		return Result{}, services.Wrap(services.ErrWrite, "output", "write", path, err)
	}

	sum, size, err := fileutil.SHA256(path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrWrite, "output", "checksum", path, err)
	}
	logger.Debug("record written",
		logging.String("path", path),
		logging.Int64("bytes", size),
		logging.String("sha256", sum),
		logging.Bool("replaced", exists),
	)
	return Result{Path: path, Bytes: size, SHA256: sum, Replaced: exists}, nil
}

func acquire(path string) (func() error, error) {
	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrWrite, "output", "lock", lockPath, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrWrite, "output", "lock", fmt.Sprintf("%s is held by another conversion", lockPath), nil)
	}
	return func() error {
		unlockErr := lock.Unlock()
		removeErr := os.Remove(lockPath)
		if errors.Is(removeErr, fs.ErrNotExist) {
			removeErr = nil
		}
		return errors.Join(unlockErr, removeErr)
	}, nil
}
