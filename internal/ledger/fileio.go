package ledger

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/coincontrol-dev/coincontrol/internal/model"
)

const filePerm = 0o644

// readFile returns the entries stored at path. A missing file is an empty
// ledger.
func readFile(path string) ([]model.Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioError("opening ledger", err)
	}
	defer f.Close()

	return ReadEntries(f)
}

// appendRecord adds data to the end of path, creating it if needed. The
// write is undone by truncating to the previous size if it or the sync fails.
func appendRecord(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePerm)
	if err != nil {
		return ioError("opening ledger", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return ioError("stat ledger", err)
	}
	size := info.Size()

	if size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil && !errors.Is(err, io.EOF) {
			f.Close()
			return ioError("reading ledger", err)
		}
		if last[0] != '\n' {
			data = append([]byte{'\n'}, data...)
		}
	}

	if _, err := f.WriteAt(data, size); err != nil {
		_ = f.Truncate(size)
		f.Close()
		return ioError("appending record", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Truncate(size)
		f.Close()
		return ioError("syncing ledger", err)
	}
	if err := f.Close(); err != nil {
		return ioError("closing ledger", err)
	}
	return nil
}

// replaceFile writes a new version of path through a temporary file in the
// same directory and renames it into place, so readers see either the old or
// the new content.
func replaceFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return ioError("creating temp file", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return ioError("writing temp file", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return ioError("chmod temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return ioError("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("closing temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return ioError("replacing ledger", err)
	}
	committed = true
	return nil
}
