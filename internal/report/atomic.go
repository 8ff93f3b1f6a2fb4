package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Permissions of written files and directories. Records carry VNC
// passwords, so output is readable by the owner only.
const (
	filePerm = 0600
	dirPerm  = 0750
)

// ErrFilesystem is returned when an output directory or file cannot be
// created or written.
var ErrFilesystem = errors.New("filesystem error")

// writeFileAtomic creates path with the content produced by write.
// The content goes to a temporary file in the same directory that is
// renamed over path only when write and every file operation succeed.
// On failure the temporary file is removed and path is left untouched.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %w", ErrFilesystem, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file in %s: %w", ErrFilesystem, dir, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()        //nolint:errcheck // already failing
			_ = os.Remove(tmpName) //nolint:errcheck
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrFilesystem, path, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("%w: failed to set permissions on %s: %w", ErrFilesystem, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", ErrFilesystem, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to move output into place at %s: %w", ErrFilesystem, path, err)
	}
	return nil
}
