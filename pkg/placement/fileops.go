package placement

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// moveFile renames src to dst. When the rename fails because src and dst
// live on different devices, it falls back to copy+delete and reports the
// fallback so callers can surface the changed failure semantics.
func moveFile(src, dst string) (fellBack bool, err error) {
	err = os.Rename(src, dst)
	if err == nil {
		return false, nil
	}
	if !isCrossDevice(err) {
		return false, err
	}

	if err := copyFile(src, dst); err != nil {
		return true, err
	}
	if err := os.Remove(src); err != nil {
		return true, fmt.Errorf("remove source after cross-device copy: %w", err)
	}
	return true, nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

// copyFile copies src to dst, preserving the file mode and modification
// time so the copy can stand in for the original.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
