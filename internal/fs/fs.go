package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/shipgatedev/shipgate/pkg/encoding"
)

var ErrDecode = errors.New("decoding error")

func ReadFile(filename string, w io.Writer) (int64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}

func ReadDecodeFile(filename string, w encoding.WriterDecoder) (any, error) {
	if _, err := ReadFile(filename, w); err != nil {
		return nil, err
	}
	return w.Decode()
}

// CopyFile copies src to dst preserving the source file mode. Release
// artifacts are copied into staging, never moved.
func CopyFile(src string, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer out.Close()
	return ReadFile(src, out)
}
