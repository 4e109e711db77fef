package tui

import (
	"fmt"
	"io"
	"os"
)

// maxChunk bounds one read so a huge log does not stall the UI.
const maxChunk = 256 * 1024

// ReadFrom returns at most one chunk of path after offset. When the file shrank
// below offset it was truncated by a new session, and reading restarts at 0.
func ReadFrom(path string, offset int64) (data []byte, next int64, truncated bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, offset, false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, offset, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() < offset {
		offset = 0
		truncated = true
	}
	if info.Size() == offset {
		return nil, offset, truncated, nil
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, truncated, err
	}
	n := info.Size() - offset
	if n > maxChunk {
		n = maxChunk
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, offset, truncated, err
	}
	return buf[:read], offset + int64(read), truncated, nil
}
