// Package archive handles zstd-compressed transcript files: analyzed
// transcripts can be compacted in place, and the parser reads compressed and
// plain files through the same entry point.
package archive

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Ext is the suffix appended to compressed transcripts.
const Ext = ".zst"

// OpenTranscript opens path for reading, transparently decompressing when the
// file carries the zstd suffix. The returned closer must be called when done.
func OpenTranscript(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	if !strings.HasSuffix(path, Ext) {
		return f, func() { f.Close() }, nil
	}

	decoder, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return decoder.IOReadCloser(), func() {
		decoder.Close()
		f.Close()
	}, nil
}

// Compress writes a zstd-compressed copy of srcPath alongside it and removes
// the original. Returns the compressed path.
func Compress(srcPath string) (string, error) {
	if strings.HasSuffix(srcPath, Ext) {
		return srcPath, nil
	}
	destPath := srcPath + Ext

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	if err := os.Remove(srcPath); err != nil {
		return "", fmt.Errorf("remove original: %w", err)
	}

	return destPath, nil
}
