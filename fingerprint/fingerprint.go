// Package fingerprint computes content hashes used to detect duplicate
// resumes regardless of their filename.
package fingerprint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/resumatch/core"
)

// ChunkSize is the read size used when streaming content.
const ChunkSize = 4096

// Size is the digest length in bytes.
const Size = 32

// Reader hashes everything read from r with BLAKE2b-256 and returns the hex
// digest. Content is streamed in ChunkSize reads.
func Reader(r io.Reader) (string, error) {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		return "", err
	}

	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// File hashes the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
		}
		return "", err
	}
	defer f.Close()

	return Reader(f)
}

// Bytes hashes an in-memory buffer.
func Bytes(b []byte) string {
	h, _ := blake2b.New(Size, nil)
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}
