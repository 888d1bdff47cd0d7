// The recio package acquires replay bytes from files and bundles.
//
// A bundle is a replay compressed with LZ4. It begins with the length of the
// uncompressed replay as a little-endian uint32, followed by a single LZ4
// block. Bundles are identified by the BundleExt file extension.
package recio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	lz4 "github.com/bkaradzic/go-lz4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// BundleExt is the file extension of a bundle.
const BundleExt = ".lz4"

// MaxSize is the largest uncompressed size accepted from a bundle.
const MaxSize = 1 << 30

// IsBundle returns whether path names a bundle.
func IsBundle(path string) bool {
	return strings.EqualFold(filepath.Ext(path), BundleExt)
}

// ReadFile returns the replay stored in the file at path. If the file is a
// bundle, it is decompressed.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read replay")
	}
	if !IsBundle(path) {
		return b, nil
	}
	b, err = Decompress(b)
	if err != nil {
		return nil, errors.Wrapf(err, "bundle %s", filepath.Base(path))
	}
	return b, nil
}

// WriteFile writes replay to the file at path, compressing it first if path
// names a bundle.
func WriteFile(path string, replay []byte) error {
	if IsBundle(path) {
		var err error
		if replay, err = Compress(replay); err != nil {
			return err
		}
	}
	return errors.Wrap(os.WriteFile(path, replay, 0666), "write replay")
}

// Compress returns replay as a bundle.
func Compress(replay []byte) ([]byte, error) {
	var bundle []byte
	bundle, err := lz4.Encode(bundle, replay)
	if err != nil {
		return nil, errors.Wrap(err, "lz4")
	}
	return bundle, nil
}

// Decompress returns the replay held by bundle.
func Decompress(bundle []byte) ([]byte, error) {
	if len(bundle) < 4 {
		return nil, errors.New("bundle too short")
	}
	n := binary.LittleEndian.Uint32(bundle)
	if n > MaxSize {
		return nil, errors.Errorf("bundle size %d exceeds maximum", n)
	}
	replay, err := lz4.Decode(make([]byte, n), bundle)
	if err != nil {
		return nil, errors.Wrap(err, "lz4")
	}
	if len(replay) != int(n) {
		return nil, errors.Errorf("bundle holds %d bytes, expected %d", len(replay), n)
	}
	return replay, nil
}

// Digest returns the BLAKE2b-256 digest of replay, which identifies it
// regardless of file name or compression.
func Digest(replay []byte) [blake2b.Size256]byte {
	return blake2b.Sum256(replay)
}
