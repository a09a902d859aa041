package oracle

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/eth2030/eth2030/log"
)

// FilesystemOracle loads preimages lazily from hex-named files under a
// root directory; the "--preimage-files" and "--multi-preimage-file" CLI
// flags instead load eagerly through LoadPreimageFile and
// LoadMultiPreimageFile. A file's content is rehashed with
// SHA-256 on read; a mismatch against the requested key is logged, not
// treated as fatal, matching the upstream filesystem backend's behavior.
type FilesystemOracle struct {
	rootDir string

	mu    sync.Mutex
	cache map[Hash][]byte
	log   *log.Logger
}

// NewFilesystemOracle creates a FilesystemOracle reading files named
// "0x<hex(hash)>" under rootDir.
func NewFilesystemOracle(rootDir string) *FilesystemOracle {
	return &FilesystemOracle{
		rootDir: rootDir,
		cache:   make(map[Hash][]byte),
		log:     log.Default().Module("oracle"),
	}
}

func (f *FilesystemOracle) load(key Hash) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if v, ok := f.cache[key]; ok {
		return v, nil
	}

	name := "0x" + hex.EncodeToString(key[:])
	data, err := os.ReadFile(filepath.Join(f.rootDir, name))
	if err != nil {
		return nil, ErrPreimageNotFound
	}

	if got := sha256.Sum256(data); Hash(got) != key {
		f.log.Warn("preimage content hash mismatch", "file", name, "got", hex.EncodeToString(got[:]))
	}

	f.cache[key] = data
	return data, nil
}

// Map implements Oracle.
func (f *FilesystemOracle) Map(key Hash, apply func([]byte) (any, error)) (any, error) {
	data, err := f.load(key)
	if err != nil {
		return nil, err
	}
	return apply(data)
}

// GetCached implements Oracle.
func (f *FilesystemOracle) GetCached(key Hash) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.cache[key]
	return v, ok
}

// LoadMultiPreimageFile loads a file of repeated 32-byte-key || 64-byte-value
// records into the cache, as produced by "--multi-preimage-file" (used for
// SSZ branch preimages where each value is exactly a pair of children).
func (f *FilesystemOracle) LoadMultiPreimageFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	const recordLen = 32 + 64
	f.mu.Lock()
	defer f.mu.Unlock()
	for off := 0; off+recordLen <= len(data); off += recordLen {
		var key Hash
		copy(key[:], data[off:off+32])
		value := make([]byte, 64)
		copy(value, data[off+32:off+96])
		f.cache[key] = value
	}
	return nil
}

// LoadPreimageFile loads a single raw-bytes preimage file, keyed by the
// SHA-256 hash of its content (not any beacon-chain hash function).
func (f *FilesystemOracle) LoadPreimageFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	key := Hash(sha256.Sum256(data))
	f.mu.Lock()
	f.cache[key] = data
	f.mu.Unlock()
	return nil
}
