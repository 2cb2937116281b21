package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// ChecksumManifest is the on-disk .checksums format.
type ChecksumManifest struct {
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// ComputeBlake3Hash computes the BLAKE3 hash of a file.
func ComputeBlake3Hash(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// VerifyFileHash verifies a file against an expected BLAKE3 hash.
func VerifyFileHash(filePath, expectedHash string) error {
	actualHash, err := ComputeBlake3Hash(filePath)
	if err != nil {
		return fmt.Errorf("failed to compute hash: %w", err)
	}

	if actualHash != expectedHash {
		return fmt.Errorf("hash mismatch for %s: expected %s, got %s",
			filepath.Base(filePath), expectedHash, actualHash)
	}

	return nil
}

// Lock writes a .checksums manifest next to configPath, authorizing its
// current contents. Run 'matrixgen config lock' after editing the file.
func Lock(configPath string) error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	hash, err := ComputeBlake3Hash(absPath)
	if err != nil {
		return err
	}

	manifest := ChecksumManifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Hashes: map[string]string{
			filepath.Base(absPath): hash,
		},
	}

	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal checksums: %w", err)
	}

	checksumPath := filepath.Join(filepath.Dir(absPath), ".checksums")
	if err := os.WriteFile(checksumPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", checksumPath, err)
	}

	return nil
}

// Check verifies configPath against its .checksums manifest.
// A missing manifest is an error: run 'matrixgen config lock' first.
func Check(configPath string) error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	manifest, err := loadChecksums(filepath.Dir(absPath))
	if err != nil {
		return err
	}

	expected, ok := manifest.Hashes[filepath.Base(absPath)]
	if !ok {
		return fmt.Errorf("file %s not in .checksums manifest; run 'matrixgen config lock'", filepath.Base(absPath))
	}

	return VerifyFileHash(absPath, expected)
}

// verifyChecksumIfLocked enforces the manifest only when one exists. An
// unlocked config loads without verification.
func verifyChecksumIfLocked(absPath string) error {
	manifest, err := loadChecksums(filepath.Dir(absPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	expected, ok := manifest.Hashes[filepath.Base(absPath)]
	if !ok {
		return nil
	}

	if err := VerifyFileHash(absPath, expected); err != nil {
		return fmt.Errorf("config integrity check failed: %w\n"+
			"Hint: run 'matrixgen config lock' to authorize the current contents", err)
	}
	return nil
}

func loadChecksums(dir string) (*ChecksumManifest, error) {
	checksumPath := filepath.Join(dir, ".checksums")
	data, err := os.ReadFile(checksumPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no .checksums manifest at %s: %w", checksumPath, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read %s: %w", checksumPath, err)
	}

	var manifest ChecksumManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", checksumPath, err)
	}
	return &manifest, nil
}
