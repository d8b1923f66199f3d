package cleardir

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// Scanner hashes the regular files directly inside a directory.
type Scanner struct {
	fsmgr    FilesystemManager
	reporter Reporter
	logger   Logger
	opts     Options
}

// NewScanner creates a Scanner bound to one set of options.
func NewScanner(fsmgr FilesystemManager, reporter Reporter, logger Logger, opts Options) *Scanner {
	return &Scanner{
		fsmgr:    fsmgr,
		reporter: reporter,
		logger:   logger,
		opts:     opts,
	}
}

// Scan builds the digest map of dir. Subdirectories are never entered.
//
// A directory that cannot be listed yields a *DirectoryError. An entry that
// cannot be inspected is recorded in ScanResult.EntryErrors and skipped.
// A file that cannot be opened or read yields a *HashError and aborts the
// scan; the partial result is discarded.
func (s *Scanner) Scan(ctx context.Context, dir string) (*ScanResult, error) {
	names, err := s.fsmgr.ListDir(dir)
	if err != nil {
		return nil, &DirectoryError{Path: dir, Err: err}
	}

	s.reporter.DirectoryStart(dir)
	s.logger.Debug("scanning directory", "path", dir, "entries", len(names))

	result := newScanResult(dir)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := entryPath(dir, name)

		info, err := s.fsmgr.Lstat(path)
		if err != nil {
			entryErr := &EntryError{Path: path, Err: err}
			result.EntryErrors = append(result.EntryErrors, entryErr)
			s.reporter.Error(entryErr)
			s.logger.Warn("skipping entry", "path", path, "error", err)
			continue
		}

		if reason, skip := s.skipReason(path, info.Mode()); skip {
			if s.opts.Verbose {
				s.reporter.Skipped(path, reason)
			}
			continue
		}

		digest, err := s.hashFile(path)
		if err != nil {
			return nil, err
		}

		duplicate := result.add(path, digest, info.Size())
		s.reporter.FileHashed(path, digest, duplicate)
	}

	if s.opts.Verbose {
		s.reporter.DigestMap(result)
	}

	s.logger.Info("directory scanned",
		"path", dir,
		"files", result.FileCount(),
		"duplicate_groups", result.DuplicateGroups(),
	)
	return result, nil
}

func (s *Scanner) skipReason(path string, mode fs.FileMode) (SkipReason, bool) {
	switch {
	case mode.IsDir():
		return SkipDirectory, true
	case mode&fs.ModeSymlink != 0:
		return SkipSymlink, true
	case !mode.IsRegular():
		return SkipSpecial, true
	case s.fsmgr.IsIgnored(path):
		return SkipIgnored, true
	}
	return 0, false
}

// entryPath appends name to dir without cleaning dir, so "./photos" yields
// "./photos/a.txt" rather than "photos/a.txt".
func entryPath(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// hashFile streams the file through SHA-256 and returns the lowercase hex digest.
func (s *Scanner) hashFile(path string) (string, error) {
	f, err := s.fsmgr.Open(path)
	if err != nil {
		return "", &HashError{Path: path, Err: err}
	}
	defer f.Close()

	digest, err := HashReader(f)
	if err != nil {
		return "", &HashError{Path: path, Err: err}
	}
	return digest, nil
}

// HashReader returns the lowercase hex SHA-256 digest of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
