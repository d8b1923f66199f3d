package cleardir_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleardir/internal/cleardir"
	"cleardir/internal/testutil"
)

func newScanner(fsmgr *testutil.MockFilesystemManager, verbose bool) (*cleardir.Scanner, *testutil.RecordingReporter) {
	rep := testutil.NewRecordingReporter()
	opts := cleardir.Options{Verbose: verbose}
	return cleardir.NewScanner(fsmgr, rep, cleardir.NewNopLogger(), opts), rep
}

func TestScanner_Scan(t *testing.T) {
	t.Run("groups files by content digest in encounter order", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))
		fsmgr.AddFile("photos/bb.txt", []byte("hello"))
		fsmgr.AddFile("photos/other.txt", []byte("world"))
		fsmgr.SetOrder("photos", "bb.txt", "other.txt", "a.txt")

		scanner, rep := newScanner(fsmgr, false)
		result, err := scanner.Scan(context.Background(), "photos")
		require.NoError(t, err)

		hello := testutil.SHA256Hex([]byte("hello"))
		world := testutil.SHA256Hex([]byte("world"))

		assert.Equal(t, "photos", result.Dir)
		assert.Equal(t, []string{"photos/bb.txt", "photos/a.txt"}, result.Groups[hello])
		assert.Equal(t, []string{"photos/other.txt"}, result.Groups[world])
		assert.Equal(t, []string{hello, world}, result.Digests())
		assert.Equal(t, 3, result.FileCount())
		assert.Equal(t, 1, result.DuplicateGroups())
		assert.Equal(t, int64(5), result.Sizes["photos/a.txt"])

		hashed := rep.Filter("hashed")
		require.Len(t, hashed, 3)
		assert.False(t, hashed[0].Duplicate)
		assert.False(t, hashed[1].Duplicate)
		assert.True(t, hashed[2].Duplicate, "second member of a digest is marked as duplicate")
		assert.Equal(t, hello, hashed[2].Digest)
		assert.Equal(t, []string{"directory", "hashed", "hashed", "hashed"}, rep.Kinds())
	})

	t.Run("digest is lowercase hex sha-256", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("d/empty", nil)

		scanner, _ := newScanner(fsmgr, false)
		result, err := scanner.Scan(context.Background(), "d")
		require.NoError(t, err)

		const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		assert.Equal(t, []string{"d/empty"}, result.Groups[emptySHA256])
	})

	t.Run("subdirectories are skipped and never hashed", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))
		fsmgr.AddFile("photos/c/a.txt", []byte("hello"))

		scanner, rep := newScanner(fsmgr, true)
		result, err := scanner.Scan(context.Background(), "photos")
		require.NoError(t, err)

		assert.Equal(t, 1, result.FileCount())
		skipped := rep.Filter("skipped")
		require.Len(t, skipped, 1)
		assert.Equal(t, filepath.Join("photos", "c"), skipped[0].Path)
		assert.Equal(t, cleardir.SkipDirectory, skipped[0].Reason)
	})

	t.Run("quiet mode omits skip notices and the digest map", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))
		fsmgr.AddDirectory("photos/c")

		scanner, rep := newScanner(fsmgr, false)
		_, err := scanner.Scan(context.Background(), "photos")
		require.NoError(t, err)

		assert.Empty(t, rep.Filter("skipped"))
		assert.Empty(t, rep.Dumped)
	})

	t.Run("verbose mode dumps the digest map", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))

		scanner, rep := newScanner(fsmgr, true)
		result, err := scanner.Scan(context.Background(), "photos")
		require.NoError(t, err)

		require.Len(t, rep.Dumped, 1)
		assert.Same(t, result, rep.Dumped[0])
	})

	t.Run("ignored entries are skipped", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("dl/movie.part", []byte("x"))
		fsmgr.AddFile("dl/movie.mkv", []byte("x"))
		fsmgr.SetIgnore("*.part")

		scanner, rep := newScanner(fsmgr, true)
		result, err := scanner.Scan(context.Background(), "dl")
		require.NoError(t, err)

		assert.Equal(t, 1, result.FileCount())
		skipped := rep.Filter("skipped")
		require.Len(t, skipped, 1)
		assert.Equal(t, cleardir.SkipIgnored, skipped[0].Reason)
	})

	t.Run("symlinks are skipped and never hashed", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("d/target.txt", []byte("precious"))
		fsmgr.AddSymlink("target.txt", "d/l")

		scanner, rep := newScanner(fsmgr, true)
		result, err := scanner.Scan(context.Background(), "d")
		require.NoError(t, err)

		assert.Equal(t, 1, result.FileCount())
		assert.Zero(t, result.DuplicateGroups())
		skipped := rep.Filter("skipped")
		require.Len(t, skipped, 1)
		assert.Equal(t, "d/l", skipped[0].Path)
		assert.Equal(t, cleardir.SkipSymlink, skipped[0].Reason)
	})

	t.Run("entry paths keep the spelling of dir", func(t *testing.T) {
		for dir, want := range map[string]string{
			"./d":  "./d/a.txt",
			"./d/": "./d/a.txt",
			"d//":  "d//a.txt",
		} {
			fsmgr := testutil.NewMockFilesystemManager()
			fsmgr.AddFile("d/a.txt", []byte("hello"))

			scanner, _ := newScanner(fsmgr, false)
			result, err := scanner.Scan(context.Background(), dir)
			require.NoError(t, err, dir)

			assert.Equal(t, []string{want}, result.Groups[testutil.SHA256Hex([]byte("hello"))], dir)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddDirectory("empty")

		scanner, rep := newScanner(fsmgr, false)
		result, err := scanner.Scan(context.Background(), "empty")
		require.NoError(t, err)

		assert.Empty(t, result.Groups)
		assert.Zero(t, result.FileCount())
		assert.Equal(t, []string{"directory"}, rep.Kinds())
	})
}

func TestScanner_Scan_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()

		scanner, rep := newScanner(fsmgr, false)
		_, err := scanner.Scan(context.Background(), "missing")

		var dirErr *cleardir.DirectoryError
		require.ErrorAs(t, err, &dirErr)
		assert.Equal(t, "missing", dirErr.Path)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Contains(t, err.Error(), "missing")
		assert.Empty(t, rep.Events, "nothing is reported for a directory that cannot be opened")
	})

	t.Run("path is a file", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("notes.txt", []byte("x"))

		scanner, _ := newScanner(fsmgr, false)
		_, err := scanner.Scan(context.Background(), "notes.txt")

		var dirErr *cleardir.DirectoryError
		require.ErrorAs(t, err, &dirErr)
		assert.ErrorIs(t, err, syscall.ENOTDIR)
	})

	t.Run("entry that cannot be inspected is skipped", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))
		fsmgr.AddFile("photos/b.txt", []byte("hello"))
		fsmgr.SetOrder("photos", "a.txt", "vanished.txt", "b.txt")

		scanner, rep := newScanner(fsmgr, false)
		result, err := scanner.Scan(context.Background(), "photos")
		require.NoError(t, err)

		assert.Equal(t, 2, result.FileCount())
		require.Len(t, result.EntryErrors, 1)
		var entryErr *cleardir.EntryError
		require.ErrorAs(t, result.EntryErrors[0], &entryErr)
		assert.Equal(t, "photos/vanished.txt", entryErr.Path)
		assert.ErrorIs(t, entryErr, fs.ErrNotExist)
		assert.Len(t, rep.Errors(), 1)
	})

	t.Run("permission denied on stat is an entry error", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))
		fsmgr.AddFile("photos/locked.txt", []byte("hello"))
		fsmgr.FailStat("photos/locked.txt", fs.ErrPermission)

		scanner, _ := newScanner(fsmgr, false)
		result, err := scanner.Scan(context.Background(), "photos")
		require.NoError(t, err)

		assert.Equal(t, 1, result.FileCount())
		require.Len(t, result.EntryErrors, 1)
		assert.ErrorIs(t, result.EntryErrors[0], fs.ErrPermission)
	})

	t.Run("open failure aborts the directory", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))
		fsmgr.AddFile("photos/b.txt", []byte("hello"))
		fsmgr.FailOpen("photos/a.txt", fs.ErrPermission)

		scanner, _ := newScanner(fsmgr, false)
		result, err := scanner.Scan(context.Background(), "photos")

		assert.Nil(t, result)
		var hashErr *cleardir.HashError
		require.ErrorAs(t, err, &hashErr)
		assert.Equal(t, "photos/a.txt", hashErr.Path)
		assert.ErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("cancelled context stops between entries", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("photos/a.txt", []byte("hello"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		scanner, _ := newScanner(fsmgr, false)
		_, err := scanner.Scan(ctx, "photos")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestHashReader(t *testing.T) {
	got, err := cleardir.HashReader(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, testutil.SHA256Hex([]byte("hello")), got)
	assert.Len(t, got, 64)
}
