package extract_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/indrora/minutar/minutar/extract"
	"github.com/indrora/minutar/minutar/format"
	"github.com/indrora/minutar/minutar/tartest"
)

type recorder struct {
	events []extract.Event
}

func (r *recorder) Report(e extract.Event) { r.events = append(r.events, e) }

func (r *recorder) lines() []string {
	var out []string
	for _, e := range r.events {
		out = append(out, e.String())
	}
	return out
}

func quietLogger() (*logrus.Logger, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func TestExtractAllEndToEnd(t *testing.T) {
	dir := t.TempDir()
	archive := tartest.NewArchive().
		Add(tartest.Entry{Name: "out/", Type: '5'}).
		Add(tartest.Entry{Name: "out/hello.txt", Type: '0', Content: []byte("hi\n")}).
		Close()

	rec := &recorder{}
	logger, _ := quietLogger()
	ok := extract.ExtractAll(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(rec),
		extract.WithLogger(logger),
	)
	require.True(t, ok)

	info, err := os.Stat(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	content, err := os.ReadFile(filepath.Join(dir, "out", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hi\n"), content)

	assert.Equal(t, []string{"out/", "out/hello.txt (3 bytes)"}, rec.lines())
}

func TestExtractAllBestEffort(t *testing.T) {
	dir := t.TempDir()
	// a directory where the first file should go
	require.NoError(t, os.Mkdir(filepath.Join(dir, "blocked"), 0o755))

	archive := tartest.NewArchive().
		Add(tartest.Entry{Name: "blocked", Type: '0', Content: bytes.Repeat([]byte("x"), 700)}).
		Add(tartest.Entry{Name: "fine.txt", Type: '0', Content: []byte("still here\n")}).
		Close()

	rec := &recorder{}
	logger, hook := quietLogger()
	ok := extract.ExtractAll(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(rec),
		extract.WithLogger(logger),
	)
	assert.False(t, ok)

	content, err := os.ReadFile(filepath.Join(dir, "fine.txt"))
	require.NoError(t, err)
	assert.Equal(t, "still here\n", string(content))
	assert.Equal(t, []string{"fine.txt (11 bytes)"}, rec.lines())

	var failures []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			failures = append(failures, entry)
		}
	}
	require.Len(t, failures, 1)
	assert.Equal(t, "blocked", failures[0].Data["name"])
}

func TestWalkerStopsOnFramingError(t *testing.T) {
	dir := t.TempDir()
	bad := tartest.Header(tartest.Entry{Name: "second.txt", Type: '0'})
	bad[0] = 'S'
	archive := tartest.NewArchive().
		Add(tartest.Entry{Name: "first.txt", Type: '0', Content: []byte("1")}).
		AddBlock(bad).
		Add(tartest.Entry{Name: "third.txt", Type: '0', Content: []byte("3")}).
		Close()

	logger, _ := quietLogger()
	w := extract.NewWalker(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(nil),
		extract.WithLogger(logger),
	)
	ok, err := w.Walk()
	assert.False(t, ok)
	assert.ErrorIs(t, err, format.ErrFormat)

	assert.FileExists(t, filepath.Join(dir, "first.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "third.txt"))
}

func TestWalkerTruncatedContentIsFatal(t *testing.T) {
	dir := t.TempDir()
	archive := tartest.NewArchive().
		AddBlock(tartest.Header(tartest.Entry{Name: "cut.bin", Type: '0', Size: 4096})).
		Raw(bytes.Repeat([]byte("y"), 1000))

	logger, _ := quietLogger()
	w := extract.NewWalker(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(nil),
		extract.WithLogger(logger),
	)
	ok, err := w.Walk()
	assert.False(t, ok)
	assert.ErrorIs(t, err, format.ErrTruncated)
	assert.False(t, extract.IsFilesystemError(err))
}

func TestExtractCreatesMissingParents(t *testing.T) {
	dir := t.TempDir()
	archive := tartest.NewArchive().
		Add(tartest.Entry{Name: "/a/b/c/deep.txt", Type: '0', Content: []byte("deep")}).
		Close()

	logger, _ := quietLogger()
	ok := extract.ExtractAll(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(nil),
		extract.WithLogger(logger),
	)
	require.True(t, ok)
	assert.FileExists(t, filepath.Join(dir, "a", "b", "c", "deep.txt"))
}

func TestExtractFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := t.TempDir()
	archive := tartest.NewArchive().
		Add(tartest.Entry{Name: "private", Type: '0', Mode: 0o600, Content: []byte("p")}).
		Add(tartest.Entry{Name: "open", Type: '0', Mode: 0o777, Content: []byte("o")}).
		Close()

	logger, _ := quietLogger()
	require.True(t, extract.ExtractAll(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(nil),
		extract.WithLogger(logger),
	))

	info, err := os.Stat(filepath.Join(dir, "private"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dir, "open"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o777), info.Mode().Perm())
}

func TestExtractLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("links need privileges on windows")
	}
	dir := t.TempDir()
	archive := tartest.NewArchive().
		Add(tartest.Entry{Name: "data/original.txt", Type: '0', Content: []byte("shared")}).
		Add(tartest.Entry{Name: "data/hard.txt", Type: '1', LinkName: "data/original.txt"}).
		Add(tartest.Entry{Name: "data/soft.txt", Type: '2', LinkName: "original.txt"}).
		Close()

	rec := &recorder{}
	logger, _ := quietLogger()
	require.True(t, extract.ExtractAll(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(rec),
		extract.WithLogger(logger),
	))

	content, err := os.ReadFile(filepath.Join(dir, "data", "hard.txt"))
	require.NoError(t, err)
	assert.Equal(t, "shared", string(content))

	target, err := os.Readlink(filepath.Join(dir, "data", "soft.txt"))
	require.NoError(t, err)
	assert.Equal(t, "original.txt", target)

	assert.Equal(t, []string{
		"data/original.txt (6 bytes)",
		"data/hard.txt link to data/original.txt",
		"data/soft.txt -> original.txt",
	}, rec.lines())
}

func TestExtractLongNamedFile(t *testing.T) {
	dir := t.TempDir()
	archive := tartest.NewArchive().
		LongName("a/very/long/name.txt").
		Add(tartest.Entry{Name: "short.txt", Type: '0', Content: []byte("long")}).
		Close()

	logger, _ := quietLogger()
	require.True(t, extract.ExtractAll(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(nil),
		extract.WithLogger(logger),
	))
	assert.FileExists(t, filepath.Join(dir, "a", "very", "long", "name.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "short.txt"))
}

func TestExtractFifo(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no fifos on windows")
	}
	dir := t.TempDir()
	archive := tartest.NewArchive().
		Add(tartest.Entry{Name: "pipe", Type: '6', Mode: 0o600}).
		Close()

	rec := &recorder{}
	logger, _ := quietLogger()
	require.True(t, extract.ExtractAll(archive.Reader(),
		extract.WithDirectory(dir),
		extract.WithReporter(rec),
		extract.WithLogger(logger),
	))

	info, err := os.Lstat(filepath.Join(dir, "pipe"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeNamedPipe)
	assert.Equal(t, []string{"pipe (fifo)"}, rec.lines())
}

func TestExtractCharDevice(t *testing.T) {
	dir := t.TempDir()
	ext := extract.NewExtractor(extract.WithDirectory(dir), extract.WithReporter(nil))
	rec := &format.FileRecord{Name: "null", Type: format.TYPE_CHAR_DEVICE, Mode: 0o666, DevMajor: 1, DevMinor: 3}

	// Creating device nodes needs privileges; either outcome must be a
	// node-level result, never a framing error.
	err := ext.Extract(rec, bytes.NewReader(nil))
	if err != nil {
		assert.True(t, extract.IsFilesystemError(err), "%v", err)
		return
	}
	info, err := os.Lstat(filepath.Join(dir, "null"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeCharDevice)
}

func TestExtractDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "existing"), 0o755))

	ext := extract.NewExtractor(extract.WithDirectory(dir), extract.WithReporter(nil))
	err := ext.Extract(&format.FileRecord{Name: "existing/", Type: format.TYPE_DIRECTORY, Mode: 0o755}, bytes.NewReader(nil))
	assert.NoError(t, err)
}

func TestExtractContractViolations(t *testing.T) {
	dir := t.TempDir()
	ext := extract.NewExtractor(extract.WithDirectory(dir), extract.WithReporter(nil))

	err := ext.Extract(&format.FileRecord{Name: "ln", Type: format.TYPE_HARDLINK}, bytes.NewReader(nil))
	assert.True(t, extract.IsFilesystemError(err))
	assert.ErrorIs(t, err, extract.ErrMissingLinkTarget)

	err = ext.Extract(&format.FileRecord{Name: "", Type: format.TYPE_REGULAR}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, extract.ErrEmptyName)

	err = ext.Extract(&format.FileRecord{Name: "x", Type: format.TYPE_END_OF_ARCHIVE}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, format.ErrFormat)
}

func TestExtractSmallBufferAndDigest(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("0123456789abcdef"), 400)
	var events []extract.Event
	ext := extract.NewExtractor(
		extract.WithDirectory(dir),
		extract.WithBufferSize(1),
		extract.WithDigests(true),
		extract.WithReporter(extract.ReporterFunc(func(e extract.Event) { events = append(events, e) })),
	)

	rec := &format.FileRecord{Name: "big.bin", Type: format.TYPE_REGULAR, Mode: 0o644, Size: int64(len(payload))}
	require.NoError(t, ext.Extract(rec, bytes.NewReader(payload)))

	content, err := os.ReadFile(filepath.Join(dir, "big.bin"))
	require.NoError(t, err)
	assert.Equal(t, payload, content)

	want := blake2b.Sum256(payload)
	require.Len(t, events, 1)
	assert.Equal(t, want[:], events[0].Digest)
	assert.Contains(t, events[0].String(), "blake2b-256:")
}

func TestExtractShortContent(t *testing.T) {
	dir := t.TempDir()
	ext := extract.NewExtractor(extract.WithDirectory(dir), extract.WithReporter(nil))
	rec := &format.FileRecord{Name: "short", Type: format.TYPE_REGULAR, Mode: 0o644, Size: 100}

	err := ext.Extract(rec, bytes.NewReader([]byte("ten bytes!")))
	assert.ErrorIs(t, err, format.ErrTruncated)
	assert.False(t, extract.IsFilesystemError(err))
}
