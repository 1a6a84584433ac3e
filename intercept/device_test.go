package intercept

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"mtpstub/common"
	"mtpstub/objects"
)

// memSink captures sink output without touching the filesystem.
type memSink struct {
	buf bytes.Buffer
}

type memWriter struct {
	buf *bytes.Buffer
}

func (w memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w memWriter) Close() error                { return nil }

func (s *memSink) Append() (io.WriteCloser, error) {
	return memWriter{buf: &s.buf}, nil
}

func descriptor() *objects.FileInfo {
	return &objects.FileInfo{
		Name:      "a.jpg",
		Oid:       1,
		OidParent: 0,
		StorageID: 5,
		ObjSize:   2048,
		Type:      objects.FileType(3),
	}
}

func connect(t *testing.T, sink Sink, verbose bool) *Device {
	t.Helper()
	d, err := Connect(sink, nil, verbose, 0, zap.NewNop())
	if err != nil {
		t.Fatal("unable to prepare shim:", err)
	}
	return d
}

func TestSendFromReader(t *testing.T) {
	sink := &memSink{}
	d := connect(t, sink, false)
	defer d.Disconnect()

	if err := d.SendFromReader(strings.NewReader("payload"), descriptor(), nil, nil); err != nil {
		t.Fatal("send from reader failed:", err)
	}

	got := sink.buf.String()
	if strings.Count(got, "\n") != 1 {
		t.Fatal("expected exactly one diagnostic line, got:", got)
	}
	for _, part := range []string{"a.jpg", "id=1", "parent=0", "storage=5", "size=2048", "type=3"} {
		if !strings.Contains(got, part) {
			t.Fatalf("diagnostic line misses %q: %q", part, got)
		}
	}
}

func TestSendFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatal("unable to create source file:", err)
	}

	sink := &memSink{}
	d := connect(t, sink, false)
	defer d.Disconnect()

	if err := d.SendFromFile(path, descriptor(), nil, nil); err != nil {
		t.Fatal("send from file failed:", err)
	}

	got := sink.buf.String()
	if strings.Count(got, "\n") != 1 {
		t.Fatal("expected exactly one diagnostic line, got:", got)
	}
	if !strings.Contains(got, path) {
		t.Fatalf("diagnostic line misses source path %q: %q", path, got)
	}
}

func TestSendFromFileMissingSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-file")

	sink := &memSink{}
	d := connect(t, sink, false)
	defer d.Disconnect()

	err := d.SendFromFile(path, descriptor(), nil, nil)
	if err == nil {
		t.Fatal("send of non-existent path did not fail")
	}
	t.Log("got expected error:", err)

	got := sink.buf.String()
	if !strings.Contains(got, "Error opening local file") {
		t.Fatal("open failure was not logged:", got)
	}
	if !strings.Contains(got, path) {
		t.Fatal("open failure log misses source path:", got)
	}
}

func TestSendNilArguments(t *testing.T) {
	d := connect(t, &memSink{}, false)
	defer d.Disconnect()

	if err := d.SendFromReader(strings.NewReader(""), nil, nil, nil); !errors.Is(err, common.ErrNilDescriptor) {
		t.Fatal("nil descriptor was not rejected:", err)
	}
	if err := d.SendFromReader(nil, descriptor(), nil, nil); !errors.Is(err, common.ErrNilSource) {
		t.Fatal("nil source was not rejected:", err)
	}
	if err := d.SendFromFile("", descriptor(), nil, nil); !errors.Is(err, common.ErrNilSource) {
		t.Fatal("empty path was not rejected:", err)
	}
}

func TestSendVerboseDump(t *testing.T) {
	sink := &memSink{}
	d := connect(t, sink, true)
	defer d.Disconnect()

	if err := d.SendFromReader(strings.NewReader("0123456789ABCDEFG"), descriptor(), nil, nil); err != nil {
		t.Fatal("send from reader failed:", err)
	}

	got := sink.buf.String()
	if strings.Count(got, "\n") <= 1 {
		t.Fatal("verbose dump produced no content rows:", got)
	}
	if !strings.Contains(got, "30 31 32 33") {
		t.Fatal("verbose dump misses hex content:", got)
	}
}

func TestDefaultFileSink(t *testing.T) {
	s := NewFileSink("")
	want := filepath.Join(os.TempDir(), DefaultLogName)
	if s.Path != want {
		t.Fatalf("default sink path mismatch: want %q, got %q", want, s.Path)
	}

	s = NewFileSink(filepath.Join(t.TempDir(), "shim.log"))
	w, err := s.Append()
	if err != nil {
		t.Fatal("unable to open sink:", err)
	}
	if _, err := io.WriteString(w, "line\n"); err != nil {
		t.Fatal("unable to write sink:", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal("unable to close sink:", err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatal("unable to read sink file:", err)
	}
	if string(data) != "line\n" {
		t.Fatal("sink content mismatch:", string(data))
	}
}
