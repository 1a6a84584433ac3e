package files

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"mtpstub/objects"
)

func TestDescribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.JPG")
	if err := os.WriteFile(path, []byte("not really a jpeg"), 0644); err != nil {
		t.Fatal("unable to create file:", err)
	}

	fi, err := Describe(path, zap.NewNop())
	if err != nil {
		t.Fatal("describe failed:", err)
	}
	if fi.Name != "cover.JPG" {
		t.Fatal("unexpected name:", fi.Name)
	}
	if fi.ObjSize != int64(len("not really a jpeg")) {
		t.Fatal("unexpected size:", fi.ObjSize)
	}
	if fi.Type != objects.FileTypeImage {
		t.Fatal("unexpected type:", fi.Type)
	}
}

func TestDescribeMissing(t *testing.T) {
	if _, err := Describe(filepath.Join(t.TempDir(), "absent"), zap.NewNop()); err == nil {
		t.Fatal("describe of missing file did not fail")
	}
}

func TestTypeByName(t *testing.T) {
	if TypeByName("book.azw3") != objects.FileTypeEbook {
		t.Fatal("azw3 is not an ebook")
	}
	if TypeByName("data.bin") != objects.FileTypeUnknown {
		t.Fatal("bin is not unknown")
	}
}
