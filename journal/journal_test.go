package journal

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"mtpstub/objects"
)

func TestJournalRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), GetName("My Test Device"))
	if filepath.Base(path) != "my-test-device.db" {
		t.Fatal("unexpected journal name:", filepath.Base(path))
	}

	if err := Create(path, zap.NewNop(), "my-test-device"); err != nil {
		t.Fatal("unable to create journal:", err)
	}

	c, err := Connect(path, zap.NewNop())
	if err != nil {
		t.Fatal("unable to open journal:", err)
	}
	defer c.Disconnect()

	fi := &objects.FileInfo{Name: "a.jpg", Oid: 1, StorageID: 5, ObjSize: 2048, Type: objects.FileTypeImage}
	if err := c.Record("SendFromFile", fi, "/tmp/a.jpg"); err != nil {
		t.Fatal("unable to record call:", err)
	}
	if err := c.Record("SendFromReader", fi, ""); err != nil {
		t.Fatal("unable to record call:", err)
	}

	calls, err := c.Calls()
	if err != nil {
		t.Fatal("unable to read calls:", err)
	}
	if len(calls) != 2 {
		t.Fatal("unexpected number of journaled calls:", len(calls))
	}
	if calls[0].Op != "SendFromFile" || calls[0].Path != "/tmp/a.jpg" {
		t.Fatalf("first call mismatch: %+v", calls[0])
	}
	if calls[1].Op != "SendFromReader" || len(calls[1].Path) != 0 {
		t.Fatalf("second call mismatch: %+v", calls[1])
	}
	if calls[0].Info.Name != "a.jpg" || calls[0].Info.ObjSize != 2048 {
		t.Fatalf("descriptor did not survive journaling: %+v", calls[0].Info)
	}
}
