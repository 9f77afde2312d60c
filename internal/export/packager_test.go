package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		files[f.Name] = content
	}
	return files
}

func TestBuildArchiveOrdersByCaptureTime(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Deliberately out of order
	entries := []Entry{
		{Ext: "jpg", OrderKey: base.Add(2 * time.Hour), Data: []byte("third")},
		{Ext: "jpg", OrderKey: base, Data: []byte("first")},
		{Ext: "jpg", OrderKey: base.Add(time.Hour), Data: []byte("second")},
	}

	data, err := BuildArchive(entries)
	if err != nil {
		t.Fatalf("BuildArchive() error = %v", err)
	}

	files := readArchive(t, data)
	if len(files) != 3 {
		t.Fatalf("archive has %d entries, want 3", len(files))
	}
	for name, want := range map[string]string{
		"1.jpg": "first",
		"2.jpg": "second",
		"3.jpg": "third",
	} {
		if got := string(files[name]); got != want {
			t.Errorf("entry %s = %q, want %q", name, got, want)
		}
	}
}

func TestBuildArchiveEmptyInput(t *testing.T) {
	_, err := BuildArchive(nil)
	if !errors.Is(err, ErrEmptyExport) {
		t.Errorf("BuildArchive(nil) error = %v, want ErrEmptyExport", err)
	}
	_, err = BuildArchive([]Entry{})
	if !errors.Is(err, ErrEmptyExport) {
		t.Errorf("BuildArchive(empty) error = %v, want ErrEmptyExport", err)
	}
}

func TestBuildArchiveDefaultsExtension(t *testing.T) {
	data, err := BuildArchive([]Entry{{OrderKey: time.Now(), Data: []byte("x")}})
	if err != nil {
		t.Fatalf("BuildArchive() error = %v", err)
	}
	files := readArchive(t, data)
	if _, ok := files["1.jpg"]; !ok {
		t.Errorf("expected entry 1.jpg, got %v", keys(files))
	}
}

func TestBuildArchivePartialSurvivors(t *testing.T) {
	// Four survivors out of what was once five sources still number 1..4
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	var entries []Entry
	for i := 0; i < 4; i++ {
		entries = append(entries, Entry{
			Ext:      "jpg",
			OrderKey: base.Add(time.Duration(i) * time.Minute),
			Data:     []byte{byte(i)},
		})
	}

	data, err := BuildArchive(entries)
	if err != nil {
		t.Fatalf("BuildArchive() error = %v", err)
	}
	files := readArchive(t, data)
	for _, name := range []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg"} {
		if _, ok := files[name]; !ok {
			t.Errorf("missing entry %s", name)
		}
	}
	if _, ok := files["5.jpg"]; ok {
		t.Error("unexpected fifth entry")
	}
}

func TestArchiveFilename(t *testing.T) {
	ts := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		subject string
		kind    string
		want    string
	}{
		{"Highway 44 Bridge", "progress-images", "Highway44Bridge_progress-images_2026-08-31.zip"},
		{"Sai Balaji (Phase 2)", "final-images", "SaiBalajiPhase2_final-images_2026-08-31.zip"},
		{"../../etc/passwd", "progress-images", "etcpasswd_progress-images_2026-08-31.zip"},
	}

	for _, tt := range tests {
		if got := ArchiveFilename(tt.subject, tt.kind, ts); got != tt.want {
			t.Errorf("ArchiveFilename(%q) = %q, want %q", tt.subject, got, tt.want)
		}
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
