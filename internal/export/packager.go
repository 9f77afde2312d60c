package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/storage"
)

// Entry is one named binary blob destined for an archive
type Entry struct {
	Ext      string
	OrderKey time.Time
	Data     []byte
}

// BuildArchive packages entries into a single zip blob. Entries are sorted
// ascending by their order key, then renamed {1..N}.{ext} so the archive
// reads in capture order regardless of input order. An empty input is an
// error, never a silently empty archive.
func BuildArchive(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyExport
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderKey.Before(sorted[j].OrderKey)
	})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, entry := range sorted {
		ext := entry.Ext
		if ext == "" {
			ext = "jpg"
		}
		w, err := zw.Create(fmt.Sprintf("%d.%s", i+1, ext))
		if err != nil {
			return nil, fmt.Errorf("failed to add archive entry: %w", err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// ArchiveFilename computes the deterministic download name
// {subject}_{kind}_{date}.zip with the subject stripped to alphanumerics
func ArchiveFilename(subject, kind string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.zip", storage.SanitizeName(subject), kind, t.Format("2006-01-02"))
}
