package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CompactCSV is a small schedule in the compact column layout. It holds two
// dates, a night shift, a quoted run and a zero sentinel.
const CompactCSV = `Date,Truck,Driver,Run,Off,Shift,Start
2025-03-25,12,Smith,"12, Main St",0,Day,0800
03/25/2025,7,Jones,Elm,Adams,Night,1900
2025-03-26,3,Brown Alice,Oak,,Day,0600`

// DepotCSV uses the depot column layout.
const DepotCSV = `Date,Unit,Driver Name,Run,Driver (on days off),Shift,Destination,Start Time
2025-04-01,21A,Maria Lopez,North Loop,0,Day,Harbor,0700
2025-04-01,4,Tom Reed,South,Ann Bell,Night,Airport,2000`

// BrokenCSV lacks the Off column required by the compact layout.
const BrokenCSV = `Date,Truck,Driver,Run,Shift,Start
2025-03-25,12,Smith,Elm,Day,0800`

// WriteFile writes body to name under a fresh temp dir and returns the path
func WriteFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
