package torrent

import (
	"crypto/sha1"
	"os"
	"path/filepath"
	"testing"

	"github.com/tajoumaru/torrite/internal/scanner"
)

func writeTempFile(t *testing.T, dir, name string, size int, fill byte) scanner.FileEntry {
	t.Helper()
	path := filepath.Join(dir, name)
	data := make([]byte, size)
	for i := range data {
		data[i] = fill
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return scanner.FileEntry{Path: []string{name}, Length: int64(size), Abs: path}
}

func TestV1Pipeline_singleFile(t *testing.T) {
	dir := t.TempDir()
	f := writeTempFile(t, dir, "a.bin", 1<<20, 0xAA) // 1 MiB of 0xAA

	pieceLength := int64(1 << 18) // 256 KiB -> 4 pieces
	pieces, err := v1Pipeline([]scanner.FileEntry{f}, pieceLength, 4, 2, nil, nil)
	if err != nil {
		t.Fatalf("v1Pipeline: %v", err)
	}
	if len(pieces) != 4*sha1.Size {
		t.Fatalf("pieces length = %d, want %d", len(pieces), 4*sha1.Size)
	}

	buf := make([]byte, pieceLength)
	for i := range buf {
		buf[i] = 0xAA
	}
	wantSum := sha1.Sum(buf)
	for i := 0; i < 4; i++ {
		got := pieces[i*sha1.Size : (i+1)*sha1.Size]
		if string(got) != string(wantSum[:]) {
			t.Errorf("piece %d mismatch", i)
		}
	}
}

func TestV1Pipeline_spansFileBoundary(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.bin", 100, 0x01)
	b := writeTempFile(t, dir, "b.bin", 300, 0x02)

	pieceLength := int64(1 << 18)
	pieces, err := v1Pipeline([]scanner.FileEntry{a, b}, pieceLength, 1, 2, nil, nil)
	if err != nil {
		t.Fatalf("v1Pipeline: %v", err)
	}

	expected := make([]byte, 400)
	for i := 0; i < 100; i++ {
		expected[i] = 0x01
	}
	for i := 100; i < 400; i++ {
		expected[i] = 0x02
	}
	want := sha1.Sum(expected)
	if string(pieces) != string(want[:]) {
		t.Error("single piece spanning two files did not match expected content hash")
	}
}

func TestHashFileV2_emptyFile(t *testing.T) {
	r, err := hashFileV2(scanner.FileEntry{Length: 0}, 1<<18)
	if err != nil {
		t.Fatalf("hashFileV2: %v", err)
	}
	if r.root != zeroHash {
		t.Error("empty file should produce the zero-hash root")
	}
}

func TestHashFileV2_leafCount(t *testing.T) {
	dir := t.TempDir()
	f := writeTempFile(t, dir, "a.bin", 1<<20, 0xAA) // 1 MiB -> 64 leaves

	r, err := hashFileV2(f, 1<<18)
	if err != nil {
		t.Fatalf("hashFileV2: %v", err)
	}
	if len(r.layer) != 4 {
		t.Errorf("pieces root layer length = %d, want 4", len(r.layer))
	}
}

func TestHashFileHybrid_matchesSeparatePipelines(t *testing.T) {
	dir := t.TempDir()
	f := writeTempFile(t, dir, "a.bin", 1<<20, 0xAA)

	pieceLength := int64(1 << 18)
	v2Want, err := hashFileV2(f, pieceLength)
	if err != nil {
		t.Fatal(err)
	}

	hybrid, err := hashFileHybrid(f, pieceLength)
	if err != nil {
		t.Fatal(err)
	}
	if hybrid.v2.root != v2Want.root {
		t.Error("hybrid v2 root mismatch against standalone v2 pipeline")
	}
	if len(hybrid.v1Pieces) != 4 {
		t.Fatalf("v1 piece count = %d, want 4", len(hybrid.v1Pieces))
	}

	buf := make([]byte, pieceLength)
	for i := range buf {
		buf[i] = 0xAA
	}
	want := sha1.Sum(buf)
	for i, p := range hybrid.v1Pieces {
		if string(p[:]) != string(want[:]) {
			t.Errorf("hybrid v1 piece %d mismatch", i)
		}
	}
}

func TestHashFileHybrid_shortFinalPieceZeroPadded(t *testing.T) {
	dir := t.TempDir()
	f := writeTempFile(t, dir, "a.bin", 100, 0x7F) // one short piece

	pieceLength := int64(1 << 18)
	hybrid, err := hashFileHybrid(f, pieceLength)
	if err != nil {
		t.Fatal(err)
	}
	if len(hybrid.v1Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(hybrid.v1Pieces))
	}

	buf := make([]byte, pieceLength)
	for i := 0; i < 100; i++ {
		buf[i] = 0x7F
	}
	want := sha1.Sum(buf)
	if string(hybrid.v1Pieces[0][:]) != string(want[:]) {
		t.Error("short final piece should be zero-padded before hashing")
	}
}

func TestRunPool_firstErrorWins(t *testing.T) {
	abort := &abortFlag{}
	err := runPool(10, 4, abort, func(i int) {
		if i == 3 {
			abort.fail(os.ErrNotExist)
		}
	})
	if err != os.ErrNotExist {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}
