package torrent

import (
	"testing"

	"github.com/tajoumaru/torrite/internal/bencode"
	"github.com/tajoumaru/torrite/internal/scanner"
)

func TestBuildFilesListHybrid_paddingInsertedOnlyBetweenFiles(t *testing.T) {
	files := []scanner.FileEntry{
		{Path: []string{"a.txt"}, Length: 100},
		{Path: []string{"b.txt"}, Length: 300},
	}
	list := buildFilesListHybrid(files, "root", 1<<18)
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}

	pad := list[1].(bencode.Dict)
	wantPadLen := int64(1<<18) - 100
	if pad["length"] != wantPadLen {
		t.Errorf("pad length = %v, want %d", pad["length"], wantPadLen)
	}
	if string(pad["attr"].([]byte)) != "p" {
		t.Error("pad entry missing attr=p")
	}
	padPath := pad["path"].(bencode.List)
	if string(padPath[0].([]byte)) != ".pad" {
		t.Error("pad path first component should be .pad")
	}
}

func TestBuildFilesListHybrid_noPaddingWhenAligned(t *testing.T) {
	pieceLength := int64(1 << 10)
	files := []scanner.FileEntry{
		{Path: []string{"a.txt"}, Length: pieceLength},
		{Path: []string{"b.txt"}, Length: 50},
	}
	list := buildFilesListHybrid(files, "root", pieceLength)
	if len(list) != 2 {
		t.Fatalf("expected no padding when file length is piece-aligned, got %d entries", len(list))
	}
}

func TestBuildFilesListHybrid_noPaddingAfterLastFile(t *testing.T) {
	files := []scanner.FileEntry{
		{Path: []string{"a.txt"}, Length: 100},
	}
	list := buildFilesListHybrid(files, "root", 1<<18)
	if len(list) != 1 {
		t.Fatalf("no padding should follow the final file, got %d entries", len(list))
	}
}

func TestAssembleV2_singleFileFlatTree(t *testing.T) {
	files := []scanner.FileEntry{{Length: 1024}}
	tree := buildMerkleTree(nil)
	results := []fileResult{{root: tree.root(), length: 1024}}

	info, _ := AssembleV2("movie.mkv", files, 1<<18, results, false, "", nil)
	fileTree := info["file tree"].(bencode.Dict)
	entry, ok := fileTree["movie.mkv"].(bencode.Dict)
	if !ok {
		t.Fatalf("expected file tree keyed by torrent name for single-file torrents")
	}
	leaf, ok := entry[""].(bencode.Dict)
	if !ok {
		t.Fatal("expected terminal empty-key entry")
	}
	if leaf["length"] != int64(1024) {
		t.Errorf("length = %v, want 1024", leaf["length"])
	}
}

func TestAssembleV2_emptyFileOmitsPiecesRoot(t *testing.T) {
	files := []scanner.FileEntry{{Path: []string{"empty.txt"}, Length: 0}}
	results := []fileResult{{root: zeroHash, length: 0}}

	info, layers := AssembleV2("root", files, 1<<18, results, false, "", nil)
	fileTree := info["file tree"].(bencode.Dict)
	entry := fileTree["empty.txt"].(bencode.Dict)
	leaf := entry[""].(bencode.Dict)
	if _, ok := leaf["pieces root"]; ok {
		t.Error("empty file should not have a pieces root key")
	}
	if len(layers) != 0 {
		t.Error("empty file should not contribute a piece layers entry")
	}
}

func TestAssembleV2_pieceLayersOmittedForFilesUnderPieceLength(t *testing.T) {
	small := scanner.FileEntry{Path: []string{"small.txt"}, Length: 1024}
	big := scanner.FileEntry{Path: []string{"big.bin"}, Length: 1 << 20}

	tree := buildMerkleTree(nil)
	smallResult := fileResult{root: tree.root(), length: small.Length}
	leaves := make([][32]byte, 64)
	bigTree := buildMerkleTree(leaves)
	bigResult := fileResult{root: bigTree.root(), layer: bigTree.piecesRootLayer(1<<18, big.Length), length: big.Length}

	info, layers := AssembleV2("root", []scanner.FileEntry{small, big}, 1<<18, []fileResult{smallResult, bigResult}, false, "", nil)
	_ = info
	if len(layers) != 1 {
		t.Fatalf("expected exactly one piece layers entry, got %d", len(layers))
	}
	if _, ok := layers[string(bigResult.root[:])]; !ok {
		t.Error("expected piece layers keyed on the large file's pieces root")
	}
}

func TestAssembleV1_privateAndSource(t *testing.T) {
	files := []scanner.FileEntry{{Length: 10}}
	info := AssembleV1("name", files, 1<<15, make([]byte, 20), true, true, "MYSITE", nil)
	if info["private"] != int64(1) {
		t.Errorf("private = %v, want 1", info["private"])
	}
	if string(info["source"].([]byte)) != "MYSITE" {
		t.Error("source field mismatch")
	}
}
