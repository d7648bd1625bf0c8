package torrent

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestBuildMerkleTree_emptyFileIsZeroHash(t *testing.T) {
	tree := buildMerkleTree(nil)
	root := tree.root()
	if !bytes.Equal(root[:], zeroHash[:]) {
		t.Errorf("root = %x, want zero hash", root)
	}
}

func TestBuildMerkleTree_singleLeaf(t *testing.T) {
	leaf := sha256.Sum256([]byte("hello"))
	tree := buildMerkleTree([][32]byte{leaf})
	if tree.root() != leaf {
		t.Errorf("single-leaf tree root should equal the leaf itself")
	}
}

func TestBuildMerkleTree_twoLeaves(t *testing.T) {
	a := sha256.Sum256([]byte("a"))
	b := sha256.Sum256([]byte("b"))
	tree := buildMerkleTree([][32]byte{a, b})

	want := hashPair(a, b)
	if tree.root() != want {
		t.Errorf("root = %x, want %x", tree.root(), want)
	}
}

func TestBuildMerkleTree_paddingUsesZeroHashNotSHA256(t *testing.T) {
	a := sha256.Sum256([]byte("a"))
	tree := buildMerkleTree([][32]byte{a})

	// nextPow2(1) == 1, so this is a single-leaf tree: no padding occurs
	// and the root is the leaf itself.
	if tree.root() != a {
		t.Fatalf("single real leaf padded to length 1 should not combine with anything")
	}

	// Three leaves pad to four; the padding leaves must be the literal
	// zero-hash constant, not SHA-256 of zero bytes.
	c := sha256.Sum256([]byte("c"))
	d := sha256.Sum256([]byte("d"))
	tree = buildMerkleTree([][32]byte{a, c, d})
	shaOfZero := sha256.Sum256(make([]byte, 32))
	if tree.layers[0][3] == shaOfZero {
		t.Error("padding leaf must be the zero-hash constant, not SHA-256 of zero bytes")
	}
	if tree.layers[0][3] != zeroHash {
		t.Error("padding leaf must equal the zero-hash constant")
	}
}

func TestPiecesRootLayer_fileSmallerThanPieceLength(t *testing.T) {
	leaves := make([][32]byte, 4) // 64 KiB file
	for i := range leaves {
		leaves[i] = sha256.Sum256([]byte{byte(i)})
	}
	tree := buildMerkleTree(leaves)

	// piece length 256 KiB > file size: pieces root layer degenerates to
	// the root, a single element.
	layer := tree.piecesRootLayer(1<<18, int64(len(leaves))*leafSize)
	if len(layer) != 1 || layer[0] != tree.root() {
		t.Errorf("expected single-element layer equal to root, got %v", layer)
	}
}

func TestPiecesRootLayer_lengthMatchesPieceCount(t *testing.T) {
	// 64 leaves (1 MiB at 16 KiB/leaf), piece length 256 KiB -> 4 pieces.
	leaves := make([][32]byte, 64)
	for i := range leaves {
		leaves[i] = sha256.Sum256([]byte{byte(i)})
	}
	tree := buildMerkleTree(leaves)
	layer := tree.piecesRootLayer(1<<18, int64(len(leaves))*leafSize)
	if len(layer) != 4 {
		t.Errorf("layer length = %d, want 4", len(layer))
	}
}

func TestPiecesRootLayer_nonPowerOfTwoPieceCountIsTruncated(t *testing.T) {
	// 48 leaves (768 KiB at 16 KiB/leaf) pad to 64 leaves internally, but
	// at piece length 256 KiB (16 leaves/piece) the file is only
	// ceil(768/256) = 3 pieces, not the padded width's 4. The layer must
	// be truncated to the real piece count per spec §4.4/§8.
	const fileLength = 48 * leafSize
	leaves := make([][32]byte, 48)
	for i := range leaves {
		leaves[i] = sha256.Sum256([]byte{byte(i)})
	}
	tree := buildMerkleTree(leaves)
	layer := tree.piecesRootLayer(1<<18, fileLength)
	if len(layer) != 3 {
		t.Errorf("layer length = %d, want 3 (ceil(768KiB/256KiB)), not the padded tree's 4", len(layer))
	}
}

func TestPiecesRootLayer_roundTripsToRoot(t *testing.T) {
	leaves := make([][32]byte, 8)
	for i := range leaves {
		leaves[i] = sha256.Sum256([]byte{byte(i)})
	}
	tree := buildMerkleTree(leaves)
	layer := tree.piecesRootLayer(1<<15, int64(len(leaves))*leafSize) // 32 KiB pieces -> 2 leaves/piece -> 4 pieces

	// Combine the layer back up: it should Merkle-combine to the root.
	cur := layer
	for len(cur) > 1 {
		next := make([][32]byte, len(cur)/2)
		for i := range next {
			next[i] = hashPair(cur[2*i], cur[2*i+1])
		}
		cur = next
	}
	if cur[0] != tree.root() {
		t.Error("pieces root layer does not recombine to the file tree root")
	}
}
