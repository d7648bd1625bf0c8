package torrent

import (
	"crypto/sha256"
	"math/bits"
)

// leafSize is the BEP 52 leaf block size: 16 KiB.
const leafSize = 1 << 14

// zeroHash is the leaf-padding constant. It is 32 zero bytes, NOT
// SHA-256 of zero bytes; combining functions never see raw padding,
// only this precomputed value (see spec §4.4/§9).
var zeroHash [32]byte

// merkleTree holds a file's SHA-256 tree, one layer per depth from the
// leaves (layers[0] is the padded leaf layer, layers[len-1] the root).
type merkleTree struct {
	layers [][][32]byte
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// buildMerkleTree builds the binary SHA-256 tree over leaves, padding to
// the next power of two (minimum one leaf) with zeroHash.
func buildMerkleTree(leaves [][32]byte) merkleTree {
	n := nextPow2(len(leaves))
	layer := make([][32]byte, n)
	copy(layer, leaves)
	for i := len(leaves); i < n; i++ {
		layer[i] = zeroHash
	}

	layers := [][][32]byte{layer}
	for len(layer) > 1 {
		next := make([][32]byte, len(layer)/2)
		for i := range next {
			next[i] = hashPair(layer[2*i], layer[2*i+1])
		}
		layers = append(layers, next)
		layer = next
	}
	return merkleTree{layers: layers}
}

// hashPair combines two real 32-byte digests through SHA-256. Never used
// to hash the zero-padding leaves themselves.
func hashPair(l, r [32]byte) [32]byte {
	h := sha256.New()
	h.Write(l[:])
	h.Write(r[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// root returns the file tree root.
func (t merkleTree) root() [32]byte {
	return t.layers[len(t.layers)-1][0]
}

// piecesRootLayer returns the layer at depth log2(pieceLength/leafSize)
// from the leaves, truncated to the file's actual piece count. If the
// file is smaller than one piece, that depth is past the top of the
// tree, so the layer degenerates to the root itself. buildMerkleTree
// pads the leaf vector to the next power of two, so without truncation
// the returned layer would include trailing zero-hash pad subtrees for
// any piece count that isn't itself a power of two.
func (t merkleTree) piecesRootLayer(pieceLength, fileLength int64) [][32]byte {
	depth := bits.TrailingZeros64(uint64(pieceLength) / leafSize)
	height := len(t.layers) - 1
	if depth >= height {
		return [][32]byte{t.root()}
	}
	numPieces := int((fileLength + pieceLength - 1) / pieceLength)
	layer := t.layers[depth]
	if numPieces < len(layer) {
		layer = layer[:numPieces]
	}
	return layer
}
