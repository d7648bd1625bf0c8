package torrent

import (
	"strconv"

	"github.com/tajoumaru/torrite/internal/bencode"
	"github.com/tajoumaru/torrite/internal/scanner"
)

// filePathComponents returns a file's path components, substituting the
// torrent name for the single-file case (scanner leaves Path nil there).
func filePathComponents(f scanner.FileEntry, name string) []string {
	if len(f.Path) == 0 {
		return []string{name}
	}
	return f.Path
}

func pathList(components []string) bencode.List {
	list := make(bencode.List, len(components))
	for i, c := range components {
		list[i] = []byte(c)
	}
	return list
}

// buildFilesListV1 builds the v1 `files` list: one entry per real file,
// no padding.
func buildFilesListV1(files []scanner.FileEntry, name string) bencode.List {
	list := make(bencode.List, len(files))
	for i, f := range files {
		list[i] = bencode.Dict{
			"length": f.Length,
			"path":   pathList(filePathComponents(f, name)),
		}
	}
	return list
}

// buildFilesListHybrid builds the hybrid `files` list, inserting a
// padding-file entry after every real file whose length is not a
// multiple of pieceLength (never after the last file), per §4.5.
func buildFilesListHybrid(files []scanner.FileEntry, name string, pieceLength int64) bencode.List {
	list := make(bencode.List, 0, len(files))
	for i, f := range files {
		list = append(list, bencode.Dict{
			"length": f.Length,
			"path":   pathList(filePathComponents(f, name)),
		})

		if i == len(files)-1 {
			continue
		}
		rem := f.Length % pieceLength
		if rem == 0 {
			continue
		}
		padLen := pieceLength - rem
		list = append(list, bencode.Dict{
			"length": padLen,
			"path":   pathList([]string{".pad", strconv.FormatInt(padLen, 10)}),
			"attr":   []byte("p"),
		})
	}
	return list
}

// insertFileTreeNode places a terminal file leaf into the nested v2 file
// tree, creating intermediate directory dicts as needed.
func insertFileTreeNode(tree bencode.Dict, components []string, leaf bencode.Dict) {
	cur := tree
	for i, comp := range components {
		if i == len(components)-1 {
			cur[comp] = bencode.Dict{"": leaf}
			return
		}
		child, ok := cur[comp].(bencode.Dict)
		if !ok {
			child = bencode.Dict{}
			cur[comp] = child
		}
		cur = child
	}
}

// fileTreeLeaf builds the terminal {length, pieces root?} entry for a v2
// file result. pieces root is omitted for empty files.
func fileTreeLeaf(r fileResult) bencode.Dict {
	leaf := bencode.Dict{"length": r.length}
	if r.length > 0 {
		leaf["pieces root"] = append([]byte(nil), r.root[:]...)
	}
	return leaf
}

// pieceLayerBytes concatenates a file's pieces-root layer digests.
func pieceLayerBytes(layer [][32]byte) []byte {
	out := make([]byte, 0, len(layer)*32)
	for _, h := range layer {
		out = append(out, h[:]...)
	}
	return out
}

// AssembleV1 builds the v1 info dictionary.
func AssembleV1(name string, files []scanner.FileEntry, pieceLength int64, pieces []byte, singleFile bool, private bool, source string, entropy []byte) bencode.Dict {
	info := bencode.Dict{
		"name":         []byte(name),
		"piece length": pieceLength,
		"pieces":       pieces,
	}
	if singleFile {
		info["length"] = files[0].Length
	} else {
		info["files"] = buildFilesListV1(files, name)
	}
	applyCommonInfoFields(info, private, source, entropy)
	return info
}

// AssembleV2 builds the v2 info dictionary and the top-level piece
// layers dict.
func AssembleV2(name string, files []scanner.FileEntry, pieceLength int64, results []fileResult, private bool, source string, entropy []byte) (bencode.Dict, bencode.Dict) {
	info := bencode.Dict{
		"name":         []byte(name),
		"piece length": pieceLength,
		"meta version": int64(2),
	}

	fileTree := bencode.Dict{}
	pieceLayers := bencode.Dict{}
	for i, f := range files {
		r := results[i]
		insertFileTreeNode(fileTree, filePathComponents(f, name), fileTreeLeaf(r))
		if f.Length > pieceLength {
			pieceLayers[string(r.root[:])] = pieceLayerBytes(r.layer)
		}
	}
	info["file tree"] = fileTree

	applyCommonInfoFields(info, private, source, entropy)
	return info, pieceLayers
}

// AssembleHybrid builds the hybrid info dictionary (all v1 and v2
// fields simultaneously) and the top-level piece layers dict.
func AssembleHybrid(name string, files []scanner.FileEntry, pieceLength int64, results []hybridFileResult, singleFile bool, private bool, source string, entropy []byte) (bencode.Dict, bencode.Dict) {
	info := bencode.Dict{
		"name":         []byte(name),
		"piece length": pieceLength,
		"meta version": int64(2),
	}

	var pieces []byte
	fileTree := bencode.Dict{}
	pieceLayers := bencode.Dict{}
	for i, f := range files {
		r := results[i]
		insertFileTreeNode(fileTree, filePathComponents(f, name), fileTreeLeaf(r.v2))
		if f.Length > pieceLength {
			pieceLayers[string(r.v2.root[:])] = pieceLayerBytes(r.v2.layer)
		}
		for _, p := range r.v1Pieces {
			pieces = append(pieces, p[:]...)
		}
	}
	info["file tree"] = fileTree
	info["pieces"] = pieces

	if singleFile {
		info["length"] = files[0].Length
	} else {
		info["files"] = buildFilesListHybrid(files, name, pieceLength)
	}

	applyCommonInfoFields(info, private, source, entropy)
	return info, pieceLayers
}

func applyCommonInfoFields(info bencode.Dict, private bool, source string, entropy []byte) {
	if private {
		info["private"] = int64(1)
	}
	if source != "" {
		info["source"] = []byte(source)
	}
	if len(entropy) > 0 {
		info["cross_seed_entropy"] = entropy
	}
}
