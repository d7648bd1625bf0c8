package torrent

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/tajoumaru/torrite/internal/bencode"
)

// FileInfo is one file entry as read back from a metainfo document, either
// from the v1 files list or the v2 file tree.
type FileInfo struct {
	Path   []string
	Length int64
}

// MetaInfo is a decoded .torrent document, used by the verify/inspect/modify
// collaborators. It keeps both the parsed fields and the raw dictionaries
// so that round-tripping (modify) and additional-field inspection (inspect
// -v) can recover anything a struct-only model would drop.
type MetaInfo struct {
	Raw      bencode.Dict
	Info     bencode.Dict
	InfoRaw  []byte
	rawBytes []byte

	Announce     string
	AnnounceList [][]string
	Comment      string
	CreatedBy    string
	CreationDate int64
	UrlList      []string

	Name        string
	PieceLength int64
	Length      int64
	Files       []FileInfo
	Pieces      []byte
	Private     bool
	Source      string
	MetaVersion int64
}

// LoadFromFile reads and decodes a .torrent file from disk.
func LoadFromFile(path string) (*MetaInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read torrent file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a raw bencoded metainfo document.
func Parse(data []byte) (*MetaInfo, error) {
	var root bencode.Dict
	if err := bencode.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("could not parse torrent: %w", err)
	}

	info, ok := root["info"].(bencode.Dict)
	if !ok {
		return nil, fmt.Errorf("torrent has no info dictionary")
	}
	infoBytes, err := bencode.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("could not re-encode info dictionary: %w", err)
	}

	mi := &MetaInfo{
		Raw:      root,
		Info:     info,
		InfoRaw:  infoBytes,
		rawBytes: data,
	}

	mi.Announce = dictString(root, "announce")
	mi.Comment = dictString(root, "comment")
	mi.CreatedBy = dictString(root, "created by")
	mi.CreationDate = dictInt(root, "creation date")
	if list, ok := root["announce-list"].(bencode.List); ok {
		for _, tier := range list {
			tl, ok := tier.(bencode.List)
			if !ok {
				continue
			}
			var urls []string
			for _, u := range tl {
				if b, ok := u.([]byte); ok {
					urls = append(urls, string(b))
				}
			}
			mi.AnnounceList = append(mi.AnnounceList, urls)
		}
	}
	if list, ok := root["url-list"].(bencode.List); ok {
		for _, u := range list {
			if b, ok := u.([]byte); ok {
				mi.UrlList = append(mi.UrlList, string(b))
			}
		}
	}

	mi.Name = dictString(info, "name")
	mi.PieceLength = dictInt(info, "piece length")
	mi.Length = dictInt(info, "length")
	mi.Source = dictString(info, "source")
	mi.MetaVersion = dictInt(info, "meta version")
	if p, ok := info["private"].(int64); ok {
		mi.Private = p == 1
	}
	if b, ok := info["pieces"].([]byte); ok {
		mi.Pieces = b
	}

	if files, ok := info["files"].(bencode.List); ok {
		for _, item := range files {
			fd, ok := item.(bencode.Dict)
			if !ok {
				continue
			}
			var path []string
			if pl, ok := fd["path"].(bencode.List); ok {
				for _, c := range pl {
					if b, ok := c.([]byte); ok {
						path = append(path, string(b))
					}
				}
			}
			mi.Files = append(mi.Files, FileInfo{Path: path, Length: dictInt(fd, "length")})
		}
	} else if tree, ok := info["file tree"].(bencode.Dict); ok {
		mi.Files = walkFileTree(tree, nil)
	}

	return mi, nil
}

func walkFileTree(node bencode.Dict, prefix []string) []FileInfo {
	var out []FileInfo
	for k, v := range node {
		child, ok := v.(bencode.Dict)
		if !ok {
			continue
		}
		if leaf, ok := child[""].(bencode.Dict); ok {
			path := append(append([]string{}, prefix...), k)
			out = append(out, FileInfo{Path: path, Length: dictInt(leaf, "length")})
			continue
		}
		out = append(out, walkFileTree(child, append(append([]string{}, prefix...), k))...)
	}
	return out
}

func dictString(d bencode.Dict, key string) string {
	if b, ok := d[key].([]byte); ok {
		return string(b)
	}
	return ""
}

func dictInt(d bencode.Dict, key string) int64 {
	if n, ok := d[key].(int64); ok {
		return n
	}
	return 0
}

// IsDir reports whether the torrent is a multi-file torrent.
func (mi *MetaInfo) IsDir() bool {
	return len(mi.Files) > 0
}

// TotalLength returns the sum of all file lengths (or the single-file
// length).
func (mi *MetaInfo) TotalLength() int64 {
	if !mi.IsDir() {
		return mi.Length
	}
	var total int64
	for _, f := range mi.Files {
		total += f.Length
	}
	return total
}

// HashInfoBytes returns the hex SHA-1 infohash, present for v1 and hybrid.
func (mi *MetaInfo) HashInfoBytes() string {
	sum := sha1.Sum(mi.InfoRaw)
	return hex.EncodeToString(sum[:])
}

// HashInfoBytesV2 returns the hex SHA-256 infohash, present for v2 and
// hybrid (meta version == 2).
func (mi *MetaInfo) HashInfoBytesV2() string {
	sum := sha256.Sum256(mi.InfoRaw)
	return hex.EncodeToString(sum[:])
}

// RefreshInfoRaw re-encodes mi.Info into mi.InfoRaw after a caller has
// mutated the info dictionary in place (e.g. modify's tracker/private/
// source updates), so HashInfoBytes/HashInfoBytesV2 reflect the change.
func (mi *MetaInfo) RefreshInfoRaw() error {
	b, err := bencode.Marshal(mi.Info)
	if err != nil {
		return fmt.Errorf("could not re-encode info dictionary: %w", err)
	}
	mi.InfoRaw = b
	return nil
}

// SaveToFile re-encodes the (possibly mutated) document and writes it out.
func (mi *MetaInfo) SaveToFile(path string) error {
	mi.Raw["info"] = mi.Info
	data, err := bencode.Marshal(mi.Raw)
	if err != nil {
		return fmt.Errorf("could not encode torrent: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
