package torrent

import (
	"encoding/json"
	"path/filepath"
)

// FileDetail holds structured information about a single file within a
// torrent, for JSON inspect output.
type FileDetail struct {
	Path            string `json:"path"`
	Length          int64  `json:"length"`
	LengthFormatted string `json:"lengthFormatted"`
}

// InspectJSON holds all the structured information for `inspect --output-format json`.
type InspectJSON struct {
	Name                 string             `json:"name"`
	InfoHash             string             `json:"infoHash,omitempty"`
	InfoHashV2           string             `json:"infoHashV2,omitempty"`
	Size                 int64              `json:"size"`
	SizeFormatted        string             `json:"sizeFormatted"`
	PieceLength          int64              `json:"pieceLength"`
	PieceLengthFormatted string             `json:"pieceLengthFormatted"`
	NumPieces            int                `json:"numPieces"`
	MetaVersion          int64              `json:"metaVersion,omitempty"`
	IsPrivate            bool               `json:"isPrivate"`
	Source               string             `json:"source,omitempty"`
	Comment              string             `json:"comment,omitempty"`
	CreatedBy            string             `json:"createdBy,omitempty"`
	CreationDate         *int64             `json:"creationDate,omitempty"`
	Trackers             [][]string         `json:"trackers,omitempty"`
	WebSeeds             []string           `json:"webSeeds,omitempty"`
	Files                []FileDetail       `json:"files,omitempty"`
	ValidationResults    []ValidationResult `json:"validationResults,omitempty"`
}

// GenerateInspectJSON builds the structured view of a decoded torrent.
func GenerateInspectJSON(mi *MetaInfo, validationResults []ValidationResult) *InspectJSON {
	out := &InspectJSON{
		Name:                 mi.Name,
		Size:                 mi.TotalLength(),
		SizeFormatted:        FormatBytes(mi.TotalLength()),
		PieceLength:          mi.PieceLength,
		PieceLengthFormatted: FormatBytes(mi.PieceLength),
		NumPieces:            len(mi.Pieces) / 20,
		MetaVersion:          mi.MetaVersion,
		IsPrivate:            mi.Private,
		Source:               mi.Source,
		Comment:              mi.Comment,
		CreatedBy:            mi.CreatedBy,
		Trackers:             mi.AnnounceList,
		WebSeeds:             mi.UrlList,
		ValidationResults:    validationResults,
	}

	if mi.MetaVersion == 2 {
		out.InfoHashV2 = mi.HashInfoBytesV2()
	}
	if mi.MetaVersion != 2 || len(mi.Pieces) > 0 {
		out.InfoHash = mi.HashInfoBytes()
	}

	if mi.CreationDate != 0 {
		ts := mi.CreationDate
		out.CreationDate = &ts
	}

	if mi.IsDir() {
		out.Files = make([]FileDetail, len(mi.Files))
		for i, f := range mi.Files {
			out.Files[i] = FileDetail{
				Path:            filepath.Join(f.Path...),
				Length:          f.Length,
				LengthFormatted: FormatBytes(f.Length),
			}
		}
	} else if mi.Length > 0 {
		out.Files = []FileDetail{{Path: mi.Name, Length: mi.Length, LengthFormatted: FormatBytes(mi.Length)}}
	}

	return out
}

// ToJSON marshals an InspectJSON value.
func (t *InspectJSON) ToJSON() (string, error) {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
