// Package torrentutils holds the mutation helpers used by the modify
// collaborator to rewrite specific fields of an already-created torrent
// document without touching its piece data.
package torrentutils

import (
	"github.com/tajoumaru/torrite/internal/bencode"
	"github.com/tajoumaru/torrite/internal/torrent"
)

// UpdateTrackers sets the announce URL and a single-tier announce list.
func UpdateTrackers(mi *torrent.MetaInfo, trackerURL string) {
	mi.Announce = trackerURL
	mi.AnnounceList = [][]string{{trackerURL}}
	mi.Raw["announce"] = []byte(trackerURL)

	tier := make(bencode.List, 1)
	tier[0] = []byte(trackerURL)
	mi.Raw["announce-list"] = bencode.List{tier}
}

// UpdateWebSeeds sets the url-list.
func UpdateWebSeeds(mi *torrent.MetaInfo, webSeeds []string) {
	mi.UrlList = webSeeds
	list := make(bencode.List, len(webSeeds))
	for i, w := range webSeeds {
		list[i] = []byte(w)
	}
	mi.Raw["url-list"] = list
}

// UpdateComment sets the comment field.
func UpdateComment(mi *torrent.MetaInfo, comment string) {
	mi.Comment = comment
	mi.Raw["comment"] = []byte(comment)
}

// UpdateCreatorAndDate sets or clears the created-by/creation-date fields.
func UpdateCreatorAndDate(mi *torrent.MetaInfo, creator string, noCreator, noDate bool, currentTime int64) {
	if !noCreator {
		mi.CreatedBy = creator
		mi.Raw["created by"] = []byte(creator)
	} else {
		mi.CreatedBy = ""
		delete(mi.Raw, "created by")
	}

	if !noDate {
		mi.CreationDate = currentTime
		mi.Raw["creation date"] = currentTime
	} else {
		mi.CreationDate = 0
		delete(mi.Raw, "creation date")
	}
}

// UpdatePrivateFlag sets the private flag in the info dictionary. Returns
// whether the flag actually changed.
func UpdatePrivateFlag(mi *torrent.MetaInfo, isPrivate *bool) (bool, error) {
	if isPrivate == nil || mi.Private == *isPrivate {
		return false, nil
	}
	mi.Private = *isPrivate
	if *isPrivate {
		mi.Info["private"] = int64(1)
	} else {
		delete(mi.Info, "private")
	}
	return true, mi.RefreshInfoRaw()
}

// UpdateSource sets the source field in the info dictionary. Returns
// whether the field actually changed.
func UpdateSource(mi *torrent.MetaInfo, source string) (bool, error) {
	if source == "" || mi.Source == source {
		return false, nil
	}
	mi.Source = source
	mi.Info["source"] = []byte(source)
	return true, mi.RefreshInfoRaw()
}
