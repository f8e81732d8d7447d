package composer

import (
	"errors"
	"strings"
)

const MaxGroupSize = 10

var (
	ErrGroupFull       = errors.New("image group is full")
	ErrIndexOutOfRange = errors.New("image index out of range")
)

// GroupKind identifies one of the three independent photo groups a project
// listing carries. Groups never share entries.
type GroupKind string

const (
	GroupProject GroupKind = "project"
	GroupAmenity GroupKind = "amenity"
	GroupFloor   GroupKind = "floor"
)

func ParseGroupKind(value string) (GroupKind, bool) {
	switch GroupKind(strings.ToLower(strings.TrimSpace(value))) {
	case GroupProject:
		return GroupProject, true
	case GroupAmenity:
		return GroupAmenity, true
	case GroupFloor:
		return GroupFloor, true
	}
	return "", false
}

// ImageEntry is either a locally staged file awaiting upload or a reference
// to an image the remote API already holds. Exactly one of StagedID/RemoteURL
// is set; main-ness is tracked on the group, not per entry.
type ImageEntry struct {
	StagedID   string `bson:"staged_id,omitempty" json:"staged_id,omitempty"`
	PreviewURL string `bson:"preview_url,omitempty" json:"preview_url,omitempty"`
	RemoteURL  string `bson:"remote_url,omitempty" json:"remote_url,omitempty"`
}

func (e ImageEntry) IsLocal() bool {
	return e.StagedID != ""
}

func NewLocalEntry(stagedID, previewURL string) ImageEntry {
	return ImageEntry{StagedID: stagedID, PreviewURL: previewURL}
}

func NewRemoteEntry(url string) ImageEntry {
	return ImageEntry{RemoteURL: url}
}

// ImageGroup holds an ordered list of entries plus the index of the single
// main image. MainIndex is -1 when the group is empty.
type ImageGroup struct {
	Kind      GroupKind    `bson:"kind" json:"kind"`
	Entries   []ImageEntry `bson:"entries" json:"entries"`
	MainIndex int          `bson:"main_index" json:"main_index"`
}

func NewImageGroup(kind GroupKind) ImageGroup {
	return ImageGroup{Kind: kind, Entries: nil, MainIndex: -1}
}

func (g *ImageGroup) Len() int {
	return len(g.Entries)
}

// AddEntries appends entries in order. The whole batch is rejected when it
// would push the group past MaxGroupSize. A group that had no main image
// gains one: the first appended entry.
func (g *ImageGroup) AddEntries(entries ...ImageEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if len(g.Entries)+len(entries) > MaxGroupSize {
		return ErrGroupFull
	}
	hadMain := g.MainIndex >= 0
	firstNew := len(g.Entries)
	g.Entries = append(g.Entries, entries...)
	if !hadMain {
		g.MainIndex = firstNew
	}
	return nil
}

// RemoveAt deletes the entry at index and returns it so the caller can tear
// down any staged file it referenced. Removing the main entry moves main to
// index 0 of the remainder (or none when empty); removing an earlier entry
// keeps main pointing at the same logical image.
func (g *ImageGroup) RemoveAt(index int) (ImageEntry, error) {
	if index < 0 || index >= len(g.Entries) {
		return ImageEntry{}, ErrIndexOutOfRange
	}
	removed := g.Entries[index]
	g.Entries = append(g.Entries[:index], g.Entries[index+1:]...)

	switch {
	case len(g.Entries) == 0:
		g.MainIndex = -1
	case index == g.MainIndex:
		g.MainIndex = 0
	case index < g.MainIndex:
		g.MainIndex--
	}
	return removed, nil
}

// SetMain reassigns the main image unconditionally. Out-of-range indexes are
// ignored rather than rejected.
func (g *ImageGroup) SetMain(index int) {
	if index < 0 || index >= len(g.Entries) {
		return
	}
	g.MainIndex = index
}

func (g *ImageGroup) IsMain(index int) bool {
	return index == g.MainIndex
}

// StagedIDs returns the staged-file ids of every local entry, in order. Used
// on reset to release every preview file the group still owns.
func (g *ImageGroup) StagedIDs() []string {
	var ids []string
	for _, e := range g.Entries {
		if e.IsLocal() {
			ids = append(ids, e.StagedID)
		}
	}
	return ids
}
