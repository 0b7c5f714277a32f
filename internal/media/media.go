// Package media provides media asset classification, decoding and playback
// for the TV and overlay players.
package media

import (
	"errors"
	"path"
	"strings"
)

// Playback and load failure classes. None of these are fatal: callers mark
// the affected slot errored, log and keep the prior frame visible.
var (
	// ErrAssetLoad indicates a read or decode failure for an asset.
	ErrAssetLoad = errors.New("media: asset load failed")

	// ErrPlaybackBlocked indicates playback could not start; the player is
	// left paused and the next explicit user action retries.
	ErrPlaybackBlocked = errors.New("media: playback blocked")

	// ErrUnsupported indicates an asset whose extension maps to no decoder.
	ErrUnsupported = errors.New("media: unsupported format")
)

// Kind classifies an asset by its file extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Sniff classifies an asset path by extension. Animated GIF clips are the
// video class; everything else recognized is a still image.
func Sniff(assetPath string) Kind {
	switch strings.ToLower(path.Ext(assetPath)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tga":
		return KindImage
	case ".gif":
		return KindVideo
	default:
		return KindUnknown
	}
}

// LoadState tracks the lifecycle of a playlist slot.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadReady
	LoadError
)

// Asset is one playlist entry and its load lifecycle.
type Asset struct {
	Path  string
	Kind  Kind
	State LoadState
}

// NewAsset creates an idle asset for a playlist path.
func NewAsset(assetPath string) Asset {
	return Asset{Path: assetPath, Kind: Sniff(assetPath), State: LoadIdle}
}
