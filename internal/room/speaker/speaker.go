// Package speaker drives the room's bluetooth speaker prop: a small WAV
// playlist with single-click control and automatic track advance.
package speaker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/gambo89/gambo-room/internal/logger"
)

// TrackPlayer is the slice of the audio manager the playlist needs.
type TrackPlayer interface {
	PlayTrack(data []byte, path string) error
	StopTrack()
	PauseTrack()
	ResumeTrack()
	IsTrackPlaying() bool
	HasTrack() bool
	SetOnTrackEnd(fn func())
}

// Playlist cycles a fixed list of tracks on the speaker prop. A single
// click is the whole control surface: it starts playback, pauses a playing
// track, and a click on a paused track skips to the next one. When a track
// runs out on its own the next one starts by itself.
type Playlist struct {
	mu sync.Mutex

	player TrackPlayer
	load   func(path string) ([]byte, error)

	tracks []string
	index  int
	paused bool
}

// NewPlaylist wires a playlist over a track player. load reads a track's
// bytes, typically assets.Manager.Load.
func NewPlaylist(player TrackPlayer, load func(path string) ([]byte, error), tracks []string) *Playlist {
	p := &Playlist{
		player: player,
		load:   load,
		tracks: tracks,
	}
	player.SetOnTrackEnd(p.onTrackEnd)
	return p
}

// Tracks returns the playlist length.
func (p *Playlist) Tracks() int {
	return len(p.tracks)
}

// Index returns the current track index.
func (p *Playlist) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Current returns the current track path, or "" for an empty playlist.
func (p *Playlist) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tracks) == 0 {
		return ""
	}
	return p.tracks[p.index]
}

// Playing reports whether a track is audibly running.
func (p *Playlist) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player.HasTrack() && p.player.IsTrackPlaying() && !p.paused
}

// HandleClick is the speaker prop's click action: start when idle, pause
// when playing, skip to the next track when paused.
func (p *Playlist) HandleClick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tracks) == 0 {
		return
	}

	switch {
	case !p.player.HasTrack():
		p.startLocked(p.index)
	case p.paused:
		p.advanceLocked()
	default:
		p.player.PauseTrack()
		p.paused = true
	}
}

// Stop halts playback and rewinds the playlist.
func (p *Playlist) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.StopTrack()
	p.index = 0
	p.paused = false
}

// startLocked loads and plays the track at i. Caller holds mu.
func (p *Playlist) startLocked(i int) {
	p.index = i
	p.paused = false

	path := p.tracks[i]
	data, err := p.load(path)
	if err != nil {
		logger.Warn("speaker track load failed",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	if err := p.player.PlayTrack(data, path); err != nil {
		logger.Warn("speaker track playback failed",
			zap.String("path", path),
			zap.Error(err))
	}
}

// advanceLocked skips to the next track, wrapping. Caller holds mu.
func (p *Playlist) advanceLocked() {
	p.player.StopTrack()
	p.startLocked((p.index + 1) % len(p.tracks))
}

// onTrackEnd runs on the audio goroutine when a track plays out naturally.
func (p *Playlist) onTrackEnd() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tracks) == 0 || p.paused {
		return
	}
	p.advanceLocked()
}
