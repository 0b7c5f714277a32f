// Package audio provides WAV playback for the room speaker and UI sounds.
package audio

import (
	"bytes"
	"fmt"
	"io"
	gomath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the mixer sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager owns the audio device and plays one music track at a time plus
// concurrent one-shot effects. Track end is reported through a callback so
// the owner can advance its playlist.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Current track
	trackStreamer beep.StreamSeekCloser
	trackCtrl     *beep.Ctrl
	trackVolume   *effects.Volume
	trackPlaying  bool
	trackPath     string
	trackSeq      uint64 // guards stale end callbacks

	onTrackEnd func()

	// Volume levels (0.0 to 1.0)
	masterVolume  float64
	trackVolLevel float64
	sfxVolLevel   float64

	// Mixer for concurrent one-shot effects
	sfxMixer *beep.Mixer
}

// New creates an audio manager with default volume levels.
func New() *Manager {
	return &Manager{
		masterVolume:  1.0,
		trackVolLevel: 0.7,
		sfxVolLevel:   1.0,
		sfxMixer:      &beep.Mixer{},
	}
}

// Init opens the audio device. Safe to call more than once.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close stops playback and shuts the audio system down.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTrackInternal()
	speaker.Clear()
	m.initialized = false
}

// IsInitialized reports whether the audio device is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetOnTrackEnd registers the callback invoked when a track plays to its
// natural end. It is not invoked on Stop or when a new track replaces the
// current one.
func (m *Manager) SetOnTrackEnd(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTrackEnd = fn
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateTrackVolume()
}

// SetTrackVolume sets the music track volume (0.0 to 1.0).
func (m *Manager) SetTrackVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackVolLevel = clamp(vol, 0, 1)
	m.updateTrackVolume()
}

// SetSFXVolume sets the one-shot effect volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

func (m *Manager) updateTrackVolume() {
	if m.trackVolume == nil {
		return
	}
	vol := m.masterVolume * m.trackVolLevel
	if vol <= 0 {
		m.trackVolume.Silent = true
	} else {
		m.trackVolume.Silent = false
		m.trackVolume.Volume = volumeToDb(vol)
	}
}

// volumeToDb converts a 0-1 volume to the decibel scale effects.Volume uses.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * gomath.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// PlayTrack decodes WAV data and plays it, replacing any current track.
// The registered end callback fires when the track finishes on its own.
func (m *Manager) PlayTrack(data []byte, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return fmt.Errorf("audio not initialized")
	}

	m.stopTrackInternal()

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", path, err)
	}

	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}

	m.trackCtrl = &beep.Ctrl{Streamer: resampled}
	m.trackVolume = &effects.Volume{
		Streamer: m.trackCtrl,
		Base:     2,
	}
	m.updateTrackVolume()

	m.trackStreamer = streamer
	m.trackPath = path
	m.trackPlaying = true
	m.trackSeq++
	seq := m.trackSeq

	speaker.Play(beep.Seq(m.trackVolume, beep.Callback(func() {
		m.mu.Lock()
		stale := seq != m.trackSeq
		if !stale {
			m.trackPlaying = false
		}
		fn := m.onTrackEnd
		m.mu.Unlock()
		if !stale && fn != nil {
			fn()
		}
	})))

	return nil
}

// StopTrack stops the current track without firing the end callback.
func (m *Manager) StopTrack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTrackInternal()
}

func (m *Manager) stopTrackInternal() {
	m.trackSeq++ // invalidate any pending end callback
	if m.trackCtrl != nil {
		m.trackCtrl.Paused = true
	}
	speaker.Clear()
	if m.initialized {
		speaker.Play(m.sfxMixer)
	}
	m.trackPlaying = false
	if m.trackStreamer != nil {
		m.trackStreamer.Close()
		m.trackStreamer = nil
	}
	m.trackCtrl = nil
	m.trackVolume = nil
	m.trackPath = ""
}

// PauseTrack pauses the current track in place.
func (m *Manager) PauseTrack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trackCtrl != nil {
		speaker.Lock()
		m.trackCtrl.Paused = true
		speaker.Unlock()
		m.trackPlaying = false
	}
}

// ResumeTrack resumes a paused track.
func (m *Manager) ResumeTrack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trackCtrl != nil {
		speaker.Lock()
		m.trackCtrl.Paused = false
		speaker.Unlock()
		m.trackPlaying = true
	}
}

// IsTrackPlaying reports whether a track is currently playing.
func (m *Manager) IsTrackPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trackPlaying
}

// HasTrack reports whether a track is loaded, playing or paused.
func (m *Manager) HasTrack() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trackCtrl != nil
}

// TrackPath returns the path of the current track.
func (m *Manager) TrackPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trackPath
}

// PlaySFX plays a one-shot WAV effect mixed over the current track.
func (m *Manager) PlaySFX(data []byte) error {
	m.mu.RLock()
	initialized := m.initialized
	sfxVol := m.masterVolume * m.sfxVolLevel
	m.mu.RUnlock()

	if !initialized {
		return fmt.Errorf("audio not initialized")
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}

	m.sfxMixer.Add(&effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeToDb(sfxVol),
		Silent:   sfxVol <= 0,
	})

	return nil
}
