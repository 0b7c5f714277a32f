// Package config handles room viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Room      RoomConfig      `yaml:"room"`
	Playlists PlaylistsConfig `yaml:"playlists"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RoomConfig holds scene content settings.
type RoomConfig struct {
	AssetsDir string `yaml:"assets_dir"` // Root directory for media assets
	ScenePath string `yaml:"scene_path"` // Scene object manifest (yaml)

	// PropLinks maps collectible prop object names to the URL opened on click.
	PropLinks map[string]string `yaml:"prop_links"`
}

// PlaylistsConfig holds the fixed ordered asset lists per TV mode and the
// speaker track list. Paths are relative to Room.AssetsDir.
type PlaylistsConfig struct {
	Photos  []string `yaml:"photos"`
	Videos  []string `yaml:"videos"`
	Models  []string `yaml:"models"`
	Speaker []string `yaml:"speaker"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	Muted        bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Room: RoomConfig{
			AssetsDir: "assets",
			ScenePath: "assets/scene.yaml",
			PropLinks: map[string]string{},
		},
		Playlists: PlaylistsConfig{},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			MusicVolume:  0.7,
			Muted:        false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
