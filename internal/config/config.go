// Package config defines the RadioStream configuration format: the station
// catalogue, ad snippets, request contact, and runtime preferences. It is
// read-only at runtime; nothing the user does in the UI is written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppID is the stable application identifier used by the GUI framework.
	AppID = "radiostream"
	// AppConfigSubdir is the OS-specific directory that holds the config file.
	AppConfigSubdir = "RadioStream"
	// AppConfigName is the YAML file stored on disk.
	AppConfigName = "config.yaml"

	// DefaultWidth is the preferred window width.
	DefaultWidth = 1024
	// DefaultHeight is the preferred window height.
	DefaultHeight = 720
	// DefaultVolume is the initial playback level in [0,1].
	DefaultVolume = 0.8
	// DefaultNetworkCachingMs is handed to libVLC for stream buffering.
	DefaultNetworkCachingMs = 1500
	// DefaultStartTimeoutSec bounds a single play attempt.
	DefaultStartTimeoutSec = 10

	// DefaultMessagingService is the deep-link host for song requests.
	DefaultMessagingService = "https://wa.me"
	// DefaultContactNumber receives song requests.
	DefaultContactNumber = "5516996418900"
	// DefaultRequestMessage is sent when the listener does not pick a template.
	DefaultRequestMessage = "Hi! I'd like to request a song on the radio."
	// DefaultGreeting prefixes every quick request template.
	DefaultGreeting = "Hi!"
)

// Metadata source types understood by the now playing dispatcher.
const (
	MetadataSimulated = "simulated"
	MetadataAuto      = "auto"
	MetadataICY       = "icy"
	MetadataJSON      = "json"
)

// ErrNoStreams is returned by Validate when the catalogue is empty.
var ErrNoStreams = errors.New("config: at least one stream is required")

// MetadataHint tells the now playing dispatcher where track info comes from.
type MetadataHint struct {
	Type string `yaml:"type,omitempty"`
	URL  string `yaml:"url,omitempty"`
}

// Stream is one addressable radio audio source.
type Stream struct {
	ID          int          `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	URL         string       `yaml:"url"`
	Metadata    MetadataHint `yaml:"metadata,omitempty"`
}

// AdSnippet is a static block of embeddable markup. Code is shown and copied
// verbatim.
type AdSnippet struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Code  string `yaml:"code"`
}

// Contact describes the messaging endpoint used for song requests.
type Contact struct {
	Service        string   `yaml:"service"`
	Number         string   `yaml:"number"`
	DefaultMessage string   `yaml:"default_message"`
	Greeting       string   `yaml:"greeting"`
	QuickRequests  []string `yaml:"quick_requests"`
}

// Brand holds the header and footer texts.
type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	About   string `yaml:"about"`
}

// PlayerConfig carries audio engine and initial playback settings.
type PlayerConfig struct {
	Volume           float64 `yaml:"volume"`
	NetworkCachingMs int     `yaml:"network_caching_ms"`
	StartTimeoutSec  int     `yaml:"start_timeout_sec"`
}

// WindowConfig sets the initial window size.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Config aggregates everything the application reads at startup.
type Config struct {
	Brand   Brand         `yaml:"brand"`
	Contact Contact       `yaml:"contact"`
	Streams []Stream      `yaml:"streams"`
	Ads     []AdSnippet   `yaml:"ads"`
	Player  PlayerConfig  `yaml:"player"`
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConfigDir resolves the directory that should contain the config file.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppConfigSubdir), nil
}

// ConfigPath returns the full path to the default config.yaml.
func ConfigPath() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, AppConfigName), nil
}

// Load reads the config at path, or at ConfigPath when path is empty. A
// missing default file is created from the built-in defaults; a missing
// explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			cfg := Default()
			// Write a template the station owner can edit; defaults still apply if it fails.
			_ = cfg.Save(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies runtime defaults, and validates the result.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyRuntimeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate rejects catalogues the UI cannot present.
func (c *Config) Validate() error {
	if len(c.Streams) == 0 {
		return ErrNoStreams
	}
	ids := make(map[int]struct{}, len(c.Streams))
	for i, s := range c.Streams {
		if _, dup := ids[s.ID]; dup {
			return fmt.Errorf("config: duplicate stream id %d", s.ID)
		}
		ids[s.ID] = struct{}{}
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("config: stream %d (%q) has no url", i, s.Name)
		}
		switch s.Metadata.Type {
		case "", MetadataSimulated, MetadataAuto, MetadataICY, MetadataJSON:
			// empty means simulated
		default:
			return fmt.Errorf("config: stream %d has unknown metadata type %q", s.ID, s.Metadata.Type)
		}
	}
	adIDs := make(map[string]struct{}, len(c.Ads))
	for _, a := range c.Ads {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("config: ad snippet %q has no id", a.Title)
		}
		if _, dup := adIDs[a.ID]; dup {
			return fmt.Errorf("config: duplicate ad snippet id %q", a.ID)
		}
		adIDs[a.ID] = struct{}{}
	}
	if strings.TrimSpace(c.Contact.Number) == "" {
		return errors.New("config: contact number is required")
	}
	return nil
}

// StreamByID looks up a stream in the catalogue.
func (c *Config) StreamByID(id int) (Stream, bool) {
	for _, s := range c.Streams {
		if s.ID == id {
			return s, true
		}
	}
	return Stream{}, false
}

// Default builds the compiled-in configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		Brand: Brand{
			Name:    "RadioStream Pro",
			Tagline: "The best music, wherever you are.",
			About: "We are a web radio bringing you the best entertainment 24 hours a day. " +
				"Current hits, unforgettable classics and plenty of interaction. Stay tuned and join in!",
		},
		Contact: Contact{
			Service:        DefaultMessagingService,
			Number:         DefaultContactNumber,
			DefaultMessage: DefaultRequestMessage,
			Greeting:       DefaultGreeting,
			QuickRequests: []string{
				"I want to request an old hit!",
				"Play today's most requested!",
				"Send a shout-out to everyone!",
			},
		},
		Streams: []Stream{
			{
				ID:          1,
				Name:        "WebRadio Principal",
				Description: "The best music 24 hours a day",
				URL:         "https://stream.zeno.fm/cldwactvjlgtv",
			},
		},
		Ads: []AdSnippet{
			{
				ID:    "ad-top",
				Title: "Top banner (728x90)",
				Code:  `<!-- Ad Unit: Header_Leaderboard --><div id="ad-header-slot"></div><script>/* Ad Script Here */</script>`,
			},
			{
				ID:    "ad-side",
				Title: "Sidebar (300x250)",
				Code:  `<!-- Ad Unit: Sidebar_Rectangle --><div id="ad-sidebar-slot"></div><script>/* Ad Script Here */</script>`,
			},
			{
				ID:    "ad-footer",
				Title: "Sticky footer (320x50 mobile)",
				Code:  `<!-- Ad Unit: Footer_Sticky --><div id="ad-footer-sticky"></div><script>/* Ad Script Here */</script>`,
			},
		},
		Player: PlayerConfig{
			Volume:           DefaultVolume,
			NetworkCachingMs: DefaultNetworkCachingMs,
			StartTimeoutSec:  DefaultStartTimeoutSec,
		},
		Window:  WindowConfig{Width: DefaultWidth, Height: DefaultHeight},
		Logging: LoggingConfig{Level: "info"},
	}
	cfg.applyRuntimeDefaults()
	return cfg
}

// applyRuntimeDefaults normalizes values after a load so the UI always
// receives sane inputs.
func (c *Config) applyRuntimeDefaults() {
	if strings.TrimSpace(c.Brand.Name) == "" {
		c.Brand.Name = "RadioStream"
	}
	if strings.TrimSpace(c.Contact.Service) == "" {
		c.Contact.Service = DefaultMessagingService
	}
	c.Contact.Service = strings.TrimRight(strings.TrimSpace(c.Contact.Service), "/")
	c.Contact.Number = strings.TrimSpace(c.Contact.Number)
	if strings.TrimSpace(c.Contact.DefaultMessage) == "" {
		c.Contact.DefaultMessage = DefaultRequestMessage
	}
	if c.Contact.Greeting == "" {
		c.Contact.Greeting = DefaultGreeting
	}
	for i := range c.Streams {
		s := &c.Streams[i]
		// trim spaces/CRLF that sneak in from copy-pasted URLs
		s.URL = strings.TrimSpace(s.URL)
		s.Metadata.Type = strings.ToLower(strings.TrimSpace(s.Metadata.Type))
		if s.Metadata.Type == "" {
			s.Metadata.Type = MetadataSimulated
		}
		s.Metadata.URL = strings.TrimSpace(s.Metadata.URL)
	}
	if c.Player.Volume <= 0 || c.Player.Volume > 1 {
		c.Player.Volume = DefaultVolume
	}
	if c.Player.NetworkCachingMs <= 0 {
		c.Player.NetworkCachingMs = DefaultNetworkCachingMs
	}
	if c.Player.StartTimeoutSec <= 0 {
		c.Player.StartTimeoutSec = DefaultStartTimeoutSec
	}
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultHeight
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}
