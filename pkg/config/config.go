// Package config loads argviz settings from a TOML file.
//
// The file has two tables. [user_settings] controls translation, layout,
// transcript dumps and the engine; [render] controls colors and text sizes of
// rendered trees:
//
//	[user_settings]
//	named_nodes = true
//	tree_grow_direction_down = false
//	engine_timeout = "30s"
//
//	[render]
//	accept_node_color = "#2e8b57"
//
// Every key is optional. Missing keys keep their [Default] values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	argerrors "github.com/matzehuels/argviz/pkg/errors"
	"github.com/matzehuels/argviz/pkg/layout"
)

// FileName is the settings file name inside the config directory.
const FileName = "settings.toml"

// appDir is the directory name below the user config directory.
const appDir = "argviz"

// Settings is the complete settings file.
type Settings struct {
	User   UserSettings   `toml:"user_settings"`
	Render RenderSettings `toml:"render"`

	// Source is the file the settings were read from, empty for defaults.
	Source string `toml:"-"`
	// Unknown lists keys present in the file that no setting uses.
	Unknown []string `toml:"-"`
}

// UserSettings mirrors the engine and tree options.
type UserSettings struct {
	NamedNodes            bool     `toml:"named_nodes"`
	TreeWidth             float64  `toml:"tree_width"`
	VerticalNodeDist      float64  `toml:"vertical_node_dist"`
	TreeGrowDirectionDown bool     `toml:"tree_grow_direction_down"`
	PrintRawResult        bool     `toml:"print_raw_result"`
	PrintCompactResult    bool     `toml:"print_compact_result"`
	ExportRaw             bool     `toml:"export_raw"`
	Export                bool     `toml:"export"`
	PrintDebug            bool     `toml:"print_debug"`
	EngineTimeout         Duration `toml:"engine_timeout"`
	SwiplPath             string   `toml:"swipl_path"`
	QueryFunction         string   `toml:"query_function"`
	ResultVariable        string   `toml:"result_variable"`
}

// RenderSettings styles rendered trees.
type RenderSettings struct {
	BackgroundColor     string  `toml:"background_color"`
	NodeColor           string  `toml:"node_color"`
	AcceptNodeColor     string  `toml:"accept_node_color"`
	RejectNodeColor     string  `toml:"reject_node_color"`
	NodeTextColor       string  `toml:"node_text_color"`
	NodeTextSize        int     `toml:"node_text_size"`
	TitleTextSize       int     `toml:"title_text_size"`
	CompactDescriptions bool    `toml:"compact_descriptions"`
	Scale               float64 `toml:"scale"`
}

// Duration is a time.Duration written as a string such as "15s".
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		User: UserSettings{
			TreeWidth:             1.0,
			VerticalNodeDist:      0.3,
			TreeGrowDirectionDown: true,
			EngineTimeout:         Duration{15 * time.Second},
			SwiplPath:             "swipl",
			QueryFunction:         "extended_prove_with_tree",
			ResultVariable:        "A",
		},
		Render: RenderSettings{
			BackgroundColor: "#ffffff",
			NodeColor:       "#7a9cc6",
			AcceptNodeColor: "#3cb371",
			RejectNodeColor: "#e05252",
			NodeTextColor:   "#1a1a1a",
			NodeTextSize:    12,
			TitleTextSize:   16,
			Scale:           600,
		},
	}
}

// DefaultPath returns the settings file location in the user config
// directory: $XDG_CONFIG_HOME/argviz/settings.toml, falling back to
// ~/.config/argviz/settings.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir, FileName), nil
}

// Load reads settings from path. With an empty path the [DefaultPath] is
// used, and a missing default file yields [Default]. An explicit path that
// does not exist is a FILE_NOT_FOUND error; undecodable TOML or invalid values
// are INVALID_INPUT errors.
func Load(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Settings{}, argerrors.Wrap(argerrors.ErrCodeFileNotFound, err, "settings file %s not found", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return Settings{}, argerrors.Wrap(argerrors.GetCode(err), err, "settings file %s", path)
	}
	s.Source = path
	return s, nil
}

// Parse decodes settings from TOML data on top of [Default] and validates
// them.
func Parse(data []byte) (Settings, error) {
	s := Default()
	meta, err := toml.Decode(string(data), &s)
	if err != nil {
		return Settings{}, argerrors.Wrap(argerrors.ErrCodeInvalidInput, err, "decode TOML")
	}
	for _, key := range meta.Undecoded() {
		s.Unknown = append(s.Unknown, key.String())
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

var (
	atomPattern     = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)
	variablePattern = regexp.MustCompile(`^[A-Z_][A-Za-z0-9_]*$`)
	colorPattern    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Validate checks value ranges and the goal template parts.
func (s Settings) Validate() error {
	u := s.User
	switch {
	case u.TreeWidth <= 0:
		return argerrors.New(argerrors.ErrCodeInvalidInput, "tree_width must be positive, got %v", u.TreeWidth)
	case u.VerticalNodeDist <= 0:
		return argerrors.New(argerrors.ErrCodeInvalidInput, "vertical_node_dist must be positive, got %v", u.VerticalNodeDist)
	case u.EngineTimeout.Duration <= 0:
		return argerrors.New(argerrors.ErrCodeInvalidInput, "engine_timeout must be positive, got %s", u.EngineTimeout)
	case u.SwiplPath == "":
		return argerrors.New(argerrors.ErrCodeInvalidInput, "swipl_path cannot be empty")
	case !atomPattern.MatchString(u.QueryFunction):
		return argerrors.New(argerrors.ErrCodeInvalidInput, "query_function %q is not a Prolog atom", u.QueryFunction)
	case !variablePattern.MatchString(u.ResultVariable):
		return argerrors.New(argerrors.ErrCodeInvalidInput, "result_variable %q is not a Prolog variable", u.ResultVariable)
	}

	r := s.Render
	for _, c := range []struct{ name, value string }{
		{"background_color", r.BackgroundColor},
		{"node_color", r.NodeColor},
		{"accept_node_color", r.AcceptNodeColor},
		{"reject_node_color", r.RejectNodeColor},
		{"node_text_color", r.NodeTextColor},
	} {
		if !colorPattern.MatchString(c.value) {
			return argerrors.New(argerrors.ErrCodeInvalidInput, "%s must be #rrggbb, got %q", c.name, c.value)
		}
	}
	if r.NodeTextSize <= 0 || r.TitleTextSize <= 0 || r.Scale <= 0 {
		return argerrors.New(argerrors.ErrCodeInvalidInput, "node_text_size, title_text_size and scale must be positive")
	}
	return nil
}

// LayoutOptions converts the tree settings into layout geometry.
func (s Settings) LayoutOptions() layout.Options {
	return layout.Options{
		Width:    s.User.TreeWidth,
		VertGap:  s.User.VerticalNodeDist,
		Downward: s.User.TreeGrowDirectionDown,
	}
}

// Encode writes s as TOML.
func (s Settings) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
