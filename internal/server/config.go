package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/wolfgoatpig/internal/game"
)

// ServerConfig is the complete server configuration, loaded from HCL.
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
	Course *CourseConfig  `hcl:"course,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	SnapshotDir string `hcl:"snapshot_dir,optional"`
	DBPath      string `hcl:"db_path,optional"`
}

// GameSettings contains the rule knobs applied to every game the server
// creates.
type GameSettings struct {
	BaseWager    int  `hcl:"base_wager,optional"`
	CarryOver    bool `hcl:"carry_over,optional"`
	EnablePhases bool `hcl:"enable_phases,optional"`
}

// CourseConfig defines the course played on this server.
type CourseConfig struct {
	Name  string       `hcl:"name,label"`
	Holes []HoleConfig `hcl:"hole,block"`
}

// HoleConfig defines a single hole. The block label is the hole number.
type HoleConfig struct {
	Number      string `hcl:"number,label"`
	Par         int    `hcl:"par"`
	Yards       int    `hcl:"yards,optional"`
	StrokeIndex int    `hcl:"stroke_index"`
}

// DefaultServerConfig returns the configuration used when no file exists.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:     "localhost",
			Port:        8080,
			LogLevel:    "info",
			SnapshotDir: "snapshots",
		},
		Game: GameSettings{BaseWager: 1},
	}
}

// LoadServerConfig loads server configuration from an HCL file, falling
// back to defaults when the file does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.SnapshotDir == "" {
		config.Server.SnapshotDir = "snapshots"
	}
	if config.Game.BaseWager == 0 {
		config.Game.BaseWager = 1
	}

	return &config, nil
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.BaseWager < 1 {
		return fmt.Errorf("base wager must be at least 1 quarter, got %d", c.Game.BaseWager)
	}
	if c.Course != nil {
		if err := c.GameCourse().Validate(); err != nil {
			return fmt.Errorf("course %q: %w", c.Course.Name, err)
		}
	}
	return nil
}

// Addr returns the full listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameCourse converts the configured course into the game's course type,
// or nil when the server should use the built-in default.
func (c *ServerConfig) GameCourse() *game.Course {
	if c.Course == nil {
		return nil
	}
	course := &game.Course{Name: c.Course.Name}
	for _, h := range c.Course.Holes {
		number, err := strconv.Atoi(h.Number)
		if err != nil {
			number = 0 // caught by course validation
		}
		course.Holes = append(course.Holes, game.Hole{
			Number:      number,
			Par:         h.Par,
			Yards:       h.Yards,
			StrokeIndex: h.StrokeIndex,
		})
	}
	return course
}

// GameConfig returns the game.Config applied to new games.
func (c *ServerConfig) GameConfig() game.Config {
	return game.Config{
		BaseWager:    c.Game.BaseWager,
		CarryOver:    c.Game.CarryOver,
		EnablePhases: c.Game.EnablePhases,
		Course:       c.GameCourse(),
	}
}
