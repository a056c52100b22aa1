// Package config centralizes all tunable game parameters and process settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the full process configuration.
type Config struct {
	Game    Game    `toml:"game" yaml:"game"`
	Client  Client  `toml:"client" yaml:"client"`
	Logging Logging `toml:"logging" yaml:"logging"`
	SSH     SSH     `toml:"ssh" yaml:"ssh"`
	Web     Web     `toml:"web" yaml:"web"`
}

// Game holds the simulation tuning. Distances are logical arena units,
// speeds are units per second and times are seconds.
type Game struct {
	ArenaWidth  float64 `toml:"arena_width" yaml:"arena_width"`
	ArenaHeight float64 `toml:"arena_height" yaml:"arena_height"`

	PlayerWidth        float64 `toml:"player_width" yaml:"player_width"`
	PlayerHeight       float64 `toml:"player_height" yaml:"player_height"`
	PlayerBottomOffset float64 `toml:"player_bottom_offset" yaml:"player_bottom_offset"` // distance from arena bottom to player top
	PlayerSpeed        float64 `toml:"player_speed" yaml:"player_speed"`
	Reload             float64 `toml:"reload" yaml:"reload"`

	BulletWidth            float64 `toml:"bullet_width" yaml:"bullet_width"`
	BulletHeight           float64 `toml:"bullet_height" yaml:"bullet_height"`
	BulletSpeed            float64 `toml:"bullet_speed" yaml:"bullet_speed"`
	EnemyBulletSpeedFactor float64 `toml:"enemy_bullet_speed_factor" yaml:"enemy_bullet_speed_factor"`

	EnemyWidth        float64 `toml:"enemy_width" yaml:"enemy_width"`
	EnemyHeight       float64 `toml:"enemy_height" yaml:"enemy_height"`
	EnemySpeed        float64 `toml:"enemy_speed" yaml:"enemy_speed"`
	DropDistance      float64 `toml:"drop_distance" yaml:"drop_distance"`
	EnemyFireChance   float64 `toml:"enemy_fire_chance" yaml:"enemy_fire_chance"`     // per enemy per reference frame
	FireReferenceRate float64 `toml:"fire_reference_rate" yaml:"fire_reference_rate"` // frames per second the chance is quoted at
	WobbleAmplitude   float64 `toml:"wobble_amplitude" yaml:"wobble_amplitude"`
	WobbleFrequency   float64 `toml:"wobble_frequency" yaml:"wobble_frequency"` // radians per second

	ScoreSwarm int `toml:"score_swarm" yaml:"score_swarm"`
	ScoreElite int `toml:"score_elite" yaml:"score_elite"`
	ScoreBoss  int `toml:"score_boss" yaml:"score_boss"`

	Grid Grid `toml:"grid" yaml:"grid"`

	ExplosionParticles int     `toml:"explosion_particles" yaml:"explosion_particles"`
	ParticleSpeedMin   float64 `toml:"particle_speed_min" yaml:"particle_speed_min"`
	ParticleSpeedMax   float64 `toml:"particle_speed_max" yaml:"particle_speed_max"`
	ParticleSize       float64 `toml:"particle_size" yaml:"particle_size"`
	ParticleLife       float64 `toml:"particle_life" yaml:"particle_life"`
	ParticleFadeRate   float64 `toml:"particle_fade_rate" yaml:"particle_fade_rate"` // life lost per second

	MaxFrameDelta float64 `toml:"max_frame_delta" yaml:"max_frame_delta"`

	Colors Colors `toml:"colors" yaml:"colors"`
}

// Grid describes where a wave of enemies is laid out.
type Grid struct {
	Rows     int     `toml:"rows" yaml:"rows"`
	Cols     int     `toml:"cols" yaml:"cols"`
	SpacingX float64 `toml:"spacing_x" yaml:"spacing_x"`
	SpacingY float64 `toml:"spacing_y" yaml:"spacing_y"`
	StartX   float64 `toml:"start_x" yaml:"start_x"`
	StartY   float64 `toml:"start_y" yaml:"start_y"`
}

// Colors are opaque to the simulation and only passed through to renderers.
type Colors struct {
	Player       string `toml:"player" yaml:"player"`
	PlayerBullet string `toml:"player_bullet" yaml:"player_bullet"`
	EnemyBullet  string `toml:"enemy_bullet" yaml:"enemy_bullet"`
	Swarm        string `toml:"swarm" yaml:"swarm"`
	Elite        string `toml:"elite" yaml:"elite"`
	Boss         string `toml:"boss" yaml:"boss"`
}

// Client controls the terminal session loop.
type Client struct {
	TargetFPS int `toml:"target_fps" yaml:"target_fps"`
	MaxCols   int `toml:"max_cols" yaml:"max_cols"` // Render area is clamped to this many terminal columns
	MaxRows   int `toml:"max_rows" yaml:"max_rows"`
	KeyHoldMS int `toml:"key_hold_ms" yaml:"key_hold_ms"` // How long a key counts as held after its last byte

	// Idle sessions get a warning, then are dropped. Zero disables.
	InactivityWarnSeconds       int `toml:"inactivity_warn_seconds" yaml:"inactivity_warn_seconds"`
	InactivityDisconnectSeconds int `toml:"inactivity_disconnect_seconds" yaml:"inactivity_disconnect_seconds"`
}

// Logging controls the zap logger.
type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
	Output string `toml:"output" yaml:"output"` // "stderr", "stdout", "discard" or a file path
}

// SSH configures the wish server.
type SSH struct {
	Host        string `toml:"host" yaml:"host"`
	Port        string `toml:"port" yaml:"port"`
	HostKeyPath string `toml:"host_key_path" yaml:"host_key_path"`
}

// Web configures the landing page server.
type Web struct {
	Host        string `toml:"host" yaml:"host"`
	Port        string `toml:"port" yaml:"port"`
	DisplayHost string `toml:"display_host" yaml:"display_host"` // SSH host shown on the page
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Game: DefaultGame(),
		Client: Client{
			TargetFPS: 60,
			MaxCols:   120,
			MaxRows:   45,
			KeyHoldMS: 120,

			InactivityWarnSeconds:       90,
			InactivityDisconnectSeconds: 120,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		SSH: SSH{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
		},
		Web: Web{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "your-server.com",
		},
	}
}

// DefaultGame returns the stock simulation tuning.
func DefaultGame() Game {
	return Game{
		ArenaWidth:  800,
		ArenaHeight: 600,

		PlayerWidth:        40,
		PlayerHeight:       40,
		PlayerBottomOffset: 60,
		PlayerSpeed:        300,
		Reload:             0.25,

		BulletWidth:            4,
		BulletHeight:           12,
		BulletSpeed:            500,
		EnemyBulletSpeedFactor: 0.6,

		EnemyWidth:        30,
		EnemyHeight:       30,
		EnemySpeed:        60,
		DropDistance:      20,
		EnemyFireChance:   0.0005,
		FireReferenceRate: 60,
		WobbleAmplitude:   6,
		WobbleFrequency:   5,

		ScoreSwarm: 100,
		ScoreElite: 200,
		ScoreBoss:  300,

		Grid: Grid{
			Rows:     4,
			Cols:     8,
			SpacingX: 60,
			SpacingY: 50,
			StartX:   100,
			StartY:   80,
		},

		ExplosionParticles: 8,
		ParticleSpeedMin:   50,
		ParticleSpeedMax:   150,
		ParticleSize:       3,
		ParticleLife:       1.0,
		ParticleFadeRate:   2.0,

		MaxFrameDelta: 0.1,

		Colors: Colors{
			Player:       "#3b82f6",
			PlayerBullet: "#60a5fa",
			EnemyBullet:  "#f87171",
			Swarm:        "#fbbf24",
			Elite:        "#f97316",
			Boss:         "#ef4444",
		},
	}
}

// Load reads a TOML or YAML file (chosen by extension) on top of Default.
// The result is not validated; call Validate before use.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	return cfg, nil
}

// Validate checks every section and joins all failures.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Game.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Client.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: client.target_fps must be positive, got %d", ErrInvalid, c.Client.TargetFPS))
	}
	if c.Client.MaxCols < 20 || c.Client.MaxRows < 10 {
		errs = append(errs, fmt.Errorf("%w: client render area must be at least 20x10, got %dx%d",
			ErrInvalid, c.Client.MaxCols, c.Client.MaxRows))
	}
	if c.Client.KeyHoldMS < 0 || c.Client.InactivityWarnSeconds < 0 || c.Client.InactivityDisconnectSeconds < 0 {
		errs = append(errs, fmt.Errorf("%w: client timings must not be negative", ErrInvalid))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("%w: logging.format must be json or console, got %q", ErrInvalid, c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Validate checks that the tuning describes a playable arena.
func (g Game) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"arena_width", g.ArenaWidth},
		{"arena_height", g.ArenaHeight},
		{"player_width", g.PlayerWidth},
		{"player_height", g.PlayerHeight},
		{"bullet_width", g.BulletWidth},
		{"bullet_height", g.BulletHeight},
		{"enemy_width", g.EnemyWidth},
		{"enemy_height", g.EnemyHeight},
		{"particle_size", g.ParticleSize},
		{"particle_life", g.ParticleLife},
		{"particle_fade_rate", g.ParticleFadeRate},
		{"max_frame_delta", g.MaxFrameDelta},
		{"fire_reference_rate", g.FireReferenceRate},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			fail("game.%s must be positive, got %v", p.name, p.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"player_speed", g.PlayerSpeed},
		{"reload", g.Reload},
		{"bullet_speed", g.BulletSpeed},
		{"enemy_bullet_speed_factor", g.EnemyBulletSpeedFactor},
		{"enemy_speed", g.EnemySpeed},
		{"drop_distance", g.DropDistance},
		{"wobble_amplitude", g.WobbleAmplitude},
		{"particle_speed_min", g.ParticleSpeedMin},
	}
	for _, p := range nonNegative {
		if p.v < 0 {
			fail("game.%s must not be negative, got %v", p.name, p.v)
		}
	}

	if g.PlayerWidth > g.ArenaWidth {
		fail("game.player_width %v exceeds arena_width %v", g.PlayerWidth, g.ArenaWidth)
	}
	if g.PlayerBottomOffset <= 0 || g.PlayerBottomOffset > g.ArenaHeight {
		fail("game.player_bottom_offset must be in (0, arena_height], got %v", g.PlayerBottomOffset)
	}
	if g.EnemyFireChance < 0 || g.EnemyFireChance > 1 {
		fail("game.enemy_fire_chance must be in [0, 1], got %v", g.EnemyFireChance)
	}
	if g.ParticleSpeedMax < g.ParticleSpeedMin {
		fail("game.particle_speed_max %v is below particle_speed_min %v", g.ParticleSpeedMax, g.ParticleSpeedMin)
	}
	if g.ExplosionParticles < 0 {
		fail("game.explosion_particles must not be negative, got %d", g.ExplosionParticles)
	}
	if g.ScoreSwarm <= 0 || g.ScoreElite <= 0 || g.ScoreBoss <= 0 {
		fail("game scores must be positive, got swarm=%d elite=%d boss=%d", g.ScoreSwarm, g.ScoreElite, g.ScoreBoss)
	}

	if g.Grid.Rows < 1 || g.Grid.Cols < 1 {
		fail("game.grid must have at least one row and column, got %dx%d", g.Grid.Rows, g.Grid.Cols)
	}
	if g.Grid.SpacingX < g.EnemyWidth || g.Grid.SpacingY < g.EnemyHeight {
		fail("game.grid spacing %vx%v lets %vx%v enemies overlap",
			g.Grid.SpacingX, g.Grid.SpacingY, g.EnemyWidth, g.EnemyHeight)
	}

	return errors.Join(errs...)
}
