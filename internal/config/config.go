package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation and host configuration values
type Config struct {
	Display    DisplayConfig    `yaml:"display"`
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`
	Mobs       MobConfig        `yaml:"mobs"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Simulation SimulationConfig `yaml:"simulation"`
	Grenade    GrenadeConfig    `yaml:"grenade"`
	Axe        AxeConfig        `yaml:"axe"`
	Weapons    []WeaponConfig   `yaml:"weapons"`
	Minimap    MinimapConfig    `yaml:"minimap"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
}

// WorldConfig describes the voxel grid and the generator.
type WorldConfig struct {
	GridSize         int     `yaml:"grid_size"`
	BlockSize        float64 `yaml:"block_size"`
	MaxTerrainHeight int     `yaml:"max_terrain_height"` // column scan starts here
	Seed             int64   `yaml:"seed"`
	Buildings        int     `yaml:"buildings"`
	Camps            int     `yaml:"camps"`
}

type PlayerConfig struct {
	Height          float64 `yaml:"height"`
	Radius          float64 `yaml:"radius"`
	MoveSpeed       float64 `yaml:"move_speed"`
	SprintSpeed     float64 `yaml:"sprint_speed"`
	JumpForce       float64 `yaml:"jump_force"`
	Gravity         float64 `yaml:"gravity"`
	Damping         float64 `yaml:"damping"`
	MaxHealth       float64 `yaml:"max_health"`
	HealthRegen     float64 `yaml:"health_regen"` // per second
	MaxStamina      float64 `yaml:"max_stamina"`
	StaminaDrain    float64 `yaml:"stamina_drain"`
	StaminaRegen    float64 `yaml:"stamina_regen"`
	JumpStaminaCost float64 `yaml:"jump_stamina_cost"`
	BaseFOV         float64 `yaml:"base_fov"`
	SprintFOVBonus  float64 `yaml:"sprint_fov_bonus"`
	FOVSmoothing    float64 `yaml:"fov_smoothing"`
	ShakeDecay      float64 `yaml:"shake_decay"`
	ShotShake       float64 `yaml:"shot_shake"`
	ThrowShake      float64 `yaml:"throw_shake"`
}

type MobConfig struct {
	MaxHealth              float64       `yaml:"max_health"`
	Radius                 float64       `yaml:"radius"`
	Height                 float64       `yaml:"height"`
	FootOffset             float64       `yaml:"foot_offset"`
	DetectionRange         float64       `yaml:"detection_range"`
	StealthDetectionRange  float64       `yaml:"stealth_detection_range"`
	PursuitSpeed           float64       `yaml:"pursuit_speed"`
	StealthPursuitSpeed    float64       `yaml:"stealth_pursuit_speed"`
	WanderSpeed            float64       `yaml:"wander_speed"`
	WanderChance           float64       `yaml:"wander_chance"`
	Damping                float64       `yaml:"damping"`
	TurnSmoothing          float64       `yaml:"turn_smoothing"`
	AttackRange            float64       `yaml:"attack_range"`
	AttackDamage           float64       `yaml:"attack_damage"`
	AttackCooldown         time.Duration `yaml:"attack_cooldown"`
	HitFlash               time.Duration `yaml:"hit_flash"`
	FallStep               float64       `yaml:"fall_step"`
	HeadshotFallMultiplier float64       `yaml:"headshot_fall_multiplier"`
}

type SpawnConfig struct {
	Initial      int           `yaml:"initial"`
	Max          int           `yaml:"max"`
	Interval     time.Duration `yaml:"interval"`
	MinDistance  float64       `yaml:"min_distance"`
	AreaFraction float64       `yaml:"area_fraction"`
	Attempts     int           `yaml:"attempts"`
	RespawnDelay time.Duration `yaml:"respawn_delay"`
}

type SimulationConfig struct {
	MaxDelta time.Duration `yaml:"max_delta"`
	Seed     int64         `yaml:"seed"`
}

type GrenadeConfig struct {
	ThrowForce    float64 `yaml:"throw_force"`
	Radius        float64 `yaml:"radius"`
	Damage        float64 `yaml:"damage"`
	Count         int     `yaml:"count"`
	GroundEpsilon float64 `yaml:"ground_epsilon"`
}

type AxeConfig struct {
	ThrowSpeed   float64 `yaml:"throw_speed"`
	ThrowRange   float64 `yaml:"throw_range"`
	GravityScale float64 `yaml:"gravity_scale"`
	HitRay       float64 `yaml:"hit_ray"`
	SpinRate     float64 `yaml:"spin_rate"`
}

// WeaponConfig is one catalog entry. Durations accept Go duration strings ("60ms").
type WeaponConfig struct {
	ID                 string        `yaml:"id"`
	Name               string        `yaml:"name"`
	Damage             float64       `yaml:"damage"`
	HeadshotMultiplier float64       `yaml:"headshot_multiplier"`
	Range              float64       `yaml:"range"`
	FireInterval       time.Duration `yaml:"fire_interval"`
	MagazineSize       int           `yaml:"magazine_size"`
	ReserveAmmo        int           `yaml:"reserve_ammo"`
	ReloadTime         time.Duration `yaml:"reload_time"`
	FullAuto           bool          `yaml:"full_auto"`
	Pellets            int           `yaml:"pellets"`
	Spread             float64       `yaml:"spread"`
	ScopeZoom          float64       `yaml:"scope_zoom"`
	OneShot            bool          `yaml:"one_shot"`
	Melee              bool          `yaml:"melee"`
	Throwable          bool          `yaml:"throwable"`
}

type MinimapConfig struct {
	Size    int     `yaml:"size"`  // pixels
	Range   float64 `yaml:"range"` // world units shown from the player
	Terrain bool    `yaml:"terrain"`
	Mobs    bool    `yaml:"mobs"`
	Player  bool    `yaml:"player"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in tuning of the game.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			WindowTitle:  "Voxelrift",
			Resizable:    true,
			TPS:          60,
		},
		World: WorldConfig{
			GridSize:         60,
			BlockSize:        1,
			MaxTerrainHeight: 25,
			Seed:             1,
			Buildings:        8,
			Camps:            5,
		},
		Player: PlayerConfig{
			Height:          1.7,
			Radius:          0.4,
			MoveSpeed:       24,
			SprintSpeed:     40,
			JumpForce:       12,
			Gravity:         25,
			Damping:         10,
			MaxHealth:       100,
			HealthRegen:     5,
			MaxStamina:      100,
			StaminaDrain:    15,
			StaminaRegen:    20,
			JumpStaminaCost: 10,
			BaseFOV:         75,
			SprintFOVBonus:  10,
			FOVSmoothing:    0.1,
			ShakeDecay:      0.85,
			ShotShake:       0.08,
			ThrowShake:      0.2,
		},
		Mobs: MobConfig{
			MaxHealth:              100,
			Radius:                 0.3,
			Height:                 1.8,
			FootOffset:             0.85,
			DetectionRange:         30,
			StealthDetectionRange:  8,
			PursuitSpeed:           1.5,
			StealthPursuitSpeed:    0.7,
			WanderSpeed:            1.5,
			WanderChance:           0.01,
			Damping:                0.92,
			TurnSmoothing:          0.1,
			AttackRange:            3,
			AttackDamage:           2,
			AttackCooldown:         2 * time.Second,
			HitFlash:               100 * time.Millisecond,
			FallStep:               0.08,
			HeadshotFallMultiplier: 3,
		},
		Spawn: SpawnConfig{
			Initial:      20,
			Max:          30,
			Interval:     2 * time.Second,
			MinDistance:  20,
			AreaFraction: 0.8,
			Attempts:     64,
			RespawnDelay: time.Second,
		},
		Simulation: SimulationConfig{
			MaxDelta: 100 * time.Millisecond,
			Seed:     1,
		},
		Grenade: GrenadeConfig{
			ThrowForce:    20,
			Radius:        10,
			Damage:        80,
			Count:         99999,
			GroundEpsilon: 0.2,
		},
		Axe: AxeConfig{
			ThrowSpeed:   25,
			ThrowRange:   50,
			GravityScale: 0.5,
			HitRay:       0.5,
			SpinRate:     15,
		},
		Weapons: DefaultWeapons(),
		Minimap: MinimapConfig{
			Size:    160,
			Range:   30,
			Terrain: true,
			Mobs:    true,
			Player:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultWeapons returns the stock arsenal in selection order.
func DefaultWeapons() []WeaponConfig {
	return []WeaponConfig{
		{ID: "pistol", Name: "Pistol", Damage: 20, HeadshotMultiplier: 3, Range: 50, FireInterval: 100 * time.Millisecond,
			MagazineSize: 12, ReserveAmmo: 96, ReloadTime: 1500 * time.Millisecond, FullAuto: true},
		{ID: "ar", Name: "Assault Rifle", Damage: 20, HeadshotMultiplier: 2.5, Range: 100, FireInterval: 60 * time.Millisecond,
			MagazineSize: 30, ReserveAmmo: 120, ReloadTime: 2 * time.Second, FullAuto: true},
		{ID: "smg", Name: "SMG", Damage: 12, HeadshotMultiplier: 2, Range: 60, FireInterval: 40 * time.Millisecond,
			MagazineSize: 30, ReserveAmmo: 150, ReloadTime: 1800 * time.Millisecond, FullAuto: true},
		{ID: "shotgun", Name: "Shotgun", Damage: 15, HeadshotMultiplier: 2, Range: 30, FireInterval: 200 * time.Millisecond,
			MagazineSize: 10, ReserveAmmo: 40, ReloadTime: 2500 * time.Millisecond, FullAuto: true, Pellets: 8, Spread: 0.12},
		{ID: "sniper", Name: "Sniper", Damage: 999, HeadshotMultiplier: 1, Range: 300, FireInterval: 400 * time.Millisecond,
			MagazineSize: 5, ReserveAmmo: 20, ReloadTime: 3 * time.Second, ScopeZoom: 6, OneShot: true},
		{ID: "axe", Name: "Axe", Damage: 150, HeadshotMultiplier: 3, Range: 3, FireInterval: 800 * time.Millisecond,
			Melee: true, Throwable: true},
		{ID: "grenade", Name: "Grenade", Damage: 80, Range: 50, Throwable: true},
	}
}

// LoadConfig overlays a YAML file onto Default. A missing file yields the defaults.
// A weapons list in the file replaces the stock list as a whole.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

// MustLoadConfig loads configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Validate reports every out-of-range value at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.World.GridSize > 0, "world.grid_size must be positive, got %d", c.World.GridSize)
	check(c.World.BlockSize > 0, "world.block_size must be positive, got %g", c.World.BlockSize)
	check(c.World.MaxTerrainHeight > 0, "world.max_terrain_height must be positive, got %d", c.World.MaxTerrainHeight)
	check(c.Player.Height > 0, "player.height must be positive, got %g", c.Player.Height)
	check(c.Player.MaxHealth > 0, "player.max_health must be positive, got %g", c.Player.MaxHealth)
	check(c.Player.MaxStamina > 0, "player.max_stamina must be positive, got %g", c.Player.MaxStamina)
	check(c.Mobs.MaxHealth > 0, "mobs.max_health must be positive, got %g", c.Mobs.MaxHealth)
	check(c.Mobs.FallStep > 0, "mobs.fall_step must be positive, got %g", c.Mobs.FallStep)
	check(c.Spawn.Max >= c.Spawn.Initial, "spawn.max (%d) is below spawn.initial (%d)", c.Spawn.Max, c.Spawn.Initial)
	check(c.Simulation.MaxDelta > 0, "simulation.max_delta must be positive, got %s", c.Simulation.MaxDelta)
	check(c.Grenade.Radius > 0, "grenade.radius must be positive, got %g", c.Grenade.Radius)
	check(len(c.Weapons) > 0, "weapons list is empty")

	seen := make(map[string]bool, len(c.Weapons))
	for _, w := range c.Weapons {
		check(w.ID != "", "weapon without id")
		check(!seen[w.ID], "duplicate weapon id %q", w.ID)
		seen[w.ID] = true
		if w.MagazineSize > 0 {
			check(w.ReloadTime > 0, "weapon %q has a magazine but no reload_time", w.ID)
		}
		check(w.Pellets >= 0, "weapon %q has negative pellets", w.ID)
	}
	return errors.Join(errs...)
}
