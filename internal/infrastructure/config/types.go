package config

// Config holds all loaded configuration.
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Gameplay  GameplayConfig  `yaml:"gameplay"`
	Recording RecordingConfig `yaml:"recording"`
}

// DisplayConfig holds window settings.
type DisplayConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	Scale     int `yaml:"scale"`
	Framerate int `yaml:"framerate"`
}

// GameplayConfig holds arena tuning values.
type GameplayConfig struct {
	PlayerSpeed        float64 `yaml:"player_speed"`         // pixels/sec
	BulletSpeed        float64 `yaml:"bullet_speed"`         // pixels/sec
	EnemySpeed         float64 `yaml:"enemy_speed"`          // chase speed, pixels/sec
	EnemyDriftSpeed    float64 `yaml:"enemy_drift_speed"`    // initial random drift, pixels/sec
	EnemySpawnInterval float64 `yaml:"enemy_spawn_interval"` // seconds
	InitialEnemies     int     `yaml:"initial_enemies"`
	Decorations        int     `yaml:"decorations"`
	MaxHealth          int     `yaml:"max_health"`
	InvincibleDuration float64 `yaml:"invincible_duration"` // seconds
	BulletHitRadius    float64 `yaml:"bullet_hit_radius"`   // pixels
	ContactRadius      float64 `yaml:"contact_radius"`      // pixels
	MinSpawnDistance   float64 `yaml:"min_spawn_distance"`  // pixels from player
}

// RecordingConfig holds session recording settings.
type RecordingConfig struct {
	Dir              string  `yaml:"dir"`
	QueueCapacity    int     `yaml:"queue_capacity"`
	KeyframeInterval float64 `yaml:"keyframe_interval"` // seconds
	QuantizeDecimals int     `yaml:"quantize_decimals"`
	MouseThreshold   float64 `yaml:"mouse_threshold"` // pixels
	Warmup           float64 `yaml:"warmup"`          // seconds
}
