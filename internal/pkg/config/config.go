package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Log       LogConfig       `mapstructure:"log"`
	Delivery  DeliveryConfig  `mapstructure:"delivery"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	CORSOrigins  string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DeliveryConfig struct {
	// Geocoder selects the address resolver: "mock" is the only built-in one.
	Geocoder          string       `mapstructure:"geocoder"`
	SearchRadiusMiles float64      `mapstructure:"search_radius_miles"`
	Zones             []ZoneConfig `mapstructure:"zones"`
}

type ZoneConfig struct {
	ID                   string  `mapstructure:"id"`
	Name                 string  `mapstructure:"name"`
	Latitude             float64 `mapstructure:"latitude"`
	Longitude            float64 `mapstructure:"longitude"`
	RadiusMiles          float64 `mapstructure:"radius_miles"`
	DeliveryFee          float64 `mapstructure:"delivery_fee"`
	MinFreeDeliveryOrder float64 `mapstructure:"min_free_delivery_order"`
	EstimatedTime        string  `mapstructure:"estimated_time"`
}

// DomainZones converts the configured zones, keeping their order.
func (d DeliveryConfig) DomainZones() []domain.DeliveryZone {
	out := make([]domain.DeliveryZone, 0, len(d.Zones))
	for _, z := range d.Zones {
		out = append(out, domain.DeliveryZone{
			ID:                   z.ID,
			Name:                 z.Name,
			Center:               domain.Coordinate{Latitude: z.Latitude, Longitude: z.Longitude},
			RadiusMiles:          z.RadiusMiles,
			DeliveryFee:          z.DeliveryFee,
			MinFreeDeliveryOrder: z.MinFreeDeliveryOrder,
			EstimatedTimeLabel:   z.EstimatedTime,
		})
	}
	return out
}

// defaultZones are the storefront's delivery areas around JFK.
var defaultZones = []map[string]any{
	{
		"id": "zone-1", "name": "Zone 1: JFK Airport Area",
		"latitude": 40.6413, "longitude": -73.7781, "radius_miles": 5.0,
		"delivery_fee": 5.0, "min_free_delivery_order": 75.0, "estimated_time": "30-45 min",
	},
	{
		"id": "zone-2", "name": "Zone 2: Jamaica & South Queens",
		"latitude": 40.7027, "longitude": -73.7890, "radius_miles": 8.0,
		"delivery_fee": 10.0, "min_free_delivery_order": 100.0, "estimated_time": "45-60 min",
	},
	{
		"id": "zone-3", "name": "Zone 3: Greater Queens & Nassau Border",
		"latitude": 40.6782, "longitude": -73.7442, "radius_miles": 12.0,
		"delivery_fee": 15.0, "min_free_delivery_order": 150.0, "estimated_time": "60-90 min",
	},
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.cors_origins", "http://localhost:3000, http://localhost:5173, https://*.jfkcannabis.com")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "storefront")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "storefront")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "content-publishing")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("delivery.geocoder", "mock")
	v.SetDefault("delivery.search_radius_miles", 10.0)
	v.SetDefault("delivery.zones", defaultZones)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: STOREFRONT_DATABASE_HOST → database.host
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Temporal.HostPort == "" {
		errs = append(errs, "temporal.host_port is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Delivery.Geocoder != "mock" {
		errs = append(errs, fmt.Sprintf("delivery.geocoder %q is not supported", c.Delivery.Geocoder))
	}
	if c.Delivery.SearchRadiusMiles <= 0 {
		errs = append(errs, "delivery.search_radius_miles must be positive")
	}
	if len(c.Delivery.Zones) == 0 {
		errs = append(errs, "delivery.zones must not be empty")
	}
	for i, z := range c.Delivery.Zones {
		if z.ID == "" {
			errs = append(errs, fmt.Sprintf("delivery.zones[%d].id is required", i))
		}
		if z.RadiusMiles <= 0 {
			errs = append(errs, fmt.Sprintf("delivery.zones[%d].radius_miles must be positive", i))
		}
		if z.Latitude < -90 || z.Latitude > 90 || z.Longitude < -180 || z.Longitude > 180 {
			errs = append(errs, fmt.Sprintf("delivery.zones[%d] center is out of range", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
