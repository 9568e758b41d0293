package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"sperrmuell/geocode"
	"sperrmuell/models"
	"sperrmuell/sources/schedule"
)

// Config holds all application configuration loaded from .env, environment
// variables and command-line flags.
type Config struct {
	Year int `validate:"gte=1900,lte=2999"`

	ScheduleFile      string `validate:"required"`
	ScheduleDelimiter rune
	ScheduleEncoding  string `validate:"oneof=utf-8 utf8 macintosh mac-roman macroman windows-1252 cp1252"`
	ScheduleSheet     string
	ScheduleStrip     string
	CategoryMarker    string `validate:"required"`

	ColCategory  string `validate:"required,alpha"`
	ColFirstDate string `validate:"required,alpha"`
	ColStreet    string `validate:"required,alpha"`
	ColCity      string `validate:"required,alpha"`
	ColPostcode  string `validate:"required,alpha"`
	ColEvenFrom  string `validate:"required,alpha"`
	ColEvenTo    string `validate:"required,alpha"`
	ColOddFrom   string `validate:"required,alpha"`
	ColOddTo     string `validate:"required,alpha"`

	OSMFile      string `validate:"required"`
	Municipality string `validate:"required"`
	OutputDir    string `validate:"required"`
	DebugDir     string `validate:"required"`

	Strategy           string `validate:"oneof=local nominatim"`
	NominatimURL       string `validate:"required,url"`
	NominatimUserAgent string `validate:"required"`

	GeocodeMinIntervalMs int `validate:"gte=0"`
	GeocodeBaseDelayMs   int `validate:"gte=0"`
	GeocodeMaxDelayMs    int `validate:"gtefield=GeocodeBaseDelayMs"`
	GeocodeMaxRetries    int `validate:"gte=0"`
	GeocodeMaxElapsedS   int `validate:"gte=0"`

	StopOnMiss bool
	MaxSpan    int `validate:"gte=0"`
	SkipPast   bool

	MapCenterLat float64 `validate:"gte=-90,lte=90"`
	MapCenterLon float64 `validate:"gte=-180,lte=180"`
	MapZoom      int     `validate:"gte=1,lte=19"`
	MapSnapshot  bool
	ChromeBin    string

	LogLevel string `validate:"oneof=debug info warn warning error"`
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("year", time.Now().Year())
	v.SetDefault("schedule_file", "")
	v.SetDefault("schedule_delimiter", `\t`)
	v.SetDefault("schedule_encoding", "utf-8")
	v.SetDefault("schedule_sheet", "")
	v.SetDefault("schedule_strip", "")
	v.SetDefault("category_marker", "Sperrmüll")

	v.SetDefault("col_category", "N")
	v.SetDefault("col_first_date", "AS")
	v.SetDefault("col_street", "X")
	v.SetDefault("col_city", "Y")
	v.SetDefault("col_postcode", "AA")
	v.SetDefault("col_even_from", "AB")
	v.SetDefault("col_even_to", "AC")
	v.SetDefault("col_odd_from", "AD")
	v.SetDefault("col_odd_to", "AE")

	v.SetDefault("osm_file", "OSM-Map.xml")
	v.SetDefault("municipality", "Bonn")
	v.SetDefault("output_dir", "")
	v.SetDefault("debug_dir", ".")

	v.SetDefault("strategy", geocode.StrategyLocal)
	v.SetDefault("nominatim_url", geocode.DefaultNominatimURL)
	v.SetDefault("nominatim_user_agent", "sperrmuell-karte/1.0")

	v.SetDefault("geocode_min_interval_ms", 1000)
	v.SetDefault("geocode_base_delay_ms", 1000)
	v.SetDefault("geocode_max_delay_ms", 30000)
	v.SetDefault("geocode_max_retries", 5)
	v.SetDefault("geocode_max_elapsed_s", 120)

	v.SetDefault("stop_on_miss", false)
	v.SetDefault("max_span", 0)
	v.SetDefault("skip_past", false)

	v.SetDefault("map_center_lat", 50.73743)
	v.SetDefault("map_center_lon", 7.0982068)
	v.SetDefault("map_zoom", 11)
	v.SetDefault("map_snapshot", false)
	v.SetDefault("chrome_bin", "")

	v.SetDefault("log_level", "info")
}

// Load reads the .env file (envFile, or ./.env when empty) and returns a
// validated Config. Keys are looked up in the environment under their
// upper-case name; flags bound to v take precedence.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		path, err := homedir.Expand(envFile)
		if err != nil {
			return nil, fmt.Errorf("config: expand %s: %w", envFile, err)
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	SetDefaults(v)
	v.AutomaticEnv()

	delim, err := parseDelimiter(v.GetString("schedule_delimiter"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Year: v.GetInt("year"),

		ScheduleFile:      v.GetString("schedule_file"),
		ScheduleDelimiter: delim,
		ScheduleEncoding:  strings.ToLower(v.GetString("schedule_encoding")),
		ScheduleSheet:     v.GetString("schedule_sheet"),
		ScheduleStrip:     v.GetString("schedule_strip"),
		CategoryMarker:    v.GetString("category_marker"),

		ColCategory:  strings.ToUpper(v.GetString("col_category")),
		ColFirstDate: strings.ToUpper(v.GetString("col_first_date")),
		ColStreet:    strings.ToUpper(v.GetString("col_street")),
		ColCity:      strings.ToUpper(v.GetString("col_city")),
		ColPostcode:  strings.ToUpper(v.GetString("col_postcode")),
		ColEvenFrom:  strings.ToUpper(v.GetString("col_even_from")),
		ColEvenTo:    strings.ToUpper(v.GetString("col_even_to")),
		ColOddFrom:   strings.ToUpper(v.GetString("col_odd_from")),
		ColOddTo:     strings.ToUpper(v.GetString("col_odd_to")),

		OSMFile:      v.GetString("osm_file"),
		Municipality: v.GetString("municipality"),
		OutputDir:    v.GetString("output_dir"),
		DebugDir:     v.GetString("debug_dir"),

		Strategy:           strings.ToLower(v.GetString("strategy")),
		NominatimURL:       v.GetString("nominatim_url"),
		NominatimUserAgent: v.GetString("nominatim_user_agent"),

		GeocodeMinIntervalMs: v.GetInt("geocode_min_interval_ms"),
		GeocodeBaseDelayMs:   v.GetInt("geocode_base_delay_ms"),
		GeocodeMaxDelayMs:    v.GetInt("geocode_max_delay_ms"),
		GeocodeMaxRetries:    v.GetInt("geocode_max_retries"),
		GeocodeMaxElapsedS:   v.GetInt("geocode_max_elapsed_s"),

		StopOnMiss: v.GetBool("stop_on_miss"),
		MaxSpan:    v.GetInt("max_span"),
		SkipPast:   v.GetBool("skip_past"),

		MapCenterLat: v.GetFloat64("map_center_lat"),
		MapCenterLon: v.GetFloat64("map_center_lon"),
		MapZoom:      v.GetInt("map_zoom"),
		MapSnapshot:  v.GetBool("map_snapshot"),
		ChromeBin:    v.GetString("chrome_bin"),

		LogLevel: strings.ToLower(v.GetString("log_level")),
	}

	if cfg.ScheduleFile == "" {
		cfg.ScheduleFile = fmt.Sprintf("Abfallplaner%d.csv", cfg.Year)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = fmt.Sprintf("%d", cfg.Year)
	}
	for _, p := range []*string{&cfg.ScheduleFile, &cfg.OSMFile, &cfg.OutputDir, &cfg.DebugDir, &cfg.ChromeBin} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, fmt.Errorf("config: expand %s: %w", *p, err)
		}
		*p = expanded
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v fails %q", fe.Field(), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("config: invalid settings: %s", strings.Join(msgs, "; "))
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab", "\t":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("config: schedule delimiter must be a single character, got %q", s)
	}
	return r, nil
}

// Columns returns the configured column letters.
func (c *Config) Columns() schedule.Columns {
	return schedule.Columns{
		Category:  c.ColCategory,
		FirstDate: c.ColFirstDate,
		Street:    c.ColStreet,
		City:      c.ColCity,
		Postcode:  c.ColPostcode,
		EvenFrom:  c.ColEvenFrom,
		EvenTo:    c.ColEvenTo,
		OddFrom:   c.ColOddFrom,
		OddTo:     c.ColOddTo,
	}
}

// ScheduleOptions returns the read options of the schedule file.
func (c *Config) ScheduleOptions() schedule.Options {
	return schedule.Options{
		Delimiter: c.ScheduleDelimiter,
		Encoding:  c.ScheduleEncoding,
		Sheet:     c.ScheduleSheet,
		Strip:     c.ScheduleStrip,
	}
}

// GeocodePolicy returns the rate-limit and retry bounds of the external geocoder.
func (c *Config) GeocodePolicy() geocode.Policy {
	return geocode.Policy{
		MinInterval: time.Duration(c.GeocodeMinIntervalMs) * time.Millisecond,
		BaseDelay:   time.Duration(c.GeocodeBaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(c.GeocodeMaxDelayMs) * time.Millisecond,
		MaxRetries:  c.GeocodeMaxRetries,
		MaxElapsed:  time.Duration(c.GeocodeMaxElapsedS) * time.Second,
	}
}

// MapCenter is the initial map view position.
func (c *Config) MapCenter() models.Coordinate {
	return models.Coordinate{Lat: c.MapCenterLat, Lon: c.MapCenterLon}
}
