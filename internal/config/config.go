package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/download"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"COVID-19 Warszawa"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Timezone string `envconfig:"TIMEZONE" default:"Europe/Warsaw"`
	}

	Data struct {
		Dir    string `envconfig:"DATA_DIR" default:"data"`
		Output string `envconfig:"REPORT_OUTPUT" default:"data/index.html"`
	}

	Report struct {
		Since    Date   `envconfig:"REPORT_SINCE" default:"2022-07-18"`
		Window   int    `envconfig:"REPORT_WINDOW" default:"14"`
		District string `envconfig:"REPORT_DISTRICT" default:"Warszawa"`
	}

	Sources struct {
		BulletinBaseURL    string        `envconfig:"PSSE_BASE_URL" default:"https://pssewawa.pl/download/"`
		MinistryBaseURL    string        `envconfig:"MZ_BASE_URL" default:"https://gov.pl"`
		MinistryArchiveURL string        `envconfig:"MZ_ARCHIVE_URL" default:"https://gov.pl/web/koronawirus/pliki-archiwalne-powiaty"`
		MinistryMainURL    string        `envconfig:"MZ_MAIN_URL" default:"https://gov.pl/web/koronawirus/mapa-zarazen-koronawirusem-sars-cov-2-powiaty"`
		ArcGISArchiveURL   string        `envconfig:"ARCGIS_ARCHIVE_URL" default:"https://www.arcgis.com/sharing/rest/content/items/e16df1fa98c2452783ec10b0aea4b341/data"`
		ArcGISCurrentURL   string        `envconfig:"ARCGIS_CURRENT_URL" default:"https://www.arcgis.com/sharing/rest/content/items/6ff45d6b5b224632a672e764e04e8394/data"`
		Timeout            time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}
}

// Date is a calendar day given as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) Decode(value string) error {
	t, err := time.Parse(covid.DayLayout, value)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}

	d.Time = t

	return nil
}

func (d Date) String() string {
	return d.Format(covid.DayLayout)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Report.Window < 1 {
		return fmt.Errorf("report window must be at least 1 day")
	}

	if c.Report.District == "" {
		return fmt.Errorf("report district is required")
	}

	if c.Report.Since.Before(covid.FirstBulletin) {
		return fmt.Errorf("report since must not be before %s", covid.FirstBulletin.Format(covid.DayLayout))
	}

	if c.Data.Dir == "" || c.Data.Output == "" {
		return fmt.Errorf("data directory and report output are required")
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.App.Timezone, err)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// Location is the time zone that decides which day is today.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Today is the current calendar day in the configured time zone.
func (c *Config) Today() time.Time {
	return covid.Truncate(time.Now().In(c.Location()))
}

// Since is the first day of the report in the configured time zone.
func (c *Config) Since() time.Time {
	return covid.Date(c.Report.Since.Year(), c.Report.Since.Month(), c.Report.Since.Day(), c.Location())
}

func (c *Config) DownloadSources() download.Sources {
	return download.Sources{
		BulletinBaseURL:    c.Sources.BulletinBaseURL,
		MinistryBaseURL:    c.Sources.MinistryBaseURL,
		MinistryArchiveURL: c.Sources.MinistryArchiveURL,
		MinistryMainURL:    c.Sources.MinistryMainURL,
		ArcGISArchiveURL:   c.Sources.ArcGISArchiveURL,
		ArcGISCurrentURL:   c.Sources.ArcGISCurrentURL,
	}
}
