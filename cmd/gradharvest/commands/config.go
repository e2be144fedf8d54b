package commands

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"gradharvest/lib/configutil"
	configlibsql "gradharvest/lib/configutil/libsql"
	"gradharvest/lib/util/serviceutil"
	"gradharvest/services/analytics/db"
	"gradharvest/services/harvest"
)

const (
	defaultQuery     = "computer science"
	defaultPages     = 2
	defaultStartPage = 1
	defaultDelayMs   = 800
	defaultLog       = "applicant_data.jsonl"
	defaultOut       = "applicant_data.json"
	defaultRefined   = "applicant_data.cleaned.json"
	defaultDb        = "gradcafe.db"
	defaultTerm      = "Fall 2025"
	defaultPort      = 8080
)

// Config is the optional config.json5 counterpart of the command flags.
// Explicitly passed flags always win over it.
type Config struct {
	Query     string `json:"query"`
	Pages     int    `json:"pages"`
	StartPage int    `json:"start_page"`
	DelayMs   int    `json:"delay_ms"`
	JitterMs  int    `json:"jitter_ms"`

	Log     string `json:"log"`
	Out     string `json:"out"`
	Refined string `json:"refined"`
	Aux     string `json:"aux"`

	Database configlibsql.Struct `json:"database"`

	Term string `json:"term"`
	Year string `json:"year"`
	Port int    `json:"port"`

	// css selectors overriding the built-in card block chain
	CardSelectors []string `json:"card_selectors"`

	Smtp *harvest.SmtpConfig `json:"smtp"`
}

func (c Config) withDefaults() Config {
	if c.Query == "" {
		c.Query = defaultQuery
	}
	if c.Pages == 0 {
		c.Pages = defaultPages
	}
	if c.StartPage == 0 {
		c.StartPage = defaultStartPage
	}
	if c.DelayMs == 0 {
		c.DelayMs = defaultDelayMs
	}
	if c.Log == "" {
		c.Log = defaultLog
	}
	if c.Out == "" {
		c.Out = defaultOut
	}
	if c.Refined == "" {
		c.Refined = defaultRefined
	}
	if c.Database.File == "" && c.Database.Url == "" {
		c.Database.File = defaultDb
	}
	if c.Term == "" {
		c.Term = defaultTerm
	}
	if c.Year == "" {
		c.Year = termYear(c.Term)
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	return c
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfigOrZero[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg.withDefaults()
}

// termYear pulls the 4-digit year out of a term label like "Fall 2025".
func termYear(term string) string {
	fields := strings.Fields(term)
	if len(fields) == 0 {
		return ""
	}
	year := fields[len(fields)-1]
	if len(year) != 4 {
		return ""
	}
	for _, c := range year {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return year
}

// pick resolves a setting: an explicitly passed flag wins, then the config
// file (already defaulted), then the flag default.
func pick(cmd *cobra.Command, flag string, flagValue, configValue string) string {
	if cmd.Flags().Changed(flag) || configValue == "" {
		return flagValue
	}
	return configValue
}

func pickInt(cmd *cobra.Command, flag string, flagValue, configValue int) int {
	if cmd.Flags().Changed(flag) || configValue == 0 {
		return flagValue
	}
	return configValue
}

// openDatabase connects to the analytics database. The database block in the
// config file may point at a remote libsql url, but an explicitly passed --db
// flag always targets a local file.
func openDatabase(cmd *cobra.Command, cfg Config, flagValue string) (*sqlx.DB, error) {
	conn := cfg.Database
	if cmd.Flags().Changed("db") {
		conn = configlibsql.Struct{File: flagValue}
	}
	return conn.OpenDB(db.Schema)
}
