package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config is the application configuration, loaded once from a JSON file.
type Config struct {
	Data struct {
		DetePath      string `json:"dete_path"`       // DETE survey extract (csv or xlsx)
		TafePath      string `json:"tafe_path"`       // TAFE survey extract (csv or xlsx)
		SheetName     string `json:"sheet_name"`      // sheet to read when an input is a workbook
		NASentinel    string `json:"na_sentinel"`     // extra null marker for the DETE extract, e.g. "Not Stated"
		DropThreshold int    `json:"drop_threshold"`  // min non-null values a combined column needs to survive
		NamedColumns  bool   `json:"named_columns"`   // use the named keep-lists instead of positional drops
	} `json:"data"`

	Report struct {
		Path  string `json:"path"`  // output workbook path
		Title string `json:"title"` // chart title
	} `json:"report"`

	Watch struct {
		Enabled bool   `json:"enabled"`
		Dir     string `json:"dir"` // directory holding the survey extracts
	} `json:"watch"`

	Email struct {
		Enabled       bool     `json:"enabled"`
		Server        string   `json:"server"`         // IMAP server address with port
		Username      string   `json:"username"`       // mailbox account
		Password      string   `json:"password"`       // password / app token
		TargetSubject string   `json:"target_subject"` // subject keyword marking survey export mails
		CheckInterval Duration `json:"check_interval"` // mailbox polling interval
	} `json:"email"`

	SendEmail struct {
		Enabled   bool   `json:"enabled"`
		Server    string `json:"server"`    // SMTP server address
		Username  string `json:"username"`  // sender account
		Password  string `json:"password"`  // password / app token
		Recipient string `json:"recipient"` // where the finished report goes
		Subject   string `json:"subject"`
	} `json:"send_email"`

	Webhook struct {
		Enabled bool   `json:"enabled"`
		URL     string `json:"url"` // receives the pivot summary as JSON
	} `json:"webhook"`

	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"` // arithmetic string, e.g. "10 * 1024 * 1024"
}

var (
	once     sync.Once
	instance *Config
)

// LoadConfig reads the configuration exactly once for the process
// lifetime; later calls return the same instance.
func LoadConfig(jsonFolder, jsonFile string) (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = loadConfig(filepath.Join(jsonFolder, jsonFile))
	})
	if instance == nil && err == nil {
		err = fmt.Errorf("configuration was not loaded")
	}
	return instance, err
}

func loadConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.DropThreshold == 0 {
		c.Data.DropThreshold = 500
	}
	if c.Data.NASentinel == "" {
		c.Data.NASentinel = "Not Stated"
	}
	if c.Report.Path == "" {
		c.Report.Path = "exit_survey_report.xlsx"
	}
	if c.Report.Title == "" {
		c.Report.Title = "Percentage of Dissatisfied Resignations by Service Category"
	}
	if c.LogName == "" {
		c.LogName = "app.log"
	}
	if c.Email.CheckInterval == 0 {
		c.Email.CheckInterval = Duration(5 * time.Minute)
	}
}

// Duration wraps time.Duration so intervals can be written as strings like
// "5m" in the JSON config.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
