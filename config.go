package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/9seconds/ipattrib/admission"
	"github.com/9seconds/ipattrib/csvdb"
	"github.com/9seconds/ipattrib/providers"
	"github.com/9seconds/ipattrib/topolib"
	"github.com/BurntSushi/toml"
	"github.com/hjson/hjson-go"
)

const (
	DefaultListen       = "127.0.0.1:8000"
	DefaultCacheTTL     = 10 * time.Minute
	DefaultReadTimeout  = 30 * time.Second
	DefaultShutdownWait = 10 * time.Second
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	return d.UnmarshalText([]byte(vv))
}

func (d *duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen            string           `json:"listen" toml:"listen"`
	TrustProxyHeaders bool             `json:"trust_proxy_headers" toml:"trust_proxy_headers"`
	WorkerPoolSize    uint             `json:"worker_pool_size" toml:"worker_pool_size"`
	RootDirectory     string           `json:"root_directory" toml:"root_directory"`
	Attribution       string           `json:"attribution" toml:"attribution"`
	BasicAuth         configBasicAuth  `json:"basic_auth" toml:"basic_auth"`
	RateLimit         configRateLimit  `json:"rate_limit" toml:"rate_limit"`
	Precedence        configPrecedence `json:"precedence" toml:"precedence"`
	Datasets          []configDataset  `json:"datasets" toml:"datasets"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return DefaultListen
}

func (c config) GetRootDirectory() string {
	if c.RootDirectory != "" {
		return c.RootDirectory
	}

	return "."
}

func (c config) GetWorkerPoolSize() int {
	if c.WorkerPoolSize == 0 {
		return topolib.DefaultWorkerPoolSize
	}

	return int(c.WorkerPoolSize)
}

// GetAttribution returns a global notice followed by notices of
// available datasets. Duplicates are skipped.
func (c config) GetAttribution(infos []topolib.DatasetInfo) string {
	available := make(map[string]bool, len(infos))

	for _, v := range infos {
		available[v.Name] = v.Available
	}

	seen := map[string]struct{}{}
	parts := []string{}

	for _, v := range append([]string{c.Attribution}, c.datasetAttributions(available)...) {
		v = strings.TrimSpace(v)
		if _, ok := seen[v]; ok || v == "" {
			continue
		}

		seen[v] = struct{}{}
		parts = append(parts, v)
	}

	return strings.Join(parts, " ")
}

func (c config) datasetAttributions(available map[string]bool) []string {
	rv := make([]string, 0, len(c.Datasets))

	for _, v := range c.Datasets {
		if available[v.Name] {
			rv = append(rv, v.Attribution)
		}
	}

	return rv
}

func (c config) GetPrecedence() (topolib.PrecedenceConfig, error) {
	rv := topolib.PrecedenceConfig{
		Default: c.Precedence.Default,
		Fields:  make(map[topolib.Field][]string, len(c.Precedence.Fields)),
	}

	for k, v := range c.Precedence.Fields {
		field, err := topolib.ParseField(k)
		if err != nil {
			return rv, fmt.Errorf("incorrect precedence: %w", err)
		}

		rv.Fields[field] = v
	}

	return rv, nil
}

type configBasicAuth struct {
	User     string `json:"user" toml:"user"`
	Password string `json:"password" toml:"password"`
}

func (c configBasicAuth) Enabled() bool {
	return c.User != "" || c.Password != ""
}

type configRateLimit struct {
	Enabled     bool     `json:"enabled" toml:"enabled"`
	Window      duration `json:"window" toml:"window"`
	MaxRequests uint     `json:"max_requests" toml:"max_requests"`
	MaxClients  uint     `json:"max_clients" toml:"max_clients"`
	RedisURL    string   `json:"redis_url" toml:"redis_url"`
}

func (c configRateLimit) GetWindow() time.Duration {
	if c.Window.Duration == 0 {
		return admission.DefaultWindow
	}

	return c.Window.Duration
}

func (c configRateLimit) GetMaxRequests() int64 {
	if c.MaxRequests == 0 {
		return admission.DefaultMaxRequests
	}

	return int64(c.MaxRequests)
}

func (c configRateLimit) GetMaxClients() int {
	if c.MaxClients == 0 {
		return admission.DefaultMaxClients
	}

	return int(c.MaxClients)
}

type configPrecedence struct {
	Default []string            `json:"default" toml:"default"`
	Fields  map[string][]string `json:"fields" toml:"fields"`
}

type configDataset struct {
	Name        string   `json:"name" toml:"name"`
	Kind        string   `json:"kind" toml:"kind"`
	Path        string   `json:"path" toml:"path"`
	Family      string   `json:"family" toml:"family"`
	Delimiter   string   `json:"delimiter" toml:"delimiter"`
	Schema      []string `json:"schema" toml:"schema"`
	Bounds      string   `json:"bounds" toml:"bounds"`
	Sentinels   []string `json:"sentinels" toml:"sentinels"`
	Attribution string   `json:"attribution" toml:"attribution"`
	CacheSize   uint     `json:"cache_size" toml:"cache_size"`
	CacheTTL    duration `json:"cache_ttl" toml:"cache_ttl"`
}

// GetFamily returns a family of the dataset. 0 means that dataset
// decides it by itself.
func (c configDataset) GetFamily() topolib.Family {
	family, _ := topolib.ParseFamily(c.Family)

	return family
}

func (c configDataset) GetDelimiter() rune {
	switch c.Delimiter {
	case "":
		return ','
	case "tab", `\t`:
		return '\t'
	}

	return []rune(c.Delimiter)[0]
}

func (c configDataset) GetSchema() (csvdb.Schema, error) {
	return csvdb.ParseSchema(c.Schema, c.Bounds, c.Sentinels)
}

func (c configDataset) GetCacheTTL() time.Duration {
	if c.CacheTTL.Duration == 0 {
		return DefaultCacheTTL
	}

	return c.CacheTTL.Duration
}

func (c configDataset) validate() error {
	if c.Name == "" {
		return fmt.Errorf("dataset name is empty")
	}

	if !providers.IsKnownKind(c.Kind) {
		return fmt.Errorf("dataset %s: %w: %s", c.Name, providers.ErrUnknownKind, c.Kind)
	}

	if c.Path == "" {
		return fmt.Errorf("dataset %s: path is empty", c.Name)
	}

	if c.Family != "" {
		if _, ok := topolib.ParseFamily(c.Family); !ok {
			return fmt.Errorf("dataset %s: unknown family %s", c.Name, c.Family)
		}
	}

	if len([]rune(c.Delimiter)) > 1 && c.Delimiter != "tab" && c.Delimiter != `\t` {
		return fmt.Errorf("dataset %s: delimiter has to be a single character", c.Name)
	}

	if c.Kind != providers.KindCSV {
		return nil
	}

	if c.Family == "" {
		return fmt.Errorf("dataset %s: family is required for csv", c.Name)
	}

	if _, err := c.GetSchema(); err != nil {
		return fmt.Errorf("dataset %s: incorrect schema: %w", c.Name, err)
	}

	return nil
}

func parseConfig(path string) (*config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	conf := &config{}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(content, conf)
	} else {
		err = decodeHJSON(content, conf)
	}

	if err != nil {
		return nil, err
	}

	if err := validateConfig(conf); err != nil {
		return nil, err
	}

	return conf, nil
}

func decodeTOML(content []byte, conf *config) error {
	meta, err := toml.Decode(string(content), conf)
	if err != nil {
		return fmt.Errorf("cannot parse toml: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %s", undecoded[0])
	}

	return nil
}

func decodeHJSON(content []byte, conf *config) error {
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return fmt.Errorf("cannot parse json: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	if err := json.Unmarshal(rawBytes, conf); err != nil {
		return fmt.Errorf("incorrect config structure: %w", err)
	}

	return nil
}

func validateConfig(conf *config) error {
	if _, _, err := net.SplitHostPort(conf.GetListen()); err != nil {
		return fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	rootDirectory, err := filepath.Abs(conf.GetRootDirectory())
	if err != nil {
		return fmt.Errorf("incorrect root directory: %w", err)
	}

	conf.RootDirectory = rootDirectory

	seenNames := map[string]struct{}{}

	for i := range conf.Datasets {
		v := &conf.Datasets[i]

		if err := v.validate(); err != nil {
			return err
		}

		if _, ok := seenNames[v.Name]; ok {
			return fmt.Errorf("dataset name %s is duplicated", v.Name)
		}

		seenNames[v.Name] = struct{}{}

		if !filepath.IsAbs(v.Path) {
			v.Path = filepath.Join(conf.RootDirectory, v.Path)
		}
	}

	for _, v := range conf.Precedence.Default {
		if _, ok := seenNames[v]; !ok {
			return fmt.Errorf("unknown dataset %s in default precedence", v)
		}
	}

	for field, names := range conf.Precedence.Fields {
		for _, v := range names {
			if _, ok := seenNames[v]; !ok {
				return fmt.Errorf("unknown dataset %s in precedence of %s", v, field)
			}
		}
	}

	if _, err := conf.GetPrecedence(); err != nil {
		return err
	}

	if conf.BasicAuth.Enabled() && (conf.BasicAuth.User == "" || conf.BasicAuth.Password == "") {
		return fmt.Errorf("basic auth requires both user and password")
	}

	if conf.RateLimit.Window.Duration < 0 {
		return fmt.Errorf("rate limit window has to be positive")
	}

	return nil
}
