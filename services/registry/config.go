package registry

import (
	"errors"
	"olasagents-backend/lib/agentstore"
	"olasagents-backend/lib/configutil"
	configlibsql "olasagents-backend/lib/configutil/libsql"
	"olasagents-backend/lib/scrapers/ipfs"
	"olasagents-backend/lib/scrapers/olas"
	"olasagents-backend/lib/scrapers/olas/browser"
	"os"
	"time"
)

type BrowserConfig struct {
	Headful       bool   `json:"headful"`
	Bin           string `json:"bin"`
	WaitTimeoutMs int    `json:"wait_timeout_ms"`
	IdleMs        int    `json:"idle_ms"`
	// replay the saved pages in this directory instead of launching a browser
	FixtureDir string `json:"fixture_dir"`
}

type ScrapeConfig struct {
	TooltipTimeoutMs int `json:"tooltip_timeout_ms"`
	PollIntervalMs   int `json:"poll_interval_ms"`
	MaxPages         int `json:"max_pages"`
}

type IpfsConfig struct {
	GatewayUrl       string `json:"gateway_url"`
	TimeoutS         int    `json:"timeout_s"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
}

type Config struct {
	RegistryUrl string              `json:"registry_url"`
	StorePath   string              `json:"store_path"`
	Browser     BrowserConfig       `json:"browser"`
	Scrape      ScrapeConfig        `json:"scrape"`
	Ipfs        IpfsConfig          `json:"ipfs"`
	MetadataDB  configlibsql.Struct `json:"metadata_db"`
}

func DefaultConfig() Config {
	return Config{
		RegistryUrl: agentstore.DefaultRegistryBase,
		StorePath:   "<dev_state>/agent_status.json",
		Browser: BrowserConfig{
			WaitTimeoutMs: int(browser.DefaultWaitTimeout / time.Millisecond),
			IdleMs:        int(browser.DefaultIdleWindow / time.Millisecond),
		},
		Scrape: ScrapeConfig{
			TooltipTimeoutMs: int(olas.DefaultTooltipTimeout / time.Millisecond),
			PollIntervalMs:   int(olas.DefaultPollInterval / time.Millisecond),
		},
		Ipfs: IpfsConfig{
			GatewayUrl: agentstore.IpfsGatewayUrl,
			TimeoutS:   int(ipfs.DefaultTimeout / time.Second),
		},
		MetadataDB: configlibsql.Struct{
			File: "<dev_state>/metadata.db",
		},
	}
}

// WithDefaults fills every unset field of cfg from DefaultConfig.
func (cfg Config) WithDefaults() (Config, error) {
	return configutil.WithDefaults(cfg, DefaultConfig())
}

// ReadConfig reads registry.json5 (and registry.local.json5) from the
// nearest directory that has it, falling back to the defaults when neither
// exists.
func ReadConfig(name string) (Config, error) {
	cfg, err := configutil.ReadRecursively[Config](name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	return cfg.WithDefaults()
}

func (cfg Config) AgentsUrl() string {
	return agentstore.AgentsUrl(cfg.RegistryUrl)
}

func (cfg Config) BrowserOptions() browser.Options {
	return browser.Options{
		Url:         cfg.AgentsUrl(),
		Headful:     cfg.Browser.Headful,
		Bin:         cfg.Browser.Bin,
		WaitTimeout: millis(cfg.Browser.WaitTimeoutMs),
		IdleWindow:  millis(cfg.Browser.IdleMs),
	}
}

func (cfg Config) ScrapeOptions(progress olas.ProgressFunc) olas.Options {
	return olas.Options{
		RegistryBase:   cfg.RegistryUrl,
		TooltipTimeout: millis(cfg.Scrape.TooltipTimeoutMs),
		PollInterval:   millis(cfg.Scrape.PollIntervalMs),
		MaxPages:       cfg.Scrape.MaxPages,
		Progress:       progress,
	}
}

func (cfg Config) IpfsOptions() ipfs.ClientOptions {
	return ipfs.ClientOptions{
		GatewayUrl:       cfg.Ipfs.GatewayUrl,
		Timeout:          time.Duration(cfg.Ipfs.TimeoutS) * time.Second,
		CloudflareBypass: cfg.Ipfs.CloudflareBypass,
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// LoadConfig reads the config file at path, which must exist.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil {
		return Config{}, err
	}
	return cfg.WithDefaults()
}
