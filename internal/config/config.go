package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Ministry data sources.
const (
	MinistrySourceAPI  = "api"
	MinistrySourceSite = "site"
)

const defaultNDMAURL = "https://utility.arcgis.com/usrsvcs/servers/83b36886c90942ab9f67e7a212e515c8/rest/services/Corona/DailyCasesMoHUA/MapServer/0/query" +
	"?f=json&where=1%3D1&returnGeometry=false&outFields=*&orderByFields=confirmedcases%20desc&resultRecordCount=50"

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// RegionsFile overrides the built-in region table when set.
	RegionsFile string

	// Provider endpoints.
	AggregatorBaseURL string
	MinistryAPIURL    string
	MinistrySiteURL   string
	NDMAAPIURL        string

	// MinistryDefaultSource is "api" or "site".
	MinistryDefaultSource string

	FetchTimeout   time.Duration
	FetchCacheSize int
	FetchCacheTTL  time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "10s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_CACHE_TTL", "60s"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid FETCH_CACHE_TTL")
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "chat-commands"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "chat-replies"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "covid19-tracker-bot"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		RegionsFile: os.Getenv("REGIONS_FILE"),

		AggregatorBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("AGGREGATOR_BASE_URL", "https://api.covid19india.org"), "/"),
		MinistryAPIURL:    sharedcfg.EnvOrDefault("MOHFW_API_URL", "https://www.mohfw.gov.in/data/datanew.json"),
		MinistrySiteURL:   sharedcfg.EnvOrDefault("MOHFW_SITE_URL", "https://www.mohfw.gov.in"),
		NDMAAPIURL:        sharedcfg.EnvOrDefault("NDMA_API_URL", defaultNDMAURL),

		MinistryDefaultSource: strings.ToLower(sharedcfg.EnvOrDefault("MOHFW_DEFAULT_SOURCE", MinistrySourceAPI)),

		FetchTimeout:   fetchTimeout,
		FetchCacheSize: parseFetchCacheSize(),
		FetchCacheTTL:  cacheTTL,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.MinistryDefaultSource != MinistrySourceAPI && cfg.MinistryDefaultSource != MinistrySourceSite {
		return nil, errors.New("MOHFW_DEFAULT_SOURCE must be api or site")
	}
	for name, raw := range map[string]string{
		"AGGREGATOR_BASE_URL": cfg.AggregatorBaseURL,
		"MOHFW_API_URL":       cfg.MinistryAPIURL,
		"MOHFW_SITE_URL":      cfg.MinistrySiteURL,
		"NDMA_API_URL":        cfg.NDMAAPIURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, errors.New("invalid " + name)
		}
	}

	return cfg, nil
}

func parseFetchCacheSize() int {
	if s := os.Getenv("FETCH_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 32
}
