package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	HTTP    HTTPConfig    `yaml:"http"`
	Gateway GatewayConfig `yaml:"gateway"`
	Chat    ChatConfig    `yaml:"chat"`
	Storage StorageConfig `yaml:"storage"`
	Events  EventsConfig  `yaml:"events"`
	Gemini  GeminiConfig  `yaml:"gemini"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// SecureCookies 는 HTTPS 뒤에서 실행될 때 세션 쿠키에 Secure 속성을 붙인다.
	SecureCookies bool `yaml:"secure_cookies"`
}

// GatewayConfig 는 외부 추천/챗봇 API 호출 설정이다.
type GatewayConfig struct {
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds 는 호출 한 건에 대한 클라이언트 측 타임아웃이다.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// RequestsPerSecond 는 외부 호스트로 나가는 호출의 초당 상한이다. 0 이하면 제한 없음.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type ChatConfig struct {
	TypingDelayMillis   int `yaml:"typing_delay_ms"`
	ReplyTimeoutSeconds int `yaml:"reply_timeout_seconds"`
}

// StorageConfig 는 추천 결과 스냅샷 저장소 설정이다.
// Backend: memory | mongo | redis
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	TTLMinutes int    `yaml:"ttl_minutes"`
	MongoURI   string `yaml:"mongo_uri"`
	MongoDB    string `yaml:"mongo_db"`
	RedisAddr  string `yaml:"redis_addr"`
}

type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
	// GroupID 는 insights 워커의 컨슈머 그룹이다.
	GroupID string `yaml:"group_id"`
}

type GeminiConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
}

var (
	mu     sync.Mutex
	config *AppConfig
)

// InitApp 은 .env 와 config.yaml 을 읽어 전역 설정을 초기화한다.
// config.yaml 이 없으면 기본값만으로 동작한다.
func InitApp() {
	mu.Lock()
	defer mu.Unlock()

	base := GetBasePath()
	_ = godotenv.Load(filepath.Join(base, ENV_FILE))

	c := Defaults()
	if data, err := os.ReadFile(filepath.Join(base, CONFIG_FILE)); err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			panic(err)
		}
	}
	applyEnv(&c)
	c.normalize()
	config = &c
}

// Set 은 테스트 등에서 전역 설정을 직접 주입할 때 사용한다.
func Set(c AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	c.normalize()
	config = &c
}

func GetConfig() AppConfig {
	mu.Lock()
	loaded := config != nil
	mu.Unlock()
	if !loaded {
		InitApp()
	}

	mu.Lock()
	defer mu.Unlock()
	return *config
}

// Defaults 는 config.yaml 이 비어 있을 때 사용되는 값이다.
func Defaults() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{Level: "info"},
		HTTP:    HTTPConfig{Addr: ":8080", AllowedOrigins: []string{"http://localhost:3000"}},
		Gateway: GatewayConfig{
			BaseURL:           "https://gargash-auto.onrender.com",
			TimeoutSeconds:    12,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Chat:    ChatConfig{TypingDelayMillis: 800, ReplyTimeoutSeconds: 10},
		Storage: StorageConfig{Backend: "memory", TTLMinutes: 60, MongoDB: "caradvisor"},
		Events:  EventsConfig{Topic: "car-advisor.events", GroupID: "car-advisor-insights"},
		Gemini:  GeminiConfig{Model: "gemini-2.0-flash"},
	}
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("ADVISOR_API_BASE_URL"); v != "" {
		c.Gateway.BaseURL = v
	}
	if v := envInt("ADVISOR_API_TIMEOUT_SECONDS"); v > 0 {
		c.Gateway.TimeoutSeconds = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Storage.MongoURI = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Events.Brokers = v
		c.Events.Enabled = true
	}
	c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
}

func (c *AppConfig) normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Gateway.TimeoutSeconds <= 0 {
		c.Gateway.TimeoutSeconds = 12
	}
	if c.Chat.ReplyTimeoutSeconds <= 0 {
		c.Chat.ReplyTimeoutSeconds = 10
	}
	if c.Chat.TypingDelayMillis < 0 {
		c.Chat.TypingDelayMillis = 0
	}
	if c.Storage.TTLMinutes <= 0 {
		c.Storage.TTLMinutes = 60
	}
	if c.Events.GroupID == "" {
		c.Events.GroupID = "car-advisor-insights"
	}
}

func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func (c ChatConfig) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMillis) * time.Millisecond
}

func (c ChatConfig) ReplyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutSeconds) * time.Second
}

func (s StorageConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

func envInt(key string) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// GetBasePath 는 cwd 에서 상위로 올라가며 config.yaml 이 있는 디렉터리를 찾는다.
// 찾지 못하면 cwd 를 반환한다.
func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}
