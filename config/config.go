package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Agent     AgentConfig     `yaml:"agent"`
	Records   RecordsConfig   `yaml:"records"`
	Content   ContentConfig   `yaml:"content"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Worker    WorkerConfig    `yaml:"lead_worker"`

	// Secrets 는 config.yaml 에 두지 않고 환경변수(.env 포함)에서만 읽는다.
	Secrets Secrets `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	// ShutdownTimeout 은 SIGTERM 수신 후 진행 중인 스트림을 기다리는 최대 시간이다.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LLMConfig selects the hosted model used by the assistant and the photo analysis.
type LLMConfig struct {
	Provider      string  `yaml:"provider"` // google | openai
	ChatModel     string  `yaml:"chat_model"`
	AnalysisModel string  `yaml:"analysis_model"`
	Temperature   float32 `yaml:"temperature"`
}

type AgentConfig struct {
	MaxToolRounds       int           `yaml:"max_tool_rounds"`
	MaxToolCallsPerStep int           `yaml:"max_tool_calls_per_step"`
	TurnTimeout         time.Duration `yaml:"turn_timeout"`
	ToolTimeout         time.Duration `yaml:"tool_timeout"`
}

// RecordsConfig 는 예약/콜백 기록을 남길 저장소를 고른다.
//   - mongo: MongoDB (기본값)
//   - postgres: PostgreSQL
//   - none: API 에서 직접 기록하지 않음 (로컬 개발용, 또는 leadworker 가 이벤트를 받아 기록)
type RecordsConfig struct {
	Backend      string        `yaml:"backend"`
	MongoDBName  string        `yaml:"mongo_db_name"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	EventTopic   string        `yaml:"event_topic"`
}

// WorkerConfig 는 cmd/leadworker 가 리드 이벤트를 기록할 저장소다 (mongo | postgres).
type WorkerConfig struct {
	Backend string `yaml:"backend"`
}

type ContentConfig struct {
	VideoFeedURL string `yaml:"video_feed_url"`
	ChannelURL   string `yaml:"channel_url"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// Secrets holds values that only ever come from the environment.
type Secrets struct {
	GeminiAPIKey          string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey          string `envconfig:"OPENAI_API_KEY"`
	MongoURI              string `envconfig:"MONGO_URI"`
	PostgresDSN           string `envconfig:"POSTGRES_DSN"`
	SheetsWebhookURL      string `envconfig:"SHEETS_WEBHOOK_URL"`
	KafkaBootstrapServers string `envconfig:"KAFKA_BOOTSTRAP_SERVERS"`
	KafkaGroupID          string `envconfig:"KAFKA_GROUP_ID" default:"vernon-leadworker"`
	Port                  string `envconfig:"PORT" default:"8080"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c := Default()

	// config.yaml 이 없으면 기본값으로 동작한다.
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			panic(err)
		}
	} else if !os.IsNotExist(err) {
		panic(err)
	}

	if err := envconfig.Process("", &c.Secrets); err != nil {
		panic(err)
	}
	c.applyDefaults()
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// Default returns the configuration used when config.yaml omits a section.
func Default() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{Level: "info"},
		Server: ServerConfig{
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 15 * time.Second,
		},
		LLM: LLMConfig{
			Provider:      "google",
			ChatModel:     "gemini-2.5-flash",
			AnalysisModel: "gemini-2.5-flash",
			Temperature:   0.4,
		},
		Agent: AgentConfig{
			MaxToolRounds:       3,
			MaxToolCallsPerStep: 2,
			TurnTimeout:         45 * time.Second,
			ToolTimeout:         10 * time.Second,
		},
		Records: RecordsConfig{
			Backend:      "mongo",
			MongoDBName:  "vernon",
			WriteTimeout: 10 * time.Second,
			EventTopic:   "clinic_leads",
		},
		Content: ContentConfig{
			ChannelURL: "https://www.youtube.com/@vernonskinclinic",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			Burst:             10,
		},
		Worker: WorkerConfig{Backend: "mongo"},
	}
}

func (c *AppConfig) applyDefaults() {
	d := Default()
	if c.Agent.MaxToolRounds <= 0 {
		c.Agent.MaxToolRounds = d.Agent.MaxToolRounds
	}
	if c.Agent.MaxToolCallsPerStep <= 0 {
		c.Agent.MaxToolCallsPerStep = d.Agent.MaxToolCallsPerStep
	}
	if c.Agent.TurnTimeout <= 0 {
		c.Agent.TurnTimeout = d.Agent.TurnTimeout
	}
	if c.Agent.ToolTimeout <= 0 {
		c.Agent.ToolTimeout = d.Agent.ToolTimeout
	}
	if c.Records.WriteTimeout <= 0 {
		c.Records.WriteTimeout = d.Records.WriteTimeout
	}
	if c.Worker.Backend == "" {
		c.Worker.Backend = d.Worker.Backend
	}
	if c.LLM.AnalysisModel == "" {
		c.LLM.AnalysisModel = c.LLM.ChatModel
	}
}

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

	return ""
}
