package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"github.com/Astemirdum/library-lending/pkg/mongodb"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"15s"`
	WriteTimeout time.Duration
}

type SMTP struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASSWORD" json:"-"`
	From     string `envconfig:"MAIL_FROM" default:"library@localhost"`
}

func (s SMTP) Enabled() bool {
	return s.Host != ""
}

type LLM struct {
	BaseURL string        `envconfig:"LLM_BASE_URL"`
	APIKey  string        `envconfig:"LLM_API_KEY" json:"-"`
	Model   string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
}

func (l LLM) Enabled() bool {
	return l.BaseURL != ""
}

type Lending struct {
	ReservationLoanDays   int             `envconfig:"RESERVATION_LOAN_DAYS" default:"2"`
	ReservationFinePerDay decimal.Decimal `envconfig:"RESERVATION_FINE_PER_DAY" default:"100"`
	ReminderInterval      time.Duration   `envconfig:"REMINDER_INTERVAL" default:"1h"`
	DueSoonWindow         time.Duration   `envconfig:"DUE_SOON_WINDOW" default:"48h"`
}

type Config struct {
	Server   HTTPServer `yaml:"server"`
	Store    string     `envconfig:"STORE" default:"postgres"`
	Database postgres.DB
	Mongo    mongodb.Config
	Kafka    kafka.Config
	SMTP     SMTP
	LLM      LLM
	Auth     auth.Config
	Lending  Lending
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
