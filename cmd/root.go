package cmd

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/tech-interviewer/internal/ai"
	"github.com/spigell/tech-interviewer/internal/interview"
	"github.com/spigell/tech-interviewer/internal/report"
)

const (
	app = "tech-interviewer"

	defaultTemperature = 0.7
)

type Config struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	ReportsDir  string  `mapstructure:"reports-dir"`
	SaveSession bool    `mapstructure:"save-session"`
	TraceFile   string  `mapstructure:"trace-file"`
	MetricsFile string  `mapstructure:"metrics-file"`
	LogFile     string  `mapstructure:"log-file"`

	Candidate *CandidateConfig `mapstructure:"candidate"`
	Interview *InterviewConfig `mapstructure:"interview"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type CandidateConfig struct {
	Role  string          `mapstructure:"role"`
	Tech  []string        `mapstructure:"tech"`
	Level interview.Level `mapstructure:"level"`
}

type InterviewConfig struct {
	MaxQuestions        int  `mapstructure:"max-questions"`
	MinQuestions        int  `mapstructure:"min-questions"`
	MaxConsecutiveWrong int  `mapstructure:"max-consecutive-wrong"`
	MaxFollowups        int  `mapstructure:"max-followups"`
	Followups           bool `mapstructure:"followups"`
	CandidateQuestions  bool `mapstructure:"candidate-questions"`
}

type AIConfig struct {
	MaxLogLength int             `mapstructure:"max-log-length"`
	Gemini       *ProviderConfig `mapstructure:"gemini"`
	OpenAI       *ProviderConfig `mapstructure:"openai"`
	Anthropic    *ProviderConfig `mapstructure:"anthropic"`
}

type ProviderConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "tech-interviewer runs an AI-driven technical interview in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

var envBindings = map[string]string{
	"provider":                  "MODEL_PROVIDER",
	"model":                     "MODEL_NAME",
	"reports-dir":               "REPORTS_DIR",
	"ai.gemini.api-key":         "GEMINI_API_KEY",
	"ai.gemini.api-key-file":    "GEMINI_API_KEY_FILE",
	"ai.openai.api-key":         "OPENAI_API_KEY",
	"ai.openai.api-key-file":    "OPENAI_API_KEY_FILE",
	"ai.openai.base-url":        "OPENAI_BASE_URL",
	"ai.anthropic.api-key":      "ANTHROPIC_API_KEY",
	"ai.anthropic.api-key-file": "ANTHROPIC_API_KEY_FILE",
	"ai.anthropic.base-url":     "ANTHROPIC_BASE_URL",
}

func init() {
	if err := bindEnv(); err != nil {
		log.Fatal(err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is tech-interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("reports-dir", report.DefaultDir, "directory for interview reports")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("reports-dir", rootCmd.PersistentFlags().Lookup("reports-dir"))
}

func bindEnv() error {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}
	return nil
}

func setDefaults() {
	defaults := interview.DefaultConfig()

	viper.SetDefault("provider", ai.ProviderOpenAI)
	viper.SetDefault("temperature", defaultTemperature)
	viper.SetDefault("reports-dir", report.DefaultDir)
	viper.SetDefault("interview.max-questions", defaults.MaxQuestions)
	viper.SetDefault("interview.min-questions", defaults.MinQuestions)
	viper.SetDefault("interview.max-consecutive-wrong", defaults.MaxConsecutiveWrong)
	viper.SetDefault("interview.max-followups", defaults.MaxFollowupsPerQuestion)
	viper.SetDefault("interview.followups", defaults.Followups)
	viper.SetDefault("interview.candidate-questions", defaults.CandidateQuestions)
	viper.SetDefault("ai.max-log-length", ai.DefaultMaxLogLength)
}

func initConfig() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The default config file is optional, an explicit one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		levelHook(),
		commaListHook(),
	)))
	if err != nil {
		return config, err
	}

	if config.Candidate == nil {
		config.Candidate = &CandidateConfig{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}

// EngineConfig maps the interview section onto the engine limits.
func (c *InterviewConfig) EngineConfig() interview.Config {
	return interview.Config{
		MaxQuestions:            c.MaxQuestions,
		MinQuestions:            c.MinQuestions,
		MaxConsecutiveWrong:     c.MaxConsecutiveWrong,
		MaxFollowupsPerQuestion: c.MaxFollowups,
		Followups:               c.Followups,
		CandidateQuestions:      c.CandidateQuestions,
	}
}

// levelHook maps any string onto a valid level; unknown values become intermediate.
func levelHook() mapstructure.DecodeHookFuncType {
	levelType := reflect.TypeOf(interview.Level(""))

	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != levelType || from.Kind() != reflect.String {
			return data, nil
		}
		raw, _ := data.(string)
		if strings.TrimSpace(raw) == "" {
			return interview.Level(""), nil
		}
		return interview.NormalizeLevel(raw), nil
	}
}

// commaListHook splits "Go, gRPC" into a trimmed list, dropping blanks.
func commaListHook() mapstructure.DecodeHookFuncType {
	listType := reflect.TypeOf([]string{})

	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != listType || from.Kind() != reflect.String {
			return data, nil
		}
		raw, _ := data.(string)
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	}
}
