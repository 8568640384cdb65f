package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/spigell/tech-interviewer/internal/ai"
	"github.com/spigell/tech-interviewer/internal/ai/anthropic"
	"github.com/spigell/tech-interviewer/internal/ai/fake"
	"github.com/spigell/tech-interviewer/internal/ai/gemini"
	"github.com/spigell/tech-interviewer/internal/ai/openai"
	"github.com/spigell/tech-interviewer/internal/interaction"
	"github.com/spigell/tech-interviewer/internal/interview"
	"github.com/spigell/tech-interviewer/internal/logger"
	"github.com/spigell/tech-interviewer/internal/metrics"
	"github.com/spigell/tech-interviewer/internal/report"
	"github.com/spigell/tech-interviewer/internal/secrets"
)

const (
	tracerName = "tech-interviewer"
	banner     = "================================================================================"
	goodbye    = "\n\n⚠️  Interview interrupted by user.\nGoodbye! 👋\n"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Conduct a technical interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("role", "", "target role (asked interactively when no candidate flag is set)")
	runCmd.Flags().String("tech", "", "comma-separated technologies under test")
	runCmd.Flags().String("level", "", "candidate level: beginner, intermediate or advanced")
	runCmd.Flags().StringP("provider", "p", "", "text generation provider: "+strings.Join(ai.Providers(), ", "))
	runCmd.Flags().StringP("model", "m", "", "model name (provider default when empty)")
	runCmd.Flags().Int("max-questions", interview.DefaultMaxQuestions, "question budget")
	runCmd.Flags().Bool("followups", false, "ask follow-up questions after each answer")
	runCmd.Flags().Bool("save-session", false, "also export the full session as YAML next to the report")
	runCmd.Flags().String("trace-file", "", "write OpenTelemetry spans to this file")
	runCmd.Flags().String("metrics-file", "", "write OpenTelemetry interview metrics to this file")

	viper.BindPFlag("candidate.role", runCmd.Flags().Lookup("role"))
	viper.BindPFlag("candidate.tech", runCmd.Flags().Lookup("tech"))
	viper.BindPFlag("candidate.level", runCmd.Flags().Lookup("level"))
	viper.BindPFlag("provider", runCmd.Flags().Lookup("provider"))
	viper.BindPFlag("model", runCmd.Flags().Lookup("model"))
	viper.BindPFlag("interview.max-questions", runCmd.Flags().Lookup("max-questions"))
	viper.BindPFlag("interview.followups", runCmd.Flags().Lookup("followups"))
	viper.BindPFlag("save-session", runCmd.Flags().Lookup("save-session"))
	viper.BindPFlag("trace-file", runCmd.Flags().Lookup("trace-file"))
	viper.BindPFlag("metrics-file", runCmd.Flags().Lookup("metrics-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-file"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the tech-interviewer", zap.String("version", version))

	engineConfig := config.Interview.EngineConfig()
	if err := engineConfig.Validate(); err != nil {
		logger.Fatal("invalid interview settings", zap.Error(err))
	}

	shutdown, err := initTracer(config.TraceFile)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flushing traces", zap.Error(err))
		}
	}()

	meterProvider, shutdownMeter, err := initMeter(config.MetricsFile)
	if err != nil {
		logger.Fatal("initializing metrics", zap.Error(err))
	}
	defer func() {
		if err := shutdownMeter(context.Background()); err != nil {
			logger.Warn("flushing metrics", zap.Error(err))
		}
	}()

	generator, err := newGenerator(ctx, config)
	if err != nil {
		logger.Fatal(
			"building the text generator",
			zap.Error(err),
			zap.String("hint", "set MODEL_PROVIDER and one of OPENAI_API_KEY, GEMINI_API_KEY or ANTHROPIC_API_KEY (a .env file works too)"),
		)
	}

	generator = ai.Chain(generator,
		ai.WithTracing(otel.Tracer(tracerName)),
		ai.WithLogging(logger, config.AI.MaxLogLength),
	)

	logger.Info("text generator ready",
		zap.String("provider", generator.Provider()),
		zap.String("model", generator.Model()),
	)

	console := interaction.NewTerminal(os.Stdin, cmd.OutOrStdout())
	logger.Debug("console ready", zap.Bool("interactive", console.Interactive()))
	interruptOnSignal(console, logger)

	profile, err := resolveProfile(ctx, cmd, config, console)
	if err != nil {
		exitOnInterrupt(console, logger, err)
		logger.Fatal("reading the interview profile", zap.Error(err))
	}

	interviewMetrics, err := metrics.NewInterviewMetrics(meterProvider.Meter(tracerName))
	if err != nil {
		logger.Fatal("creating interview metrics", zap.Error(err))
	}

	builder := report.New(generator, report.Options{
		Dir:         config.ReportsDir,
		SaveSession: config.SaveSession,
		Logger:      logger,
		Out:         cmd.OutOrStdout(),
	})

	engine, err := interview.New(engineConfig, interview.Deps{
		Generator: generator,
		Console:   console,
		Reporter:  announce(console, builder),
		Logger:    logger,
		Metrics:   interviewMetrics,
		Tracer:    otel.Tracer(tracerName),
	})
	if err != nil {
		logger.Fatal("building the interview engine", zap.Error(err))
	}

	printBanner(console, "🎯 TECH INTERVIEWER - Technical Interview System",
		fmt.Sprintf("Role: %s", profile.Role),
		fmt.Sprintf("Languages/Technologies: %s", strings.Join(profile.TechStack, ", ")),
		fmt.Sprintf("Level: %s", profile.Level),
	)

	session, text, err := engine.Run(ctx, profile.Role, profile.TechStack, profile.Level)
	if err != nil {
		exitOnInterrupt(console, logger, err)
		logger.Fatal("interview failed", zap.Error(err))
	}

	printBanner(console, "INTERVIEW REPORT")
	console.Printf("%s\n", text)
	printBanner(console, "✅ Interview Complete!")

	console.Printf("\n🎉 Thank you for using %s!\n", app)
	console.Printf("📈 Final Score: %d/%d correct\n", session.CorrectCount, session.QuestionCount)
}

func resolveProfile(ctx context.Context, cmd *cobra.Command, config *Config, console *interaction.Console) (interaction.Profile, error) {
	candidate := config.Candidate
	preset := candidate.Role != "" || len(candidate.Tech) > 0 || candidate.Level != ""

	if !preset {
		console.Printf("\nPlease provide the interview details:\n\n")
		return console.AskProfile(ctx)
	}

	level := candidate.Level
	if level == "" {
		level = interview.LevelIntermediate
	}

	return interaction.Profile{
		Role:      interview.NormalizeRole(candidate.Role),
		TechStack: interview.NormalizeTechStack(candidate.Tech),
		Level:     level,
	}, nil
}

func newGenerator(ctx context.Context, config *Config) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider == "" {
		provider = ai.ProviderOpenAI
	}

	switch provider {
	case ai.ProviderFake:
		return fake.New(config.Model), nil
	case ai.ProviderGemini, ai.ProviderOpenAI, ai.ProviderAnthropic:
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	creds := providerConfig(config.AI, provider)
	env := strings.ToUpper(provider) + "_API_KEY"

	apiKey, err := secrets.Load(secrets.Source{
		Name:  provider + " api key",
		Value: creds.APIKey,
		File:  creds.APIKeyFile,
		Env:   env,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.%s.api-key-file or %s)", err, provider, env)
	}

	if provider == ai.ProviderGemini {
		return gemini.NewGenerator(ctx, apiKey, config.Model, config.Temperature)
	}

	if provider == ai.ProviderAnthropic {
		client, err := anthropic.New(apiKey, config.Model, config.Temperature)
		if err != nil {
			return nil, err
		}
		if creds.BaseURL != "" {
			client.BaseURL = creds.BaseURL
		}
		return client, nil
	}

	client, err := openai.New(apiKey, config.Model, config.Temperature)
	if err != nil {
		return nil, err
	}
	if creds.BaseURL != "" {
		client.BaseURL = creds.BaseURL
	}
	return client, nil
}

func providerConfig(cfg *AIConfig, provider string) ProviderConfig {
	var creds *ProviderConfig
	switch provider {
	case ai.ProviderGemini:
		creds = cfg.Gemini
	case ai.ProviderOpenAI:
		creds = cfg.OpenAI
	case ai.ProviderAnthropic:
		creds = cfg.Anthropic
	}
	if creds == nil {
		return ProviderConfig{}
	}
	return *creds
}

// initTracer installs a tracer provider that writes spans to path. Without a
// path the global no-op provider stays in place.
func initTracer(path string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if path == "" {
		return noop, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return noop, fmt.Errorf("create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f), stdouttrace.WithPrettyPrint())
	if err != nil {
		f.Close()
		return noop, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(serviceResource()),
	)

	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		defer f.Close()
		return tp.Shutdown(ctx)
	}, nil
}

// initMeter builds a meter provider that writes collected metrics to path when
// the run ends. Without a path metrics are dropped.
func initMeter(path string) (metric.MeterProvider, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if path == "" {
		return metricnoop.NewMeterProvider(), noop, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, noop, fmt.Errorf("create metrics file: %w", err)
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(f), stdoutmetric.WithPrettyPrint())
	if err != nil {
		f.Close()
		return nil, noop, fmt.Errorf("failed to create stdout metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(serviceResource()),
	)

	otel.SetMeterProvider(mp)

	return mp, func(ctx context.Context) error {
		defer f.Close()
		return mp.Shutdown(ctx)
	}, nil
}

func serviceResource() *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", app),
		attribute.String("service.version", version),
	)
}

// announce prints the report banner before the builder runs.
func announce(console *interaction.Console, builder *report.Builder) interview.Reporter {
	return interview.ReporterFunc(func(ctx context.Context, s *interview.Session) (string, error) {
		printBanner(console, "📊 Generating Interview Report...")
		return builder.Generate(ctx, s)
	})
}

func printBanner(console *interaction.Console, title string, lines ...string) {
	console.Printf("\n%s\n%s\n%s\n", banner, title, banner)
	if len(lines) == 0 {
		return
	}
	console.Printf("\n%s\n\n%s\n\n", strings.Join(lines, "\n"), banner)
}

// interruptOnSignal ends the process with a goodbye on Ctrl-C while a plain
// read or a provider call is blocking. promptui handles Ctrl-C itself.
func interruptOnSignal(console *interaction.Console, logger *zap.Logger) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-signals
		logger.Info("exiting", zap.String("reason", "signal"), zap.String("signal", sig.String()))
		console.Printf(goodbye)
		_ = logger.Sync()
		os.Exit(0)
	}()
}

func exitOnInterrupt(console *interaction.Console, logger *zap.Logger, err error) {
	if !errors.Is(err, interview.ErrInterrupted) {
		return
	}
	logger.Info("exiting", zap.String("reason", "interrupted by operator"))
	console.Printf(goodbye)
	_ = logger.Sync()
	os.Exit(0)
}
