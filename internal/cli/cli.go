package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/vk/transitionsim/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// defaults are read from the environment before flags are parsed, so every
// flag can also be set through its TRANSITIONSIM_* variable.
type defaults struct {
	ConfigPaths     []string `env:"TRANSITIONSIM_CONFIG" envSeparator:","`
	Scenario        string   `env:"TRANSITIONSIM_SCENARIO" envDefault:"default"`
	ScenarioDir     string   `env:"TRANSITIONSIM_SCENARIO_DIR"`
	ScenarioDB      string   `env:"TRANSITIONSIM_SCENARIO_DB"`
	Iterations      int      `env:"TRANSITIONSIM_ITERATIONS"`
	Seed            int64    `env:"TRANSITIONSIM_SEED" envDefault:"-1"`
	Workers         int      `env:"TRANSITIONSIM_WORKERS"`
	LogFormat       string   `env:"TRANSITIONSIM_LOG_FORMAT" envDefault:"text"`
	LogLevel        string   `env:"TRANSITIONSIM_LOG_LEVEL" envDefault:"info"`
	HealthcheckPort int      `env:"TRANSITIONSIM_HEALTHCHECK_PORT" envDefault:"0"`
	OTelEndpoint    string   `env:"TRANSITIONSIM_OTEL_ENDPOINT"`
}

// pathList is a repeatable string flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var d defaults
	if err := env.Parse(&d); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}

	flagSet := flag.NewFlagSet("transitionsim", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
TransitionSim - A year-by-year energy transition simulator with scenarios
and Monte Carlo analysis.

Usage:
  transitionsim [options] [PATH...]

Arguments:
  PATH
    Simulation file (.hcl, .yaml, .yml) or a directory containing them.
    Later files are merged over earlier ones.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths pathList
	flagSet.Var(&configPaths, "config", "Simulation file or directory. May be repeated.")
	scenarioFlag := flagSet.String("scenario", d.Scenario, "Scenario applied to the base configuration.")
	scenarioDirFlag := flagSet.String("scenario-dir", d.ScenarioDir, "Directory storing scenarios as YAML files.")
	scenarioDBFlag := flagSet.String("scenario-db", d.ScenarioDB, "SQLite database storing scenarios.")
	compareFlag := flagSet.String("compare", "", "Comma-separated scenario names whose overrides are compared.")
	exportFlag := flagSet.String("export-scenario", "", "Print the named scenario as HCL and exit.")
	monteCarloFlag := flagSet.Bool("monte-carlo", false, "Run a Monte Carlo ensemble instead of a single simulation.")
	iterationsFlag := flagSet.Int("iterations", d.Iterations, "Monte Carlo iterations. 0 keeps the file value.")
	seedFlag := flagSet.Int64("seed", d.Seed, "Random seed. Negative keeps the file value.")
	workersFlag := flagSet.Int("workers", d.Workers, "Concurrent Monte Carlo iterations. 0 keeps the file value or uses all CPUs.")
	startYearFlag := flagSet.Int("start-year", 0, "First simulated year. 0 keeps the file value.")
	endYearFlag := flagSet.Int("end-year", 0, "Last simulated year. 0 keeps the file value.")
	healthPortFlag := flagSet.Int("healthcheck-port", d.HealthcheckPort, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", d.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", d.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	otelFlag := flagSet.String("otel-endpoint", d.OTelEndpoint, "OTLP/HTTP endpoint for traces. Empty disables tracing.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append([]string(nil), configPaths...)
	paths = append(paths, flagSet.Args()...)
	if len(paths) == 0 {
		paths = d.ConfigPaths
	}
	if len(paths) == 0 {
		slog.Debug("No simulation path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var seed *uint64
	if *seedFlag >= 0 {
		s := uint64(*seedFlag)
		seed = &s
	}

	var compare []string
	for _, name := range strings.Split(*compareFlag, ",") {
		if name = strings.TrimSpace(name); name != "" {
			compare = append(compare, name)
		}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths:      paths,
		Scenario:         *scenarioFlag,
		ScenarioDir:      *scenarioDirFlag,
		ScenarioDB:       *scenarioDBFlag,
		CompareScenarios: compare,
		ExportScenario:   strings.TrimSpace(*exportFlag),
		StartYear:        *startYearFlag,
		EndYear:          *endYearFlag,
		MonteCarlo:       *monteCarloFlag,
		Iterations:       *iterationsFlag,
		Seed:             seed,
		Workers:          *workersFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
		HealthcheckPort:  *healthPortFlag,
		OTelEndpoint:     *otelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
