package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/themizzi/saucecheck/internal/browser"
	internalcli "github.com/themizzi/saucecheck/internal/cli"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/database"
	"github.com/themizzi/saucecheck/internal/handlers"
	"github.com/themizzi/saucecheck/internal/repository"
	"github.com/themizzi/saucecheck/internal/scenarios"
	"github.com/themizzi/saucecheck/internal/services"
)

var version = "0.1.0"

var tagsFlag = &cli.StringFlag{
	Name:  "tags",
	Usage: `comma separated tags, "!tag" excludes (e.g. "smoke,!checkout")`,
}

var resultsFlags = []cli.Flag{
	&cli.StringFlag{Name: "results-driver", Usage: "results store driver (postgres or sqlite)"},
	&cli.StringFlag{Name: "results-dsn", Usage: "results store connection string"},
}

// loadRunConfig reads the environment and applies command line overrides
func loadRunConfig(c *cli.Context) (*config.RunConfig, error) {
	cfg, err := config.LoadRunConfig(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	if c.IsSet("tags") {
		cfg.Tags = c.String("tags")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("driver") {
		cfg.Driver = c.String("driver")
	}
	if c.IsSet("headless") {
		cfg.Headless = c.Bool("headless")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("artifacts") {
		cfg.ArtifactsDir = c.String("artifacts")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}
	return cfg, nil
}

// openResults opens the results store named by flags or environment, or returns nil
func openResults(c *cli.Context) (*sql.DB, string, error) {
	getenv := func(key string) string {
		switch {
		case key == "RESULTS_DRIVER" && c.IsSet("results-driver"):
			return c.String("results-driver")
		case key == "RESULTS_DSN" && c.IsSet("results-dsn"):
			return c.String("results-dsn")
		default:
			return os.Getenv(key)
		}
	}

	cfg, err := config.LoadResultsConfig(getenv)
	if err != nil {
		return nil, "", fmt.Errorf("invalid results configuration: %w", err)
	}
	if cfg == nil {
		return nil, "", nil
	}

	db, err := database.OpenConfig(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open results store: %w", err)
	}
	logrus.WithField("driver", cfg.Driver).Info("connected to results store")
	return db, cfg.Driver, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the suite against the storefront",
		Flags: append([]cli.Flag{
			tagsFlag,
			&cli.StringFlag{Name: "base-url", Usage: "storefront base URL"},
			&cli.StringFlag{Name: "driver", Usage: "browser driver (playwright or rod)"},
			&cli.BoolFlag{Name: "headless", Value: true, Usage: "run the browser headless"},
			&cli.IntFlag{Name: "workers", Value: 1, Usage: "parallel browser sessions"},
			&cli.StringFlag{Name: "artifacts", Usage: "directory for failure screenshots"},
			&cli.StringFlag{Name: "json", Usage: "write a JSON report to this file"},
		}, resultsFlags...),
		Action: func(c *cli.Context) error {
			cfg, err := loadRunConfig(c)
			if err != nil {
				return err
			}

			deps := internalcli.RunDependencies{
				Config:   cfg,
				Groups:   scenarios.All(),
				Out:      os.Stdout,
				JSONPath: c.String("json"),
				Log:      logrus.StandardLogger(),
				Open: func() (browser.Session, error) {
					return browser.Open(cfg.Driver, browser.OptionsFromConfig(cfg))
				},
			}

			db, driver, err := openResults(c)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				deps.Recorder = services.NewResultService(repository.NewRunRepository(db, driver))
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = internalcli.RunSuite(ctx, deps)
			return err
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List scenarios and their tags",
		Flags: []cli.Flag{tagsFlag},
		Action: func(c *cli.Context) error {
			return internalcli.ListScenarios(os.Stdout, scenarios.All(), c.String("tags"))
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the playwright driver and chromium",
		Action: func(c *cli.Context) error {
			return browser.InstallPlaywright()
		},
	}
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve run history from the results store",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "templates", Value: "templates", Usage: "template directory"},
			&cli.StringFlag{Name: "artifacts", Usage: "serve screenshots from this directory"},
		}, resultsFlags...),
		Action: func(c *cli.Context) error {
			db, driver, err := openResults(c)
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("no results store configured: set RESULTS_DRIVER or RESULTS_DSN")
			}
			defer db.Close()

			history := services.NewResultService(repository.NewRunRepository(db, driver))
			runsHandler, err := handlers.NewRunsHandler(c.String("templates")+"/runs.html", history)
			if err != nil {
				return fmt.Errorf("failed to create runs handler: %w", err)
			}

			artifacts := c.String("artifacts")
			if artifacts == "" {
				artifacts = os.Getenv("E2E_ARTIFACTS_DIR")
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: config.LoadServerConfig(os.Getenv),
				RunsHandler:  runsHandler,
				RunHandler:   handlers.NewRunHandler(history),
				ArtifactsDir: artifacts,
			})
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logrus.Debug(".env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "saucecheck",
		Usage:   "End-to-end checks for the Sauce Demo storefront",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			InstallCommand(),
			ServeCommand(),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		if errors.Is(err, internalcli.ErrScenariosFailed) {
			os.Exit(1)
		}
		logrus.WithError(err).Fatal("saucecheck failed")
	}
}
