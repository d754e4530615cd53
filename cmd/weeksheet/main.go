package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/markusmobius/go-dateparser"
	"github.com/spf13/cobra"

	"github.com/emilianohg/weeksheet/internal/config"
	"github.com/emilianohg/weeksheet/internal/db"
	"github.com/emilianohg/weeksheet/internal/logging"
	"github.com/emilianohg/weeksheet/internal/models"
	"github.com/emilianohg/weeksheet/internal/publish"
	"github.com/emilianohg/weeksheet/internal/render"
	"github.com/emilianohg/weeksheet/internal/repository"
	"github.com/emilianohg/weeksheet/internal/timesheet"
	"github.com/emilianohg/weeksheet/internal/tui"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "weeksheet",
	Short: "Weekly timesheet editor",
	Long:  `Weeksheet records hours per project and time code for each working day and submits weeks for approval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		publisher, err := publish.New(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The editor stays usable without a broker.
			logging.Logger().Warn("approval queue unavailable", logging.KeyError, err)
			fmt.Fprintf(os.Stderr, "Warning: approval queue unavailable, submissions are stored locally: %v\n", err)
			publisher = publish.Noop{}
		}
		defer publisher.Close()

		return tui.Run(database, cfg, publisher)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a stored week",
	Long: `Print the stored timesheet of a week.

Examples:
  weeksheet show                      # This week
  weeksheet show --week "last week"
  weeksheet show --week 2025-01-15    # Week containing the date`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		week, _ := cmd.Flags().GetString("week")
		offset, dates, sheet, err := loadWeek(database, week)
		if err != nil {
			return err
		}

		var entries []models.TimesheetEntry
		var status models.TimesheetStatus
		if sheet != nil {
			entries = sheet.Entries
			status = sheet.Status
		}
		render.NewFormatter(os.Stdout).Week(offset, dates, entries, status)
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		projects, err := repository.NewProjectRepo(database).GetAll()
		if err != nil {
			return err
		}
		render.NewFormatter(os.Stdout).Projects(projects)
		return nil
	},
}

var timeCodesCmd = &cobra.Command{
	Use:   "timecodes",
	Short: "List time codes by category and group",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		catalog, err := repository.NewTimeCodeRepo(database).GetCatalog()
		if err != nil {
			return err
		}
		render.NewFormatter(os.Stdout).TimeCodes(catalog)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample clients, projects and time codes into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		seeded, err := repository.SeedSample(database)
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Println("Database already has reference data, nothing to do.")
			return nil
		}
		fmt.Println("Sample clients, projects and time codes loaded.")
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored week as CSV or JSON",
	Long: `Export the stored timesheet of a week.

Files are written to export_output from the config unless --output is given.
Use --output - to write to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		week, _ := cmd.Flags().GetString("week")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format = strings.ToLower(format)
		if format != "csv" && format != "json" {
			return fmt.Errorf("unknown format '%s': must be csv or json", format)
		}

		_, dates, sheet, err := loadWeek(database, week)
		if err != nil {
			return err
		}
		if sheet == nil {
			return fmt.Errorf("no stored timesheet for %s", timesheet.RangeLabel(dates))
		}

		var w io.Writer = os.Stdout
		if output != "-" {
			if output == "" {
				output = filepath.Join(cfg.ExportOutput, fmt.Sprintf("timesheet-%s.%s", timesheet.DateKey(dates[0]), format))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if format == "csv" {
			err = render.WriteCSV(w, dates, sheet.Entries)
		} else {
			err = render.NewFormatter(w).JSON(render.NewWeekExport(dates, sheet.Status, sheet.Entries))
		}
		if err != nil {
			return err
		}

		if output != "-" {
			fmt.Printf("Exported %s to %s\n", timesheet.RangeLabel(dates), output)
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if _, err := db.Open(); err != nil {
			return err
		}
		defer db.Close()

		status, err := db.GetMigrationStatus()
		if err != nil {
			return err
		}
		if statusOnly, _ := cmd.Flags().GetBool("status"); statusOnly {
			fmt.Printf("Schema version: %d of %d\n", status.CurrentVersion, status.LatestVersion)
			if status.Dirty {
				fmt.Println("Warning: the last migration did not complete.")
			}
			return nil
		}
		if !status.Pending {
			fmt.Println("Schema is up to date.")
			return nil
		}
		if err := db.RunMigrations(); err != nil {
			return err
		}
		fmt.Printf("Migrated schema from version %d to %d.\n", status.CurrentVersion, status.LatestVersion)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug logs as JSON")

	showCmd.Flags().StringP("week", "w", "", "Any date in the week, e.g. 'last week' or 2025-01-15")

	exportCmd.Flags().StringP("week", "w", "", "Any date in the week, e.g. 'last week' or 2025-01-15")
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringP("output", "o", "", "Output file, or - for stdout")

	migrateCmd.Flags().Bool("status", false, "Only print the schema version")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(timeCodesCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, starts file logging and opens the migrated
// database. The returned cleanup closes both.
func setup() (*config.Config, *sql.DB, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	logFile, err := startLogging(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	database, err := db.OpenAndMigrate()
	if err != nil {
		logFile.Close()
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logging.Logger().Error("closing database", logging.KeyError, err)
		}
		logFile.Close()
	}
	return cfg, database, cleanup, nil
}

func startLogging(cfg *config.Config) (*os.File, error) {
	path, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	if debug {
		logCfg = logging.DebugConfig()
	}
	logCfg.Output = f
	logging.Init(logCfg)

	logging.Logger().Debug("logging started", slog.String("path", path))
	return f, nil
}

// loadWeek resolves input to a week and reads its stored snapshot, which is
// nil when the week was never saved.
func loadWeek(database *sql.DB, input string) (int, []time.Time, *models.Timesheet, error) {
	now := time.Now()
	offset, err := parseWeek(input, now)
	if err != nil {
		return 0, nil, nil, err
	}

	dates := timesheet.WeekDates(now, offset)
	sheet, err := repository.NewTimesheetRepo(database).GetWeek(dates[0])
	if err != nil {
		return 0, nil, nil, err
	}
	return offset, dates, sheet, nil
}

// parseWeek maps a date expression to a week offset relative to now.
func parseWeek(input string, now time.Time) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "this week") {
		return 0, nil
	}
	if t, err := time.ParseInLocation(timesheet.DateLayout, input, now.Location()); err == nil {
		return timesheet.OffsetForDate(now, t), nil
	}

	result, err := dateparser.Parse(&dateparser.Configuration{CurrentTime: now}, input)
	if err != nil {
		return 0, fmt.Errorf("invalid week '%s': %w", input, err)
	}
	return timesheet.OffsetForDate(now, result.Time), nil
}
