// Package cmd implements the CLI application to maintain the card price matrix.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/cardprices"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "matrix")
	c.Register(&colorizeCmd{}, "matrix")
	c.Register(&scrapeCmd{}, "matrix")

	c.Register(&showCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var matrixFile = flag.String("matrix-file", "", "Path to the price matrix workbook (xlsx). Overrides "+EnvMatrixFile)
var snapshotFile = flag.String("snapshot-file", "", "Path to the scraper snapshot (json or yaml). Overrides "+EnvSnapshotFile)
var verbose = flag.Bool("v", false, "verbose logging")

// Config is the application configuration, read from the environment.
type Config struct {
	MatrixFile   string                     `env:"CPS_MATRIX_FILE" envDefault:"data/output/output.xlsx"`
	SnapshotFile string                     `env:"CPS_SNAPSHOT_FILE" envDefault:"output/cards.json"`
	Sheet        string                     `env:"CPS_SHEET"` // cardprices.DefaultSheet if empty
	Policy       cardprices.DuplicatePolicy `env:"CPS_DUPLICATE_POLICY" envDefault:"reject"`
	LogLevel     slog.Level                 `env:"CPS_LOG_LEVEL" envDefault:"info"`
	LogFile      string                     `env:"CPS_LOG_FILE"`
}

// LoadConfig reads the configuration from a .env file in the current folder (if any), the
// environment, and the global flags, in increasing order of precedence.
//
// Variables already set in the environment are not overridden by the .env file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot load .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if *matrixFile != "" {
		cfg.MatrixFile = *matrixFile
	}
	if *snapshotFile != "" {
		cfg.SnapshotFile = *snapshotFile
	}
	if *verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

// NewLogger returns a text logger writing to w, and to cfg.LogFile if set.
//
// The returned closer releases the log file.
func NewLogger(w io.Writer, cfg Config) (*slog.Logger, io.Closer, error) {
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log folder: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = io.MultiWriter(w, f), f
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(h), closer, nil
}

// session is what a command needs to run: the configuration and its logger.
type session struct {
	Config
	Logger  *slog.Logger
	logFile io.Closer
}

// openSession loads the configuration and creates the logger.
func openSession() (*session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, closer, err := NewLogger(os.Stderr, cfg)
	if err != nil {
		return nil, err
	}
	return &session{Config: cfg, Logger: logger, logFile: closer}, nil
}

func (s *session) Close() error { return s.logFile.Close() }

// Updater returns the updater of the configured matrix.
func (s *session) Updater() *cardprices.Updater {
	return &cardprices.Updater{
		MatrixFile: s.MatrixFile,
		Sheet:      s.Sheet,
		Resolver:   cardprices.Resolver{Policy: s.Policy},
		Logger:     s.Logger,
	}
}

// DecodeMatrix reads the configured matrix.
func (s *session) DecodeMatrix() (*cardprices.Matrix, error) {
	return cardprices.DecodeMatrix(s.MatrixFile, s.Sheet)
}

// printMarkdown renders md on the terminal, or prints it as is if it cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
