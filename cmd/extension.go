package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables read by Config, and passed to extensions.
const (
	EnvMatrixFile   = "CPS_MATRIX_FILE"
	EnvSnapshotFile = "CPS_SNAPSHOT_FILE"
	EnvSheet        = "CPS_SHEET"
	EnvVerbose      = "CPS_VERBOSE"
)

// Extension is an external cps-<name> executable found in PATH.
type Extension struct {
	Name   string
	Stdout io.Writer // os.Stdout if nil
	Stderr io.Writer // os.Stderr if nil
}

// Run executes the extension with args. The configuration is passed as environment variables.
//
// It returns (false, 0) if the extension is not in PATH, and (true, exitCode) otherwise.
func (x *Extension) Run(ctx context.Context, cfg Config, logger *slog.Logger, args []string) (bool, int) {
	name := "cps-" + x.Name

	lp, err := exec.LookPath(name)
	if err != nil {
		logger.Debug("extension not found in PATH", "extension", name, "error", err)
		return false, 0
	}

	cmd := exec.CommandContext(ctx, lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = orDefault(x.Stdout, os.Stdout)
	cmd.Stderr = orDefault(x.Stderr, os.Stderr)

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, EnvMatrixFile+"="+cfg.MatrixFile)
	cmd.Env = append(cmd.Env, EnvSnapshotFile+"="+cfg.SnapshotFile)
	cmd.Env = append(cmd.Env, EnvSheet+"="+cfg.Sheet)
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(cfg.LogLevel < slog.LevelInfo))

	logger.Info("running extension", "extension", name, "path", lp)
	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) && exitError.ExitCode() >= 0 {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
