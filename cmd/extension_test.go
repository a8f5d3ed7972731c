package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/etnz/cardprices"
	"github.com/google/subcommands"
)

// installExtension writes an executable shell script cps-<name> in a new folder put in PATH.
func installExtension(t *testing.T, name, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in tests")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cps-"+name), []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("cannot write extension: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestExtensionMechanism(t *testing.T) {
	installExtension(t, "hello", `
echo "$0 $@"
echo "`+EnvMatrixFile+`=$`+EnvMatrixFile+`"
echo "`+EnvSnapshotFile+`=$`+EnvSnapshotFile+`"
echo "`+EnvSheet+`=$`+EnvSheet+`"
echo "`+EnvVerbose+`=$`+EnvVerbose+`"
`)

	cfg := Config{
		MatrixFile:   "random/prices.xlsx",
		SnapshotFile: "random/cards.json",
		Sheet:        "Prices",
		LogLevel:     slog.LevelDebug,
	}
	var stdout bytes.Buffer
	x := &Extension{Name: "hello", Stdout: &stdout}
	found, code := x.Run(context.Background(), cfg, discardLogger(), []string{"--pages", "2"})
	if !found || code != 0 {
		t.Fatalf("Run() = %v, %d, want true, 0", found, code)
	}

	got := stdout.String()
	for _, want := range []string{
		"cps-hello --pages 2",
		EnvMatrixFile + "=random/prices.xlsx",
		EnvSnapshotFile + "=random/cards.json",
		EnvSheet + "=Prices",
		EnvVerbose + "=true",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("extension output does not contain %q:\n%s", want, got)
		}
	}
}

func TestExtensionExitCode(t *testing.T) {
	installExtension(t, "fail", "exit 3\n")

	x := &Extension{Name: "fail", Stdout: io.Discard, Stderr: io.Discard}
	found, code := x.Run(context.Background(), Config{}, discardLogger(), nil)
	if !found || code != 3 {
		t.Errorf("Run() = %v, %d, want true, 3", found, code)
	}
}

func TestExtensionNotFound(t *testing.T) {
	x := &Extension{Name: "does-not-exist-anywhere"}
	if found, _ := x.Run(context.Background(), Config{}, discardLogger(), nil); found {
		t.Error("Run() found an extension that does not exist")
	}
}

func TestScrapeUpdate(t *testing.T) {
	installExtension(t, "scrape", `
mkdir -p "$(dirname "$CPS_SNAPSHOT_FILE")"
cat > "$CPS_SNAPSHOT_FILE" <<EOF
{"extraction_date": "2025-06-01 14:03:00", "total_cards": 2,
 "cards": [{"name": "Bolt", "quantity": "4", "price": "0,10"},
           {"name": "Island", "quantity": 20, "price": 0.05}]}
EOF
`)
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvMatrixFile, filepath.Join(dir, "data", "output.xlsx"))
	t.Setenv(EnvSnapshotFile, filepath.Join(dir, "output", "cards.json"))
	t.Setenv("CPS_LOG_LEVEL", "error")

	f := flag.NewFlagSet("scrape", flag.ContinueOnError)
	c := &scrapeCmd{}
	c.SetFlags(f)
	if err := f.Parse([]string{"-update"}); err != nil {
		t.Fatal(err)
	}
	if status := c.Execute(context.Background(), f); status != subcommands.ExitSuccess {
		t.Fatalf("scrape -update = %v, want success", status)
	}

	m, err := cardprices.DecodeMatrix(filepath.Join(dir, "data", "output.xlsx"), cardprices.DefaultSheet)
	if err != nil {
		t.Fatalf("DecodeMatrix() error = %v", err)
	}
	if m.Len() != 2 || m.Header(cardprices.FirstDateColumn).Label != "01/06/2025" {
		t.Errorf("matrix has %d rows and column 3 %q, want 2 rows and 01/06/2025", m.Len(), m.Header(cardprices.FirstDateColumn).Label)
	}
}
