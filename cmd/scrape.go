package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type scrapeCmd struct {
	update bool
}

func (*scrapeCmd) Name() string     { return "scrape" }
func (*scrapeCmd) Synopsis() string { return "run the cps-scrape extension to take a new snapshot" }
func (*scrapeCmd) Usage() string {
	return `cps scrape [-update] [<args>...]

  Runs the cps-scrape executable found in PATH with args. The configuration is passed as
  environment variables (` + EnvMatrixFile + `, ` + EnvSnapshotFile + `, ` + EnvSheet + `, ` + EnvVerbose + `):
  the scraper is expected to write its snapshot into ` + EnvSnapshotFile + `.

  With -update, the snapshot is then merged into the matrix, like 'cps update'.
`
}

func (c *scrapeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "update", false, "merge the snapshot into the matrix once scraped")
}

func (c *scrapeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	x := &Extension{Name: "scrape"}
	found, code := x.Run(ctx, s.Config, s.Logger, f.Args())
	if !found {
		fmt.Fprintln(os.Stderr, "Error: cps-scrape not found in PATH")
		return subcommands.ExitFailure
	}
	if code != 0 {
		fmt.Fprintf(os.Stderr, "Error: cps-scrape exited with status %d\n", code)
		return subcommands.ExitStatus(code)
	}
	if !c.update {
		return subcommands.ExitSuccess
	}
	return update(s)
}
