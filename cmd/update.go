package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cardprices"
	"github.com/google/subcommands"
)

type updateCmd struct {
	snapshot string
	policy   string
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "merge a scraper snapshot into the price matrix"
}
func (*updateCmd) Usage() string {
	return `cps update [-s <snapshot>] [-policy reject|reuse|allow-duplicate]

  Merges the snapshot as a new dated column of the price matrix, then recomputes
  the up/down/neutral markers and saves the workbook.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "s", "", "snapshot file to merge (default from "+EnvSnapshotFile+")")
	f.StringVar(&c.policy, "policy", "", "what to do when the snapshot day is already in the matrix: reject, reuse or allow-duplicate (default from CPS_DUPLICATE_POLICY)")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if c.snapshot != "" {
		s.SnapshotFile = c.snapshot
	}
	if c.policy != "" {
		if s.Policy, err = cardprices.ParseDuplicatePolicy(c.policy); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return update(s)
}

// update merges the session snapshot into the session matrix.
func update(s *session) subcommands.ExitStatus {
	snapshot, err := cardprices.ReadSnapshot(s.SnapshotFile, cardprices.DefaultLayout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rep, err := s.Updater().Update(snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Merged %s into column %d %q of %s: %d added, %d updated, %d skipped.\n",
		snapshot.Day(), rep.Column, rep.Header.Label, s.MatrixFile, rep.Added, rep.Updated, rep.Skipped)
	return subcommands.ExitSuccess
}

type colorizeCmd struct{}

func (*colorizeCmd) Name() string     { return "colorize" }
func (*colorizeCmd) Synopsis() string { return "recompute the price markers of the matrix" }
func (*colorizeCmd) Usage() string {
	return `cps colorize

  Recomputes the up/down/neutral markers and the alignment of every price cell and saves
  the workbook. Prices are left untouched.
`
}

func (c *colorizeCmd) SetFlags(f *flag.FlagSet) {}

func (c *colorizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	unconverted, err := s.Updater().Recolor()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if unconverted > 0 {
		fmt.Printf("%d cells could not be compared.\n", unconverted)
	}
	return subcommands.ExitSuccess
}
