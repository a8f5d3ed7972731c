package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cardprices/date"
	"github.com/etnz/cardprices/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	card string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the price history of a card" }
func (*historyCmd) Usage() string {
	return `history -c <card>

  Displays every observed price of a single card, with its change from the previous observation.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.card, "c", "", "card name to report on")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.card == "" {
		fmt.Fprintln(os.Stderr, "-c must be provided")
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	m, err := s.DecodeMatrix()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md, err := renderer.HistoryMarkdown(m, c.card)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

type showCmd struct {
	from, to string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the price matrix" }
func (*showCmd) Usage() string {
	return `show [-from <date>] [-to <date>]

  Displays the price matrix with the change of each price from the previous date.
  Dates are YYYY-MM-DD, both bounds are optional and inclusive.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first date to display")
	f.StringVar(&c.to, "to", "", "last date to display")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := date.ParseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	m, err := s.DecodeMatrix()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.MatrixMarkdown(m, r))
	return subcommands.ExitSuccess
}
