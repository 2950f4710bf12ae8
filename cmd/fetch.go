package cmd

import (
	"fmt"

	"github.com/AdoyoClifford/how-to-say-NO/internal/config"
	"github.com/AdoyoClifford/how-to-say-NO/internal/reason"
	"github.com/spf13/cobra"
)

var flagFetchVerbose bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print one reason to say no and exit",
	Long: `Fetch a reason without the TUI. Runs the same offline-first retrieval:
a cached reason is served when the network attempt fails, and a fresh one is
cached for next time. Exits non-zero only when there is neither.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		svc, store, err := newService(cfg, newLogger())
		if err != nil {
			return err
		}
		defer store.Close()

		var last reason.Outcome
		for o := range svc.Retrieve(cmd.Context()) {
			last = o
			if flagFetchVerbose && !o.Failed() {
				fmt.Println(o.Reason)
			}
		}
		if last.Failed() {
			return fmt.Errorf("no reason available: %w", last.Err)
		}
		if !flagFetchVerbose {
			fmt.Println(last.Reason)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&flagFetchVerbose, "verbose", false, "print every emission (cached, then fresh)")
}
