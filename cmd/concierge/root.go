package main

import (
	"errors"

	"github.com/spf13/cobra"
)

type appKey struct{}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "concierge",
		Short: "Tableside concierge client",
		Long: `Scan a restaurant's table code, sign in, and chat with the restaurant's AI concierge.

Configuration is read from the environment (and a .env file):
  CONCIERGE_API_BASE_URL      backend base URL
  CONCIERGE_CREDENTIALS_PATH  where the auth token is kept
  CONCIERGE_SCAN_DECODER      naive | query`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, verbose)
			if err != nil {
				return err
			}
			cmd.SetContext(withApp(cmd.Context(), a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a := appFrom(cmd); a != nil {
				a.close()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newScanCmd(),
		newChatCmd(),
		newHistoryCmd(),
		newReviewCmd(),
		newAudioCmd(),
	)
	return root
}

// reported reports whether err was already printed as an alert.
func reported(err error) bool {
	var s errSilent
	return errors.As(err, &s)
}
