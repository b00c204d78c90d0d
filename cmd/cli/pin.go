package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/ledger"
)

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Protect the ledger with a PIN",
}

var pinSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set or change the PIN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		current := ""
		if app.session.Locked() {
			var err error
			if current, err = app.readSecret("Current PIN: "); err != nil {
				return err
			}
		}
		next, err := app.readSecret("New PIN: ")
		if err != nil {
			return err
		}
		confirm, err := app.readSecret("Confirm PIN: ")
		if err != nil {
			return err
		}
		if err := app.session.SetPIN(current, next, confirm); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "PIN updated")
		return nil
	},
}

var pinRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the PIN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !app.session.Locked() {
			return ledger.ErrNoPIN
		}
		current, err := app.readSecret("Current PIN: ")
		if err != nil {
			return err
		}
		if err := app.session.RemovePIN(current); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "PIN removed")
		return nil
	},
}

func init() {
	pinCmd.AddCommand(pinSetCmd, pinRemoveCmd)
}
