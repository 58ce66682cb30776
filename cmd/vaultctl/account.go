package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrisvault/core/vaultstore"
)

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Register a new vault against the server and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, err := promptPassword("Master password: ")
		if err != nil {
			return err
		}

		core, cfg, err := newCore()
		if err != nil {
			return err
		}

		if err := core.CreateAccount(username, password); err != nil {
			return err
		}

		if err := vaultstore.New(cfg.VaultStore.Path).Add(username); err != nil {
			return err
		}

		fmt.Printf("registered and logged in as %s\n", username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in to an existing vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, err := promptPassword("Master password: ")
		if err != nil {
			return err
		}

		core, _, err := newCore()
		if err != nil {
			return err
		}

		if err := core.Login(username, password); err != nil {
			return err
		}

		entries, err := core.Entries()
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s, %d entries\n", username, len(entries))
		return nil
	},
}
