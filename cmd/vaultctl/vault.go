package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrisvault/core/passwordgen"
)

var (
	genLength   int
	genLower    bool
	genUpper    bool
	genNumbers  bool
	genSpecials bool
)

func init() {
	rootCmd.AddCommand(addEntryCmd, listEntriesCmd, genPasswordCmd)

	genPasswordCmd.Flags().IntVar(&genLength, "length", 16, "generated password length")
	genPasswordCmd.Flags().BoolVar(&genLower, "lower", true, "include lowercase letters")
	genPasswordCmd.Flags().BoolVar(&genUpper, "upper", true, "include uppercase letters")
	genPasswordCmd.Flags().BoolVar(&genNumbers, "numbers", true, "include digits")
	genPasswordCmd.Flags().BoolVar(&genSpecials, "specials", false, "include special characters")
}

var addEntryCmd = &cobra.Command{
	Use:   "add <username> <title> <entry-username> <entry-password>",
	Short: "Log in, add an entry, and save the vault",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultUsername, title, entryUsername, entryPassword := args[0], args[1], args[2], args[3]

		masterPassword, err := promptPassword("Master password: ")
		if err != nil {
			return err
		}

		core, _, err := newCore()
		if err != nil {
			return err
		}

		if err := core.Login(vaultUsername, masterPassword); err != nil {
			return err
		}

		entry, err := core.AddEntry(title, entryUsername, entryPassword)
		if err != nil {
			return err
		}

		if err := core.Save(); err != nil {
			return err
		}

		fmt.Printf("added entry %d and saved vault\n", entry.ID)
		return nil
	},
}

var listEntriesCmd = &cobra.Command{
	Use:   "list <username>",
	Short: "Log in and list the vault's entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		masterPassword, err := promptPassword("Master password: ")
		if err != nil {
			return err
		}

		core, _, err := newCore()
		if err != nil {
			return err
		}

		if err := core.Login(username, masterPassword); err != nil {
			return err
		}

		entries, err := core.Entries()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%d\t%s\t%s\n", e.ID, e.Title, e.Username)
		}
		return nil
	},
}

var genPasswordCmd = &cobra.Command{
	Use:   "genpw",
	Short: "Generate a random password matching the given restrictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := passwordgen.Generate(passwordgen.Restriction{
			Length:            genLength,
			LowerCase:         genLower,
			UpperCase:         genUpper,
			Numbers:           genNumbers,
			SpecialCharacters: genSpecials,
		})
		if err != nil {
			return err
		}
		fmt.Println(string(pw))
		return nil
	},
}
