package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// promptPassword prints prompt to stderr and reads a line from the
// terminal with echo disabled, so a master password never appears on
// screen or in shell history.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("vaultctl: stdin is not a terminal, refusing to read a password silently")
	}

	password, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("vaultctl: reading password: %w", err)
	}
	return string(password), nil
}
