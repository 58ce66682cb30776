// Command vaultctl is a thin CLI wiring config, corevault, and vaultapi
// together. It is not a terminal UI — interactive vault browsing is out
// of this core's scope; vaultctl only exposes the account lifecycle.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ferrisvault/core/config"
	"github.com/ferrisvault/core/corevault"
	"github.com/ferrisvault/core/vaultapi"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "vaultctl manages an OPAQUE-authenticated, client-side encrypted password vault",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newCore loads the config file and wires up a fresh, Anonymous VaultCore.
func newCore() (*corevault.VaultCore, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.StandardLogger()
	api := vaultapi.NewHTTPApi(cfg.ServerURL(), log)
	return corevault.New(api, log), cfg, nil
}
