package main

import (
	"fmt"
	"os"

	"certifire/cmd/certifire/commands"
	"certifire/cmd/certifire/config"
	"certifire/internal/database"
	"certifire/internal/logger"
	"certifire/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "certifire",
	Short: "Deliver TLS certificates and ACME challenge tokens to remote hosts over SFTP",
	Long: `certifire keeps a registry of SSH destinations and delivers TLS certificates and ACME HTTP-01 challenge tokens to them over SFTP.

- destinations: SSH hosts with a challenge web root and a certificate directory; credentials are tested before they are saved
- delivery: the private key, certificate and chain are written as <host>.key, <host>.pem and, for the Apache layout, <host>.ca.bundle.pem
- issuance: certificates are requested over ACME HTTP-01 with the token placed on the destination itself
- API: 'certifire server start' serves the same operations over HTTP, plus monitoring target/worker registration backed by InfluxDB

Quick start:

certifire destination add root@web1.example.com --domains example.com,www.example.com
certifire certificate issue 1
`,
	Version: fmt.Sprintf("%s (commit: %s, date: %s, arch: %s, os: %s, package: %s); db path: %s", version.Version, version.Commit, version.Date, version.Arch, version.OS, version.Package, config.Config.DatabasePath),
}

func main() {
	// stdout belongs to command output.
	logger.SetOutput(os.Stderr)
	logger.SetLevel(config.Config.LogLevel)

	db, err := database.InitDB()

	if err != nil {
		rootCmd.PrintErrf("Failed to initialize database at %s: %v\n", config.Config.DatabasePath, err)
		os.Exit(1)
	}

	commands.RegisterCommands(rootCmd, db)

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrf("%v\n", err)
		_ = database.CloseDB(db)
		os.Exit(1)
	}

	if err := database.CloseDB(db); err != nil {
		rootCmd.PrintErrf("Failed to close database: %v\n", err)
	}

	os.Exit(commands.ExitCode())
}
