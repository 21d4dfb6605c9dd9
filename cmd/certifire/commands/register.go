package commands

import (
	"certifire/cmd/certifire/config"
	"certifire/internal/certificates"
	"certifire/internal/commands"
	"certifire/internal/delivery"
	"certifire/internal/destinations"
	"certifire/internal/destinations/types"
	"certifire/internal/logger"
	"certifire/internal/monitoring"
	"certifire/internal/ssh"
	"certifire/internal/tsdb"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	tsdbWriter      tsdb.Writer
	commandsService *commands.Service
	exitCode        int
)

// ExitCode is non-zero when the last command reported a failure.
func ExitCode() int {
	return exitCode
}

func fail(ok bool) {
	if !ok {
		exitCode = 1
	}
}

func destinationDefaults() types.Defaults {
	format, ok := types.ParseExportFormat(config.Config.DefaultExportFormat)

	if !ok {
		logger.Warn("Unknown CERTIFIRE_DEFAULT_EXPORT_FORMAT %q, using %s", config.Config.DefaultExportFormat, types.ExportFormatBundled)
		format = types.ExportFormatBundled
	}

	return types.Defaults{
		Port:            config.Config.DefaultSSHPort,
		User:            config.Config.DefaultSSHUser,
		ChallengePath:   config.Config.DefaultChallengePath,
		CertificatePath: config.Config.DefaultCertificatePath,
		ExportFormat:    format,
	}
}

func RegisterCommands(rootCmd *cobra.Command, db *gorm.DB) {
	deliveryService := delivery.NewService(delivery.NewSSHConnector(ssh.NewService()), delivery.Options{
		SSHTimeout:     config.Config.SSHTimeout,
		KnownHostsPath: config.Config.KnownHostsPath,
	})

	tsdbWriter = tsdb.NewInfluxWriter(config.Config.InfluxURL, config.Config.InfluxToken, config.Config.InfluxOrg, config.Config.InfluxBucket)

	commandsService = &commands.Service{
		Destinations: destinations.NewService(destinations.NewRepository(db), deliveryService, destinationDefaults()),
		Delivery:     deliveryService,
		Monitoring:   monitoring.NewService(monitoring.NewRepository(db), tsdbWriter),
	}

	issuer, err := certificates.NewIssuer(deliveryService, certificates.Options{
		DirectoryURL: config.Config.ACMEDirectoryURL,
		Email:        config.Config.ACMEEmail,
	})

	if err == nil {
		commandsService.Issuer = issuer
	} else {
		logger.Debug("ACME issuer disabled: %v", err)
	}

	rootCmd.AddCommand(ServerCmd)
	rootCmd.AddCommand(DestinationCmd)
	rootCmd.AddCommand(CertificateCmd)
}
