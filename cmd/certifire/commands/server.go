package commands

import (
	"certifire/cmd/certifire/config"

	"github.com/spf13/cobra"
)

var serverListenAddr string

var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "certifire API server commands",
}

var StartServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the certifire HTTP API",
	Long: `Start the certifire HTTP API: destination management, certificate and challenge token delivery, and monitoring registration.

The API is protected by the X-API-Key header when CERTIFIRE_API_KEY is set. /metrics and /healthz are always public.`,
	Run: func(cmd *cobra.Command, _ []string) {
		defer tsdbWriter.Close()

		addr := config.Config.ListenAddr
		if serverListenAddr != "" {
			addr = serverListenAddr
		}

		fail(commandsService.ServerStart(addr, config.Config.APIKey, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

func init() {
	StartServerCmd.Flags().StringVarP(&serverListenAddr, "listen", "l", "", "Listen address (overrides CERTIFIRE_LISTEN_ADDR)")

	ServerCmd.AddCommand(StartServerCmd)
}
