package commands

import (
	"github.com/spf13/cobra"
)

var CertificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "Request certificates over ACME",
}

var IssueCertificateCmd = &cobra.Command{
	Use:   "issue <destination-id> [domain...]",
	Short: "Request a certificate and deliver it to a destination",
	Long: `Request a certificate from the ACME directory (ACME_DIRECTORY_URL, Let's Encrypt by default) using HTTP-01.

The challenge token is written to the destination's challenge path over SFTP, so the domains must resolve to the destination and be served from that web root. The issued certificate is then delivered like 'certifire destination deliver'. Without domain arguments the destination's recorded domains, or its host, are used.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			fail(false)
			return
		}

		fail(commandsService.CertificateIssue(cmd.Context(), id, args[1:], cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

func init() {
	CertificateCmd.AddCommand(IssueCertificateCmd)
}
