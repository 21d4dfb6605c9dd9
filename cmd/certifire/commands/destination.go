package commands

import (
	"certifire/internal/destinations/types"

	"github.com/spf13/cobra"
)

var (
	destSSHKeyPath      string
	destSSHKeyPassEmpty bool
	destAskPassword     bool
	destHost            string
	destPort            uint
	destUser            string
	destChallengePath   string
	destCertificatePath string
	destExportFormat    string
	destSkipVerify      bool
	destStrict          bool
	destKnownHosts      string
	destDomains         string

	deliverKeyPath   string
	deliverCertPath  string
	deliverChainPath string
	tokenDstPath     string
)

var DestinationCmd = &cobra.Command{
	Use:     "destination",
	Aliases: []string{"dest"},
	Short:   "Manage certificate destinations",
	Long:    `Manage the SSH hosts certificates and ACME challenge tokens are delivered to over SFTP.`,
}

// readSecrets fills in the password or key passphrase interactively.
func readSecrets(cmd *cobra.Command, dest *types.Destination, passwordRequired bool) bool {
	if dest.PrivateKeyPath != "" {
		if destSSHKeyPassEmpty {
			return true
		}

		passphrase, err := readPasswordSecurely("🔒 Enter SSH key passphrase (leave empty if none): ", cmd.ErrOrStderr())

		if err != nil {
			cmd.PrintErrf("❌ Error: failed to read passphrase: %v\n", err)
			return false
		}

		dest.Passphrase = passphrase

		return true
	}

	if !passwordRequired {
		return true
	}

	password, err := readPasswordSecurely("🔒 Enter SSH password: ", cmd.ErrOrStderr())

	if err != nil {
		cmd.PrintErrf("❌ Error: failed to read password: %v\n", err)
		return false
	}

	if password == "" {
		cmd.PrintErrf("❌ Error: SSH authentication is required. Use --ssh-key-path or enter a password\n")
		return false
	}

	dest.Password = password

	return true
}

var AddDestinationCmd = &cobra.Command{
	Use:   "add username@hostname[:port]",
	Short: "Register a destination",
	Long: `Register a destination. The SSH connection is tested before the destination is stored, unless --skip-verify is given.

Without --ssh-key-path the SSH password is read from the terminal.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username, hostname, port, err := parseSSHURL(args[0])

		if err != nil {
			cmd.PrintErrf("❌ Error: failed to parse SSH URL '%s': %v\n", args[0], err)
			fail(false)
			return
		}

		dest := &types.Destination{
			Host:                       hostname,
			Port:                       port,
			User:                       username,
			PrivateKeyPath:             destSSHKeyPath,
			ChallengeDestinationPath:   destChallengePath,
			CertificateDestinationPath: destCertificatePath,
			ExportFormat:               types.ExportFormat(destExportFormat),
			SkipVerify:                 destSkipVerify,
			StrictHostKeyChecking:      destStrict,
			KnownHostsPath:             destKnownHosts,
			Domains:                    destDomains,
		}

		if !readSecrets(cmd, dest, true) {
			fail(false)
			return
		}

		fail(commandsService.DestinationAdd(cmd.Context(), dest, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var ListDestinationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List destinations",
	Run: func(cmd *cobra.Command, _ []string) {
		fail(commandsService.DestinationList(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

var ShowDestinationCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a destination as JSON (secrets are never printed)",
	Args:  cobra.ExactArgs(1),
	Run: withID(func(cmd *cobra.Command, id uint, _ []string) bool {
		return commandsService.DestinationShow(id, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

var UpdateDestinationCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a destination",
	Long: `Update a destination. Only the flags given are changed. The SSH connection is tested again before saving, unless --skip-verify is given.

Use --ask-password to replace the stored password.`,
	Args: cobra.ExactArgs(1),
	Run: withID(func(cmd *cobra.Command, id uint, _ []string) bool {
		update := &types.Destination{
			Host:                       destHost,
			Port:                       destPort,
			User:                       destUser,
			PrivateKeyPath:             destSSHKeyPath,
			ChallengeDestinationPath:   destChallengePath,
			CertificateDestinationPath: destCertificatePath,
			ExportFormat:               types.ExportFormat(destExportFormat),
			SkipVerify:                 destSkipVerify,
			KnownHostsPath:             destKnownHosts,
			Domains:                    destDomains,
		}

		if (update.PrivateKeyPath != "" || destAskPassword) && !readSecrets(cmd, update, destAskPassword) {
			return false
		}

		var strict *bool
		if cmd.Flags().Changed("strict-host-key-checking") {
			strict = &destStrict
		}

		return commandsService.DestinationUpdate(cmd.Context(), id, update, strict, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

var RemoveDestinationCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a destination (files on the host are kept)",
	Args:    cobra.ExactArgs(1),
	Run: withID(func(cmd *cobra.Command, id uint, _ []string) bool {
		return commandsService.DestinationRemove(id, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

var TestDestinationCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Open an SFTP session to a destination",
	Args:  cobra.ExactArgs(1),
	Run: withID(func(cmd *cobra.Command, id uint, _ []string) bool {
		return commandsService.DestinationTest(cmd.Context(), id, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

var DeliverDestinationCmd = &cobra.Command{
	Use:   "deliver <id>",
	Short: "Upload a certificate and its private key to a destination",
	Long: `Upload a certificate and its private key to <certificate path>/<host> on the destination.

The NGINX export format appends the chain to <host>.pem; Apache writes it to <host>.ca.bundle.pem.`,
	Args: cobra.ExactArgs(1),
	Run: withID(func(cmd *cobra.Command, id uint, _ []string) bool {
		return commandsService.DeliverCertificate(cmd.Context(), id, deliverKeyPath, deliverCertPath, deliverChainPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

var PushTokenDestinationCmd = &cobra.Command{
	Use:   "push-token <id> <token-path> <token>",
	Short: "Write an ACME HTTP-01 challenge token",
	Long:  `Write an ACME HTTP-01 challenge token to <challenge path>/<token-path>, e.g. token-path /.well-known/acme-challenge/<token>.`,
	Args:  cobra.ExactArgs(3),
	Run: withID(func(cmd *cobra.Command, id uint, args []string) bool {
		return commandsService.PushToken(cmd.Context(), id, args[0], args[1], tokenDstPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

var WithdrawTokenDestinationCmd = &cobra.Command{
	Use:   "withdraw-token <id> <token-path>",
	Short: "Remove an ACME HTTP-01 challenge token",
	Args:  cobra.ExactArgs(2),
	Run: withID(func(cmd *cobra.Command, id uint, args []string) bool {
		return commandsService.WithdrawToken(cmd.Context(), id, args[0], tokenDstPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

// withID parses the leading id argument and passes the rest on.
func withID(run func(cmd *cobra.Command, id uint, args []string) bool) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			fail(false)
			return
		}

		fail(run(cmd, id, args[1:]))
	}
}

func addDestinationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&destSSHKeyPath, "ssh-key-path", "", "Path to the SSH private key (password auth is used when empty)")
	cmd.Flags().BoolVar(&destSSHKeyPassEmpty, "ssh-key-pass-empty", false, "Don't prompt for the SSH key passphrase")
	cmd.Flags().StringVar(&destChallengePath, "challenge-path", "", "Remote web root for ACME challenge tokens")
	cmd.Flags().StringVar(&destCertificatePath, "certificate-path", "", "Remote directory for certificates")
	cmd.Flags().StringVar(&destExportFormat, "export-format", "", "Certificate layout: NGINX (bundled chain) or Apache (separate chain)")
	cmd.Flags().BoolVar(&destSkipVerify, "skip-verify", false, "Save without testing the SSH connection")
	cmd.Flags().BoolVar(&destStrict, "strict-host-key-checking", false, "Verify the host key against known_hosts")
	cmd.Flags().StringVar(&destKnownHosts, "known-hosts", "", "known_hosts file (defaults to CERTIFIRE_KNOWN_HOSTS_PATH)")
	cmd.Flags().StringVar(&destDomains, "domains", "", "Comma separated domains served by this host")
}

func init() {
	addDestinationFlags(AddDestinationCmd)
	addDestinationFlags(UpdateDestinationCmd)

	UpdateDestinationCmd.Flags().StringVar(&destHost, "host", "", "New hostname or IP")
	UpdateDestinationCmd.Flags().UintVar(&destPort, "port", 0, "New SSH port")
	UpdateDestinationCmd.Flags().StringVar(&destUser, "user", "", "New SSH user")
	UpdateDestinationCmd.Flags().BoolVar(&destAskPassword, "ask-password", false, "Prompt for a new SSH password")

	DeliverDestinationCmd.Flags().StringVar(&deliverKeyPath, "key", "", "PEM private key file")
	DeliverDestinationCmd.Flags().StringVar(&deliverCertPath, "cert", "", "PEM certificate file")
	DeliverDestinationCmd.Flags().StringVar(&deliverChainPath, "chain", "", "PEM issuer chain file (optional)")
	_ = DeliverDestinationCmd.MarkFlagRequired("key")
	_ = DeliverDestinationCmd.MarkFlagRequired("cert")

	PushTokenDestinationCmd.Flags().StringVar(&tokenDstPath, "dst-path", "", "Override the destination's challenge path")
	WithdrawTokenDestinationCmd.Flags().StringVar(&tokenDstPath, "dst-path", "", "Override the destination's challenge path")

	DestinationCmd.AddCommand(AddDestinationCmd)
	DestinationCmd.AddCommand(ListDestinationsCmd)
	DestinationCmd.AddCommand(ShowDestinationCmd)
	DestinationCmd.AddCommand(UpdateDestinationCmd)
	DestinationCmd.AddCommand(RemoveDestinationCmd)
	DestinationCmd.AddCommand(TestDestinationCmd)
	DestinationCmd.AddCommand(DeliverDestinationCmd)
	DestinationCmd.AddCommand(PushTokenDestinationCmd)
	DestinationCmd.AddCommand(WithdrawTokenDestinationCmd)
}
