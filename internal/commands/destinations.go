package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"certifire/internal/delivery"
	"certifire/internal/destinations"
	"certifire/internal/destinations/types"
	"certifire/internal/ssh"
)

// hint adds a next step for the failures users can fix themselves.
func hint(err error) string {
	switch {
	case ssh.IsAuthError(err):
		return "check the user, password or private key of the destination"
	case errors.Is(err, ssh.ErrKnownHosts):
		return "add the host to known_hosts or disable strict host key checking"
	case ssh.IsConfigError(err):
		return "set a password or a private key path on the destination"
	case ssh.IsConnectivityError(err):
		return "check that the host is reachable and sshd is listening on the configured port"
	case errors.Is(err, delivery.ErrTransfer):
		return "check that the SSH user may write to the remote directory"
	case errors.Is(err, destinations.ErrDestinationNotFound):
		return "run 'certifire destination list' to see registered destinations"
	}

	return ""
}

func reportError(errOut io.Writer, action string, err error) {
	printError(errOut, "%s: %v", action, err)

	if h := hint(err); h != "" {
		fmt.Fprintf(errOut, "  hint: %s\n", h)
	}
}

func authMethod(d *types.Destination) string {
	switch {
	case d.Password != "":
		return "password"
	case d.PrivateKeyPath != "":
		return "key"
	}

	return "none"
}

func (s *Service) DestinationAdd(ctx context.Context, dest *types.Destination, stdOut io.Writer, errOut io.Writer) bool {
	if !dest.SkipVerify {
		printInfo(stdOut, "Testing SSH connection to %s", dest.Host)
	}

	if err := s.Destinations.Create(ctx, dest); err != nil {
		reportError(errOut, "Failed to add destination", err)
		return false
	}

	printSuccess(stdOut, "Destination %d added: %s@%s:%d", dest.ID, dest.User, dest.Host, dest.Port)

	return true
}

func (s *Service) DestinationList(stdOut io.Writer, errOut io.Writer) bool {
	all, err := s.Destinations.Repository().GetAll()

	if err != nil {
		reportError(errOut, "Failed to list destinations", err)
		return false
	}

	if len(all) == 0 {
		fmt.Fprintf(stdOut, "No destinations registered.\nUse 'certifire destination add' to register one.\n")
		return true
	}

	table := make([][]string, 0, len(all))

	for _, d := range all {
		table = append(table, []string{
			strconv.FormatUint(uint64(d.ID), 10),
			d.Host,
			strconv.FormatUint(uint64(d.Port), 10),
			d.User,
			authMethod(d),
			string(d.ExportFormat),
			d.CertificateDir(),
			d.ChallengeDestinationPath,
		})
	}

	printTable(stdOut, []string{"ID", "HOST", "PORT", "USER", "AUTH", "FORMAT", "CERTIFICATES", "CHALLENGES"}, table)

	return true
}

func (s *Service) DestinationShow(id uint, stdOut io.Writer, errOut io.Writer) bool {
	dest, err := s.Destinations.Repository().Get(id)

	if err != nil {
		reportError(errOut, "Failed to get destination", err)
		return false
	}

	if err := printJSON(stdOut, dest); err != nil {
		reportError(errOut, "Failed to print destination", err)
		return false
	}

	return true
}

// DestinationUpdate merges update into destination id. A nil strict keeps
// the stored host key checking mode.
func (s *Service) DestinationUpdate(ctx context.Context, id uint, update *types.Destination, strict *bool, stdOut io.Writer, errOut io.Writer) bool {
	if strict == nil {
		existing, err := s.Destinations.Repository().Get(id)

		if err != nil {
			reportError(errOut, "Failed to update destination", err)
			return false
		}

		update.StrictHostKeyChecking = existing.StrictHostKeyChecking
	} else {
		update.StrictHostKeyChecking = *strict
	}

	updated, err := s.Destinations.Update(ctx, id, update)

	if err != nil {
		reportError(errOut, "Failed to update destination", err)
		return false
	}

	printSuccess(stdOut, "Destination %d updated: %s@%s:%d", updated.ID, updated.User, updated.Host, updated.Port)

	return true
}

func (s *Service) DestinationRemove(id uint, stdOut io.Writer, errOut io.Writer) bool {
	if err := s.Destinations.Delete(id); err != nil {
		reportError(errOut, "Failed to remove destination", err)
		return false
	}

	printSuccess(stdOut, "Destination %d removed (remote files were left in place)", id)

	return true
}

func (s *Service) DestinationTest(ctx context.Context, id uint, stdOut io.Writer, errOut io.Writer) bool {
	dest, err := s.Destinations.Repository().Get(id)

	if err != nil {
		reportError(errOut, "Failed to test destination", err)
		return false
	}

	printInfo(stdOut, "Testing SSH connection to %s@%s:%d", dest.User, dest.Host, dest.Port)

	if err := s.Delivery.TestConnection(ctx, dest); err != nil {
		reportError(errOut, "Connection failed", err)
		return false
	}

	printSuccess(stdOut, "SSH and SFTP are working")

	return true
}

// DeliverCertificate uploads PEM files read from the local disk. chainPath
// is optional.
func (s *Service) DeliverCertificate(ctx context.Context, id uint, keyPath, certPath, chainPath string, stdOut io.Writer, errOut io.Writer) bool {
	dest, err := s.Destinations.Repository().Get(id)

	if err != nil {
		reportError(errOut, "Failed to deliver certificate", err)
		return false
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		reportError(errOut, "Failed to read private key", err)
		return false
	}

	body, err := os.ReadFile(certPath)
	if err != nil {
		reportError(errOut, "Failed to read certificate", err)
		return false
	}

	var chain []byte
	if chainPath != "" {
		if chain, err = os.ReadFile(chainPath); err != nil {
			reportError(errOut, "Failed to read chain", err)
			return false
		}
	}

	if err := s.Delivery.DeliverCertificate(ctx, dest, key, body, chain); err != nil {
		reportError(errOut, "Failed to deliver certificate", err)
		return false
	}

	names := delivery.CertificateArtifacts(dest, key, body, chain).Names()
	printSuccess(stdOut, "Delivered %s to %s:%s", strings.Join(names, ", "), dest.Host, dest.CertificateDir())

	return true
}

func (s *Service) PushToken(ctx context.Context, id uint, tokenPath, token, dstPath string, stdOut io.Writer, errOut io.Writer) bool {
	dest, err := s.Destinations.Repository().Get(id)

	if err != nil {
		reportError(errOut, "Failed to push challenge token", err)
		return false
	}

	if err := s.Delivery.DeliverChallengeToken(ctx, dest, tokenPath, token, dstPath); err != nil {
		reportError(errOut, "Failed to push challenge token", err)
		return false
	}

	printSuccess(stdOut, "Challenge token %s written on %s", tokenPath, dest.Host)

	return true
}

func (s *Service) WithdrawToken(ctx context.Context, id uint, tokenPath, dstPath string, stdOut io.Writer, errOut io.Writer) bool {
	dest, err := s.Destinations.Repository().Get(id)

	if err != nil {
		reportError(errOut, "Failed to withdraw challenge token", err)
		return false
	}

	if err := s.Delivery.WithdrawChallengeToken(ctx, dest, tokenPath, dstPath); err != nil {
		reportError(errOut, "Failed to withdraw challenge token", err)
		return false
	}

	printSuccess(stdOut, "Challenge token %s removed from %s", tokenPath, dest.Host)

	return true
}

func (s *Service) CertificateIssue(ctx context.Context, id uint, domains []string, stdOut io.Writer, errOut io.Writer) bool {
	if s.Issuer == nil {
		printError(errOut, "ACME_EMAIL is not set, certificates can't be requested")
		return false
	}

	dest, err := s.Destinations.Repository().Get(id)

	if err != nil {
		reportError(errOut, "Failed to issue certificate", err)
		return false
	}

	result, err := s.Issuer.Issue(ctx, dest, domains)

	if err != nil {
		reportError(errOut, "Failed to issue certificate", err)
		return false
	}

	printSuccess(stdOut, "Certificate for %s delivered to %s:%s", strings.Join(result.Domains, ", "), dest.Host, dest.CertificateDir())

	return true
}
