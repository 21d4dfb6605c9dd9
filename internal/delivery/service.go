package delivery

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"certifire/internal/destinations/types"
	"certifire/internal/logger"
	"certifire/internal/metrics"
	"certifire/internal/ssh"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	OpDeliverCertificate = "deliver_certificate"
	OpDeliverChallenge   = "deliver_challenge_token"
	OpWithdrawChallenge  = "withdraw_challenge_token"
)

type Options struct {
	// SSHTimeout applies to destinations without their own timeout.
	SSHTimeout time.Duration
	// KnownHostsPath is used for strict destinations that don't name a file.
	KnownHostsPath string
}

// Service delivers certificates and ACME HTTP-01 tokens to destinations.
//
// Each call opens its own session and releases it before returning. Calls
// for different destinations are independent. Calls that target the same
// host and path are not coordinated; callers that need them ordered must
// serialize them.
type Service struct {
	connector Connector
	options   Options
}

func NewService(connector Connector, options Options) *Service {
	return &Service{connector: connector, options: options}
}

// CertificateArtifacts lays out a certificate for dest's export format.
func CertificateArtifacts(dest *types.Destination, privateKey, body, chain []byte) Artifacts {
	pem := append([]byte{}, body...)

	artifacts := Artifacts{
		{Name: dest.Host + ".key", Content: append([]byte{}, privateKey...)},
	}

	var bundle []byte

	if len(chain) > 0 {
		switch dest.ExportFormat {
		case types.ExportFormatBundled:
			pem = append(pem, chain...)
		case types.ExportFormatSeparateChain:
			bundle = append([]byte{}, chain...)
		}
	}

	artifacts = append(artifacts, Artifact{Name: dest.Host + ".pem", Content: pem})

	if bundle != nil {
		artifacts = append(artifacts, Artifact{Name: dest.Host + ".ca.bundle.pem", Content: bundle})
	}

	return artifacts
}

// ChallengeLocation resolves where a token file lives: the override
// directory or the destination's challenge path, joined with tokenPath.
func ChallengeLocation(dest *types.Destination, tokenPath, overrideDir string) (string, string, error) {
	sub := strings.TrimPrefix(tokenPath, "/")

	if strings.Trim(sub, "/") == "" {
		return "", "", ErrMissingToken
	}

	base := overrideDir
	if base == "" {
		base = dest.ChallengeDestinationPath
	}

	full := path.Join(base, sub)

	return path.Dir(full), path.Base(full), nil
}

// DeliverCertificate uploads the key and certificate files into
// certificate_destination_path/host.
func (s *Service) DeliverCertificate(ctx context.Context, dest *types.Destination, privateKey, body, chain []byte) error {
	if len(privateKey) == 0 || len(body) == 0 {
		return ErrMissingCertificate
	}

	dir := dest.CertificateDir()
	artifacts := CertificateArtifacts(dest, privateKey, body, chain)

	return s.run(ctx, OpDeliverCertificate, dest, func(ctx context.Context, fs RemoteFS, log zerolog.Logger) error {
		if err := EnsurePath(ctx, fs, dir); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("destination path is incomplete, continuing")
		}

		return Put(ctx, fs, dir, artifacts)
	})
}

// DeliverChallengeToken writes token under tokenPath so the ACME server can
// fetch it over HTTP.
func (s *Service) DeliverChallengeToken(ctx context.Context, dest *types.Destination, tokenPath, token, overrideDir string) error {
	dir, name, err := ChallengeLocation(dest, tokenPath, overrideDir)

	if err != nil {
		return err
	}

	artifacts := Artifacts{{Name: name, Content: append([]byte{}, token...)}}

	return s.run(ctx, OpDeliverChallenge, dest, func(ctx context.Context, fs RemoteFS, log zerolog.Logger) error {
		if err := EnsurePath(ctx, fs, dir); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("challenge path is incomplete, continuing")
		}

		return Put(ctx, fs, dir, artifacts)
	})
}

// WithdrawChallengeToken removes a token written by DeliverChallengeToken.
// The directory is not materialized.
func (s *Service) WithdrawChallengeToken(ctx context.Context, dest *types.Destination, tokenPath, overrideDir string) error {
	dir, name, err := ChallengeLocation(dest, tokenPath, overrideDir)

	if err != nil {
		return err
	}

	return s.run(ctx, OpWithdrawChallenge, dest, func(ctx context.Context, fs RemoteFS, _ zerolog.Logger) error {
		return Remove(ctx, fs, dir, []string{name})
	})
}

// TestConnection opens and closes a session to dest.
func (s *Service) TestConnection(ctx context.Context, dest *types.Destination) error {
	session, err := s.connector.Open(ctx, s.credentials(dest))

	if err != nil {
		return err
	}

	if err := session.Close(); err != nil {
		logger.Warn("Couldn't close session to %s: %v", dest.Host, err)
	}

	return nil
}

func (s *Service) credentials(dest *types.Destination) *ssh.Credentials {
	creds := dest.Credentials()

	if creds.Timeout == 0 {
		creds.Timeout = s.options.SSHTimeout
	}

	if creds.StrictHostKeyChecking && creds.KnownHostsPath == "" {
		creds.KnownHostsPath = s.options.KnownHostsPath
	}

	return creds
}

// run owns the session for one operation. Connection errors are returned
// as is; anything that fails afterwards becomes a *TransferError.
func (s *Service) run(ctx context.Context, operation string, dest *types.Destination, fn func(context.Context, RemoteFS, zerolog.Logger) error) (err error) {
	started := time.Now()

	log := logger.Get().With().
		Str("component", "delivery").
		Str("operation", operation).
		Str("operation_id", uuid.NewString()).
		Str("host", dest.Host).
		Logger()

	defer func() {
		metrics.ObserveDelivery(operation, started, err)
	}()

	log.Info().Msg("starting")

	session, err := s.connector.Open(ctx, s.credentials(dest))

	if err != nil {
		log.Error().Err(err).Msg("couldn't open session")
		return err
	}

	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("couldn't close session")
		}
	}()

	if err = fn(ctx, session, log); err != nil {
		log.Error().Err(err).Msg("failed")
		return asTransferError(dest.Host, operation, err)
	}

	log.Info().Dur("elapsed", time.Since(started)).Msg("done")

	return nil
}

func asTransferError(host, operation string, err error) error {
	var transferErr *TransferError

	if errors.As(err, &transferErr) {
		if transferErr.Host == "" {
			transferErr.Host = host
		}

		return transferErr
	}

	return &TransferError{Host: host, Op: operation, Err: err}
}
