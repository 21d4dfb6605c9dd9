package certificates

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"certifire/internal/delivery"
	"certifire/internal/destinations/types"
	"certifire/internal/ssh"
	"certifire/internal/ssh/sshtest"

	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	t            *testing.T
	srv          *sshtest.Server
	provider     challenge.Provider
	registered   bool
	tokenSeen    bool
	request      certificate.ObtainRequest
	obtainErr    error
	lastResource *certificate.Resource
}

func (s *stubClient) Register(registration.RegisterOptions) (*registration.Resource, error) {
	s.registered = true
	return &registration.Resource{}, nil
}

func (s *stubClient) SetHTTP01Provider(provider challenge.Provider) error {
	s.provider = provider
	return nil
}

// Obtain solves one HTTP-01 challenge through the configured provider the
// way lego does: Present, check, CleanUp.
func (s *stubClient) Obtain(request certificate.ObtainRequest) (*certificate.Resource, error) {
	s.request = request

	if s.obtainErr != nil {
		return nil, s.obtainErr
	}

	if err := s.provider.Present(request.Domains[0], "tok123", "tok123.thumb"); err != nil {
		return nil, err
	}

	data, err := s.srv.ReadFile(s.t, "/var/www/html/.well-known/acme-challenge/tok123")
	s.tokenSeen = err == nil && string(data) == "tok123.thumb"

	if err := s.provider.CleanUp(request.Domains[0], "tok123", "tok123.thumb"); err != nil {
		return nil, err
	}

	s.lastResource = &certificate.Resource{
		Domain:            request.Domains[0],
		CertURL:           "https://acme.test/cert/1",
		Certificate:       []byte("LEAF"),
		PrivateKey:        []byte("KEY"),
		IssuerCertificate: []byte("ISSUER"),
	}

	return s.lastResource, nil
}

func newTestIssuer(t *testing.T, stub *stubClient) *Issuer {
	t.Helper()

	deliveryService := delivery.NewService(delivery.NewSSHConnector(ssh.NewService()), delivery.Options{SSHTimeout: 5 * time.Second})

	issuer, err := NewIssuer(deliveryService, Options{Email: "admin@example.com", DirectoryURL: "https://acme.test/directory"})
	require.NoError(t, err)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	issuer.clientFactory = func(cfg *lego.Config) (acmeClient, error) {
		assert.Equal(t, "https://acme.test/directory", cfg.CADirURL)
		return stub, nil
	}
	issuer.accountKeyMaker = func() (crypto.PrivateKey, error) {
		return key, nil
	}

	return issuer
}

func testDestination(srv *sshtest.Server, format types.ExportFormat) *types.Destination {
	dest := &types.Destination{
		Host:         srv.Host,
		Port:         srv.Port,
		User:         sshtest.User,
		Password:     sshtest.Password,
		ExportFormat: format,
		Domains:      "example.com, www.example.com",
	}
	dest.ApplyDefaults(types.StockDefaults)

	return dest
}

func TestNewIssuer_RequiresEmail(t *testing.T) {
	_, err := NewIssuer(nil, Options{Email: "  "})
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestNewIssuer_Defaults(t *testing.T) {
	issuer, err := NewIssuer(nil, Options{Email: "admin@example.com"})
	require.NoError(t, err)

	assert.Equal(t, lego.LEDirectoryProduction, issuer.options.DirectoryURL)
	assert.NotEmpty(t, issuer.options.KeyType)
}

func TestIssue_SolvesChallengeAndDelivers(t *testing.T) {
	srv := sshtest.NewServer(t)
	stub := &stubClient{t: t, srv: srv}
	issuer := newTestIssuer(t, stub)

	dest := testDestination(srv, types.ExportFormatBundled)

	result, err := issuer.Issue(context.Background(), dest, nil)
	require.NoError(t, err)

	assert.True(t, stub.registered)
	assert.True(t, stub.tokenSeen)
	assert.False(t, stub.request.Bundle)
	assert.Equal(t, []string{"example.com", "www.example.com"}, stub.request.Domains)
	assert.Equal(t, []string{"example.com", "www.example.com"}, result.Domains)
	assert.Equal(t, "https://acme.test/cert/1", result.CertURL)

	assert.False(t, srv.Exists(t, "/var/www/html/.well-known/acme-challenge/tok123"))

	dir := "/etc/nginx/certs/" + srv.Host

	pem, err := srv.ReadFile(t, dir+"/"+srv.Host+".pem")
	require.NoError(t, err)
	assert.Equal(t, "LEAFISSUER", string(pem))

	key, err := srv.ReadFile(t, dir+"/"+srv.Host+".key")
	require.NoError(t, err)
	assert.Equal(t, "KEY", string(key))
}

func TestIssue_ExplicitDomains(t *testing.T) {
	srv := sshtest.NewServer(t)
	stub := &stubClient{t: t, srv: srv}
	issuer := newTestIssuer(t, stub)

	_, err := issuer.Issue(context.Background(), testDestination(srv, types.ExportFormatSeparateChain), []string{"api.example.com"})
	require.NoError(t, err)

	assert.Equal(t, []string{"api.example.com"}, stub.request.Domains)

	bundle, err := srv.ReadFile(t, "/etc/nginx/certs/"+srv.Host+"/"+srv.Host+".ca.bundle.pem")
	require.NoError(t, err)
	assert.Equal(t, "ISSUER", string(bundle))
}

func TestIssue_ObtainFailure(t *testing.T) {
	srv := sshtest.NewServer(t)
	stub := &stubClient{t: t, srv: srv, obtainErr: errors.New("rate limited")}
	issuer := newTestIssuer(t, stub)

	_, err := issuer.Issue(context.Background(), testDestination(srv, types.ExportFormatBundled), nil)

	require.Error(t, err)
	assert.ErrorContains(t, err, "rate limited")
	assert.False(t, srv.Exists(t, "/etc/nginx/certs/"+srv.Host+"/"+srv.Host+".pem"))
}

func TestIssue_CancelledContext(t *testing.T) {
	issuer, err := NewIssuer(nil, Options{Email: "admin@example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = issuer.Issue(ctx, &types.Destination{Host: "web1.example.com"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
