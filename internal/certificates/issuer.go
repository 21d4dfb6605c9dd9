package certificates

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"strings"

	"certifire/internal/delivery"
	"certifire/internal/destinations/types"
	"certifire/internal/logger"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
)

type Options struct {
	DirectoryURL string
	Email        string
	KeyType      certcrypto.KeyType
}

// Issuer obtains certificates over ACME HTTP-01, solving the challenge on
// the destination itself, and delivers the result to the same destination.
type Issuer struct {
	delivery        *delivery.Service
	options         Options
	clientFactory   clientFactory
	accountKeyMaker func() (crypto.PrivateKey, error)
}

type Result struct {
	Domains []string
	CertURL string
}

func NewIssuer(deliveryService *delivery.Service, options Options) (*Issuer, error) {
	options.Email = strings.TrimSpace(options.Email)

	if options.Email == "" {
		return nil, ErrEmailRequired
	}

	if options.DirectoryURL == "" {
		options.DirectoryURL = lego.LEDirectoryProduction
	}

	if options.KeyType == "" {
		options.KeyType = certcrypto.RSA2048
	}

	return &Issuer{
		delivery:      deliveryService,
		options:       options,
		clientFactory: defaultClientFactory,
		accountKeyMaker: func() (crypto.PrivateKey, error) {
			return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		},
	}, nil
}

// Issue requests a certificate for domains, or for dest's recorded domains
// when none are given, and uploads it to dest.
func (i *Issuer) Issue(ctx context.Context, dest *types.Destination, domains []string) (*Result, error) {
	if len(domains) == 0 {
		domains = dest.DomainList()
	}

	if len(domains) == 0 {
		return nil, ErrNoDomains
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accountKey, err := i.accountKeyMaker()
	if err != nil {
		return nil, fmt.Errorf("generate account key: %w", err)
	}

	user := &accountUser{email: i.options.Email, key: accountKey}

	legoCfg := lego.NewConfig(user)
	legoCfg.CADirURL = i.options.DirectoryURL
	legoCfg.Certificate.KeyType = i.options.KeyType

	client, err := i.clientFactory(legoCfg)
	if err != nil {
		return nil, fmt.Errorf("create acme client: %w", err)
	}

	provider := delivery.NewChallengeProvider(ctx, i.delivery, dest, "")

	if err := client.SetHTTP01Provider(provider); err != nil {
		return nil, fmt.Errorf("configure http-01 provider: %w", err)
	}

	reg, err := client.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	user.registration = reg

	logger.Info("Requesting certificate for %s via %s", strings.Join(domains, ", "), dest.Host)

	// Bundle stays off: the export format decides where the chain goes.
	res, err := client.Obtain(certificate.ObtainRequest{
		Domains: domains,
		Bundle:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("obtain certificate: %w", err)
	}

	if len(res.Certificate) == 0 || len(res.PrivateKey) == 0 {
		return nil, ErrEmptyCertificate
	}

	if err := i.delivery.DeliverCertificate(ctx, dest, res.PrivateKey, res.Certificate, res.IssuerCertificate); err != nil {
		return nil, err
	}

	return &Result{Domains: domains, CertURL: res.CertURL}, nil
}

type clientFactory func(*lego.Config) (acmeClient, error)

type acmeClient interface {
	Register(options registration.RegisterOptions) (*registration.Resource, error)
	SetHTTP01Provider(provider challenge.Provider) error
	Obtain(request certificate.ObtainRequest) (*certificate.Resource, error)
}

func defaultClientFactory(cfg *lego.Config) (acmeClient, error) {
	client, err := lego.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &legoClient{client: client}, nil
}

type legoClient struct {
	client *lego.Client
}

func (l *legoClient) Register(options registration.RegisterOptions) (*registration.Resource, error) {
	return l.client.Registration.Register(options)
}

func (l *legoClient) SetHTTP01Provider(provider challenge.Provider) error {
	return l.client.Challenge.SetHTTP01Provider(provider)
}

func (l *legoClient) Obtain(request certificate.ObtainRequest) (*certificate.Resource, error) {
	return l.client.Certificate.Obtain(request)
}

type accountUser struct {
	email        string
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *accountUser) GetEmail() string {
	return u.email
}

func (u *accountUser) GetRegistration() *registration.Resource {
	return u.registration
}

func (u *accountUser) GetPrivateKey() crypto.PrivateKey {
	return u.key
}
