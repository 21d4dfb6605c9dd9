package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ExportFormat
		ok   bool
	}{
		{in: "", want: ExportFormatBundled, ok: true},
		{in: "NGINX", want: ExportFormatBundled, ok: true},
		{in: " bundled ", want: ExportFormatBundled, ok: true},
		{in: "Apache", want: ExportFormatSeparateChain, ok: true},
		{in: "separate-chain", want: ExportFormatSeparateChain, ok: true},
		{in: "caddy", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseExportFormat(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	dest := &Destination{Host: "web1.example.com", Port: 2222, CertificateDestinationPath: "/srv/certs"}
	dest.ApplyDefaults(StockDefaults)

	assert.Equal(t, uint(2222), dest.Port)
	assert.Equal(t, "root", dest.User)
	assert.Equal(t, "/var/www/html", dest.ChallengeDestinationPath)
	assert.Equal(t, "/srv/certs", dest.CertificateDestinationPath)
	assert.Equal(t, ExportFormatBundled, dest.ExportFormat)
	assert.Equal(t, "/srv/certs/web1.example.com", dest.CertificateDir())
}

func TestMerge(t *testing.T) {
	dest := &Destination{
		Host:                  "web1.example.com",
		Port:                  22,
		User:                  "root",
		Password:              "old",
		SkipVerify:            true,
		StrictHostKeyChecking: true,
	}

	dest.Merge(&Destination{User: "deploy", Port: 2222})

	assert.Equal(t, "web1.example.com", dest.Host)
	assert.Equal(t, uint(2222), dest.Port)
	assert.Equal(t, "deploy", dest.User)
	assert.Equal(t, "old", dest.Password)
	assert.False(t, dest.SkipVerify)
	assert.False(t, dest.StrictHostKeyChecking)
}

func TestCredentials(t *testing.T) {
	dest := &Destination{Host: "web1.example.com", Port: 2222, User: "deploy", PrivateKeyPath: "/keys/id_ed25519", Passphrase: "pp"}

	creds := dest.Credentials()

	assert.Equal(t, "web1.example.com:2222", creds.Address())
	assert.Equal(t, "deploy", creds.Username)
	assert.Equal(t, "pp", creds.Passphrase)
	assert.True(t, dest.HasCredentials())
	assert.False(t, (&Destination{Host: "x"}).HasCredentials())
}

func TestDomainList(t *testing.T) {
	assert.Equal(t, []string{"example.com", "www.example.com"}, (&Destination{Domains: "example.com, www.example.com"}).DomainList())
	assert.Equal(t, []string{"web1.example.com"}, (&Destination{Host: "web1.example.com"}).DomainList())
	assert.Empty(t, (&Destination{}).DomainList())
}
