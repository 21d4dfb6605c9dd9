package types

import (
	"path"
	"strings"
	"time"

	_ "certifire/internal/encryption" // "secret" serializer
	"certifire/internal/ssh"
)

// ExportFormat selects how the certificate chain is laid out on the remote
// host. Stored values match the web servers that expect each layout.
type ExportFormat string

const (
	// ExportFormatBundled appends the chain to {host}.pem
	ExportFormatBundled ExportFormat = "NGINX"
	// ExportFormatSeparateChain writes the chain to {host}.ca.bundle.pem
	ExportFormatSeparateChain ExportFormat = "Apache"
)

func ParseExportFormat(s string) (ExportFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nginx", "bundled":
		return ExportFormatBundled, true
	case "apache", "separatechain", "separate-chain", "separate":
		return ExportFormatSeparateChain, true
	}

	return "", false
}

// Defaults holds the values given to fields a destination leaves empty.
type Defaults struct {
	Port            uint
	User            string
	ChallengePath   string
	CertificatePath string
	ExportFormat    ExportFormat
}

var StockDefaults = Defaults{
	Port:            ssh.DefaultPort,
	User:            "root",
	ChallengePath:   "/var/www/html",
	CertificatePath: "/etc/nginx/certs",
	ExportFormat:    ExportFormatBundled,
}

type Destination struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Host     string `gorm:"type:text;not null;index" json:"host"`
	Port     uint   `gorm:"type:integer;not null;default:22" json:"port"`
	User     string `gorm:"type:text;not null;default:root" json:"user"`
	Password string `gorm:"type:text;serializer:secret" json:"-"`

	PrivateKeyPath string `gorm:"type:text" json:"private_key_path,omitempty"`
	Passphrase     string `gorm:"type:text;serializer:secret" json:"-"`

	ChallengeDestinationPath   string       `gorm:"type:text;not null" json:"challenge_destination_path"`
	CertificateDestinationPath string       `gorm:"type:text;not null" json:"certificate_destination_path"`
	ExportFormat               ExportFormat `gorm:"type:text;not null" json:"export_format"`

	// SkipVerify stores the destination without a trial connection.
	SkipVerify bool `gorm:"not null;default:false" json:"skip_verify"`

	StrictHostKeyChecking bool   `gorm:"not null;default:false" json:"strict_host_key_checking"`
	KnownHostsPath        string `gorm:"type:text" json:"known_hosts_path,omitempty"`

	Domains string `gorm:"type:text" json:"domains,omitempty"`
	UserID  uint   `gorm:"index" json:"user_id,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updated_at"`
}

// ApplyDefaults fills unset fields from defaults.
func (d *Destination) ApplyDefaults(defaults Defaults) {
	if d.Port == 0 {
		d.Port = defaults.Port
	}

	if d.User == "" {
		d.User = defaults.User
	}

	if d.ChallengeDestinationPath == "" {
		d.ChallengeDestinationPath = defaults.ChallengePath
	}

	if d.CertificateDestinationPath == "" {
		d.CertificateDestinationPath = defaults.CertificatePath
	}

	if d.ExportFormat == "" {
		d.ExportFormat = defaults.ExportFormat
	}
}

// Merge copies every non-empty field of update onto d. SkipVerify and
// StrictHostKeyChecking always come from update.
func (d *Destination) Merge(update *Destination) {
	if update.Host != "" {
		d.Host = update.Host
	}

	if update.Port != 0 {
		d.Port = update.Port
	}

	if update.User != "" {
		d.User = update.User
	}

	if update.Password != "" {
		d.Password = update.Password
	}

	if update.PrivateKeyPath != "" {
		d.PrivateKeyPath = update.PrivateKeyPath
	}

	if update.Passphrase != "" {
		d.Passphrase = update.Passphrase
	}

	if update.ChallengeDestinationPath != "" {
		d.ChallengeDestinationPath = update.ChallengeDestinationPath
	}

	if update.CertificateDestinationPath != "" {
		d.CertificateDestinationPath = update.CertificateDestinationPath
	}

	if update.ExportFormat != "" {
		d.ExportFormat = update.ExportFormat
	}

	d.SkipVerify = update.SkipVerify
	d.StrictHostKeyChecking = update.StrictHostKeyChecking

	if update.KnownHostsPath != "" {
		d.KnownHostsPath = update.KnownHostsPath
	}

	if update.Domains != "" {
		d.Domains = update.Domains
	}

	if update.UserID != 0 {
		d.UserID = update.UserID
	}
}

// Credentials returns the connection settings for this destination.
func (d *Destination) Credentials() *ssh.Credentials {
	return &ssh.Credentials{
		Host:                  d.Host,
		Port:                  d.Port,
		Username:              d.User,
		Password:              d.Password,
		PrivateKeyPath:        d.PrivateKeyPath,
		Passphrase:            d.Passphrase,
		StrictHostKeyChecking: d.StrictHostKeyChecking,
		KnownHostsPath:        d.KnownHostsPath,
	}
}

// CertificateDir is the directory that receives this host's certificate
// artifacts.
func (d *Destination) CertificateDir() string {
	return path.Join(d.CertificateDestinationPath, d.Host)
}

func (d *Destination) HasCredentials() bool {
	return d.Password != "" || d.PrivateKeyPath != ""
}

// DomainList splits Domains on commas and whitespace. The host itself is
// used when no domains are recorded.
func (d *Destination) DomainList() []string {
	domains := strings.FieldsFunc(d.Domains, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})

	if len(domains) == 0 && d.Host != "" {
		return []string{d.Host}
	}

	return domains
}
