package request

type CreateDestinationRequest struct {
	Host                       string `json:"host" validate:"required,hostname_rfc1123|ip"`
	Port                       uint   `json:"port" validate:"omitempty,min=1,max=65535"`
	User                       string `json:"user"`
	Password                   string `json:"password"`
	PrivateKeyPath             string `json:"private_key_path"`
	Passphrase                 string `json:"passphrase"`
	ChallengeDestinationPath   string `json:"challenge_destination_path"`
	CertificateDestinationPath string `json:"certificate_destination_path"`
	ExportFormat               string `json:"export_format"`
	SkipVerify                 bool   `json:"skip_verify"`
	StrictHostKeyChecking      bool   `json:"strict_host_key_checking"`
	KnownHostsPath             string `json:"known_hosts_path"`
	Domains                    string `json:"domains"`
}

// UpdateDestinationRequest only overwrites non-empty fields. A nil
// StrictHostKeyChecking keeps the stored value.
type UpdateDestinationRequest struct {
	Host                       string `json:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port                       uint   `json:"port" validate:"omitempty,min=1,max=65535"`
	User                       string `json:"user"`
	Password                   string `json:"password"`
	PrivateKeyPath             string `json:"private_key_path"`
	Passphrase                 string `json:"passphrase"`
	ChallengeDestinationPath   string `json:"challenge_destination_path"`
	CertificateDestinationPath string `json:"certificate_destination_path"`
	ExportFormat               string `json:"export_format"`
	SkipVerify                 bool   `json:"skip_verify"`
	StrictHostKeyChecking      *bool  `json:"strict_host_key_checking"`
	KnownHostsPath             string `json:"known_hosts_path"`
	Domains                    string `json:"domains"`
}

type DeliverCertificateRequest struct {
	PrivateKey string `json:"private_key" validate:"required"`
	Body       string `json:"body" validate:"required"`
	Chain      string `json:"chain"`
}

type ChallengeTokenRequest struct {
	TokenPath string `json:"token_path" validate:"required"`
	Token     string `json:"token" validate:"required"`
	DstPath   string `json:"dst_path"`
}

type WithdrawChallengeTokenRequest struct {
	TokenPath string `json:"token_path" validate:"required"`
	DstPath   string `json:"dst_path"`
}
