package types

// Target is an endpoint probed by monitoring workers.
type Target struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	IP    string `gorm:"type:varchar(32)" json:"ip"`
	Host  string `gorm:"type:text" json:"host"`
	URL   string `gorm:"type:text" json:"url"`
	BwURL string `gorm:"type:text" json:"bw_url"`
}

func (Target) TableName() string {
	return "mon_targets"
}

// DefaultURL is used when a target is created without a URL.
func (t *Target) DefaultURL() string {
	if t.Host != "" {
		return "http://" + t.Host
	}

	return "http://" + t.IP
}
