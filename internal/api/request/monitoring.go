package request

import "net/url"

type CreateTargetRequest struct {
	IP    string `json:"ip" validate:"required_without=Host"`
	Host  string `json:"host" validate:"required_without=IP"`
	URL   string `json:"url"`
	BwURL string `json:"bw_url"`
}

func (r *CreateTargetRequest) BindForm(values url.Values) error {
	r.IP = values.Get("ip")
	r.Host = values.Get("host")
	r.URL = values.Get("url")
	r.BwURL = values.Get("bw_url")

	return nil
}

type CreateWorkerRequest struct {
	IP         string `json:"ip" validate:"required_without=Host"`
	Host       string `json:"host" validate:"required_without=IP"`
	Location   string `json:"location" validate:"required"`
	MonSelf    bool   `json:"mon_self"`
	CreateHost bool   `json:"create_host"`
	MonURL     string `json:"mon_url"`
	BwURL      string `json:"bw_url"`
}

func (r *CreateWorkerRequest) BindForm(values url.Values) error {
	r.IP = values.Get("ip")
	r.Host = values.Get("host")
	r.Location = values.Get("location")
	r.MonURL = values.Get("mon_url")
	r.BwURL = values.Get("bw_url")

	var err error

	if r.MonSelf, err = formBool(values, "mon_self"); err != nil {
		return err
	}

	if r.CreateHost, err = formBool(values, "create_host"); err != nil {
		return err
	}

	return nil
}

// MonitoringDataRequest carries line protocol; its content is not parsed.
type MonitoringDataRequest struct {
	Data string `json:"data" validate:"required"`
}
