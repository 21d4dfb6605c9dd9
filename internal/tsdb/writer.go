package tsdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

var (
	ErrEmptyData = errors.New("no line protocol data supplied")
	ErrWrite     = errors.New("time-series write failed")
)

// Writer stores line protocol records.
type Writer interface {
	Write(ctx context.Context, lineProtocol string) error
	Close()
}

// InfluxWriter writes to an InfluxDB v2 bucket and waits for the server to
// acknowledge each write.
type InfluxWriter struct {
	client influxdb2.Client
	org    string
	bucket string
}

func NewInfluxWriter(url, token, org, bucket string) *InfluxWriter {
	return &InfluxWriter{
		client: influxdb2.NewClient(url, token),
		org:    org,
		bucket: bucket,
	}
}

// Write sends lineProtocol as is; its format is not inspected.
func (w *InfluxWriter) Write(ctx context.Context, lineProtocol string) error {
	if strings.TrimSpace(lineProtocol) == "" {
		return ErrEmptyData
	}

	if err := w.client.WriteAPIBlocking(w.org, w.bucket).WriteRecord(ctx, lineProtocol); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}

func (w *InfluxWriter) Close() {
	w.client.Close()
}
