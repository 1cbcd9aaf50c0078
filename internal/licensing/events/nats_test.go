package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	drained  bool
	down     bool
}

func (f *fakeConn) IsConnected() bool { return !f.down }

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subj)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestNATSPublisherPublish(t *testing.T) {
	conn := &fakeConn{}
	p := &NATSPublisher{conn: conn, prefix: DefaultSubjectPrefix}

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Type:       TypeTenantActivated,
		LicenseID:  "lic",
		TenantID:   "ten",
		Username:   "acme@x.com",
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"licensing.tenant.activated"}, conn.subjects)

	var got Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	require.Equal(t, "ten", got.TenantID)
	require.True(t, at.Equal(got.OccurredAt))

	require.NoError(t, p.Close())
	require.True(t, conn.drained)
}

func TestNATSPublisherStampsTime(t *testing.T) {
	conn := &fakeConn{}
	p := &NATSPublisher{conn: conn, prefix: "x."}

	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeLicenseIssued}))

	var got Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	require.False(t, got.OccurredAt.IsZero())
	require.Equal(t, "x.license.issued", conn.subjects[0])
}

func TestNATSPublisherErrors(t *testing.T) {
	p := &NATSPublisher{conn: &fakeConn{err: errors.New("nats: connection closed")}, prefix: DefaultSubjectPrefix}
	require.ErrorContains(t, p.Publish(context.Background(), Event{Type: TypeLicenseExpired}), "licensing.license.expired")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Publish(ctx, Event{Type: TypeLicenseExpired}), context.Canceled)
}

func TestMemoryPublisher(t *testing.T) {
	var m MemoryPublisher
	require.NoError(t, m.Publish(context.Background(), Event{Type: TypeLicenseIssued}))
	require.NoError(t, m.Publish(context.Background(), Event{Type: TypeTenantActivated}))

	require.Len(t, m.Events(), 2)
	require.Len(t, m.OfType(TypeTenantActivated), 1)
	require.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}

func TestNATSPublisherHealthy(t *testing.T) {
	conn := &fakeConn{}
	p := &NATSPublisher{conn: conn, prefix: DefaultSubjectPrefix}
	require.NoError(t, p.Healthy())

	conn.down = true
	require.Error(t, p.Healthy())
}
