package tasks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	calls chan time.Duration
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.calls <- retention
	return 0, nil
}

type fakeReferencer struct {
	paths []string
}

func (f *fakeReferencer) ImagePaths() ([]string, error) {
	return f.paths, nil
}

type fakeSweeper struct {
	calls chan []string
}

func (f *fakeSweeper) SweepOrphans(referenced []string) (int, error) {
	f.calls <- referenced
	return len(referenced), nil
}

func startTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), Config{Workers: 1})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCleanupAuditEventsQueue(t *testing.T) {
	cleaner := &fakeCleaner{calls: make(chan time.Duration, 1)}

	client := startTestClient(t)
	client.Register(NewCleanupAuditEventsQueue(cleaner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	_, err := client.Add(CleanupAuditEventsTask{RetentionDays: 7}).Save()
	require.NoError(t, err)

	select {
	case retention := <-cleaner.calls:
		assert.Equal(t, 7*24*time.Hour, retention)
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task did not run")
	}
}

func TestCleanupAuditEventsQueue_DefaultRetention(t *testing.T) {
	cleaner := &fakeCleaner{calls: make(chan time.Duration, 1)}

	client := startTestClient(t)
	client.Register(NewCleanupAuditEventsQueue(cleaner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	// Zero retention falls back to 30 days
	_, err := client.Add(CleanupAuditEventsTask{}).Save()
	require.NoError(t, err)

	select {
	case retention := <-cleaner.calls:
		assert.Equal(t, 30*24*time.Hour, retention)
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task did not run")
	}
}

func TestSweepOrphanUploadsQueue(t *testing.T) {
	referencer := &fakeReferencer{paths: []string{"/uploads/services/a.jpg"}}
	sweeper := &fakeSweeper{calls: make(chan []string, 1)}

	client := startTestClient(t)
	client.Register(NewSweepOrphanUploadsQueue(referencer, sweeper))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	_, err := client.Add(SweepOrphanUploadsTask{}).Save()
	require.NoError(t, err)

	select {
	case referenced := <-sweeper.calls:
		assert.Equal(t, []string{"/uploads/services/a.jpg"}, referenced)
	case <-time.After(5 * time.Second):
		t.Fatal("sweep task did not run")
	}
}
