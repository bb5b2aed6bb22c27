package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockInfluxServer records the line protocol bodies posted to /api/v2/write
func newMockInfluxServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()

	var (
		mu     sync.Mutex
		writes []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/write" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		writes = append(writes, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	return server, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), writes...)
	}
}

func TestArchiver_Archive(t *testing.T) {
	api := newMockAPIServer()
	defer api.Close()
	influx, writes := newMockInfluxServer(t)

	client := influxdb2.NewClient(influx.URL, "influx-token")
	defer client.Close()

	sites := connectMockSites(t, api, "roof")
	a := newArchiver(sites, client.WriteAPIBlocking("home", "solar"), time.Minute, discardLogger())

	require.NoError(t, a.archive(context.Background()))

	got := writes()
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "overview,site_id=4242,site_name=roof "), "line = %q", got[0])
	assert.Contains(t, got[0], "current_power=3150.5")
	assert.Contains(t, got[0], "lifetime_energy=761985.75")
}

func TestArchiver_ArchiveContinuesAfterSiteError(t *testing.T) {
	api := newMockAPIServer()
	defer api.Close()
	influx, writes := newMockInfluxServer(t)

	client := influxdb2.NewClient(influx.URL, "influx-token")
	defer client.Close()

	sites := []Site{
		{Name: "broken", Client: &fakeSite{id: "1", err: errors.New("timeout")}},
	}
	sites = append(sites, connectMockSites(t, api, "roof")...)
	a := newArchiver(sites, client.WriteAPIBlocking("home", "solar"), time.Minute, discardLogger())

	err := a.archive(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Len(t, writes(), 1)
}

func TestArchiver_RunStopsOnCancel(t *testing.T) {
	api := newMockAPIServer()
	defer api.Close()
	influx, writes := newMockInfluxServer(t)

	client := influxdb2.NewClient(influx.URL, "influx-token")
	defer client.Close()

	a := newArchiver(connectMockSites(t, api, "roof"), client.WriteAPIBlocking("home", "solar"), time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.run(ctx)
		close(done)
	}()

	// The first archive happens immediately
	require.Eventually(t, func() bool { return len(writes()) == 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not return after cancel")
	}
}
