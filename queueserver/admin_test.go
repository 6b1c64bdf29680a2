package queueserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chn0318/logqueue/diskqueue"
	"github.com/chn0318/logqueue/mapservice"
	"github.com/chn0318/logqueue/sharedlog"
	"github.com/chn0318/logqueue/sharedlog/memorylog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRouter(t *testing.T) {
	q, err := diskqueue.Open(memorylog.NewMemoryLog(), tag, diskqueue.WithoutRecovery())
	require.NoError(t, err)
	defer q.Close()
	ms := mapservice.NewMapService()
	ms.ApplyCommit(12, []mapservice.CommitEntry{{Tag: tag, Ref: sharedlog.ShardlessRef(12)}})

	srv := httptest.NewServer(NewQueueService(q, ms).AdminRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["recovery_done"])
	assert.Equal(t, float64(12), body["max_commit_gsn"])

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
