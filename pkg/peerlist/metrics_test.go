package peerlist

import (
	"context"
	"testing"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := PrometheusMetrics(reg, "peerlist", "backend", "datastore")

	s := NewStore(NewDatastoreBackend(dssync.MutexWrap(ds.NewMapDatastore()), logging.Logger("test")), logging.Logger("test"), metrics)
	defer s.Close()

	for _, a := range []string{"a", "b", "a"} {
		_, err := s.Add(ctx, a)
		require.NoError(t, err)
	}
	_, err := s.Remove(ctx, "a")
	require.NoError(t, err)
	_, err = s.Remove(ctx, "a")
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			require.Len(t, m.GetLabel(), 1)
			assert.Equal(t, "backend", m.GetLabel()[0].GetName())
			assert.Equal(t, "datastore", m.GetLabel()[0].GetValue())
			switch {
			case m.Counter != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case m.Gauge != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.Histogram != nil:
				values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 2.0, values["peerlist_store_adds_total"])
	assert.Equal(t, 1.0, values["peerlist_store_removes_total"])
	assert.Equal(t, 2.0, values["peerlist_store_noops_total"])
	assert.Equal(t, 1.0, values["peerlist_store_members"])
	assert.Equal(t, 3.0, values["peerlist_store_save_duration_seconds"])
}

func TestNopMetrics(t *testing.T) {
	m := NopMetrics()
	m.Adds.Add(1)
	m.Members.Set(3)
	m.SaveTime.Observe(0.1)
}
