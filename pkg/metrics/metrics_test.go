package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)

	DocumentOps.WithLabelValues("list", "ok").Inc()
	CatalogSize.Set(5)

	n, err := testutil.GatherAndCount(reg, "doclab_document_operations_total", "doclab_catalog_documents")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 5.0, testutil.ToFloat64(CatalogSize))

	require.Panics(t, func() { RegisterCollectors(reg) }, "collectors are registered once")
}
