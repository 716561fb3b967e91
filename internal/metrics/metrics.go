package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Skip counters exist so selector drift on the portal side is visible as a
// growing rate instead of a silently shrinking sync.

var (
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_pages_fetched_total",
		Help: "Portal pages fetched, by page kind.",
	}, []string{"kind"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_fetch_errors_total",
		Help: "Failed portal fetches, by page kind.",
	}, []string{"kind"})

	RowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_rows_skipped_total",
		Help: "Parser rows/blocks dropped, by reason.",
	}, []string{"reason"})

	RecordsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_total",
		Help: "Sync record outcomes, by pipeline and outcome.",
	}, []string{"pipeline", "outcome"})

	PhotosMirrored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asset_photos_mirrored_total",
		Help: "Photos successfully mirrored to object storage.",
	})

	PhotoMirrorFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asset_photo_mirror_failures_total",
		Help: "Photo mirror attempts that failed (download or upload).",
	})

	AssetsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asset_orphans_pruned_total",
		Help: "Orphaned mirrored assets removed by the maintenance job.",
	})
)
