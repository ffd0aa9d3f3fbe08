package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	searchRequestsTotal  atomic.Uint64
	suggestRequestsTotal atomic.Uint64
	importRowsTotal      atomic.Uint64
	importRowErrorsTotal atomic.Uint64
	ocrRequestsTotal     atomic.Uint64

	importDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSearchRequest increments the catalog search counter.
func IncSearchRequest() {
	searchRequestsTotal.Add(1)
}

// IncSuggestRequest increments the suggestion counter.
func IncSuggestRequest() {
	suggestRequestsTotal.Add(1)
}

// AddImportRows adds processed row counts from a finished import.
func AddImportRows(total, failed uint64) {
	importRowsTotal.Add(total)
	importRowErrorsTotal.Add(failed)
}

// IncOCRRequest increments the OCR upload counter.
func IncOCRRequest() {
	ocrRequestsTotal.Add(1)
}

// ObserveImportDurationMs records an import duration in milliseconds.
func ObserveImportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	importDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "search_requests_total", "Total catalog search requests", searchRequestsTotal.Load())
	writeCounter(&buf, "suggest_requests_total", "Total autocomplete suggestion requests", suggestRequestsTotal.Load())
	writeCounter(&buf, "import_rows_total", "Total price rows processed by imports", importRowsTotal.Load())
	writeCounter(&buf, "import_row_errors_total", "Total price rows rejected by imports", importRowErrorsTotal.Load())
	writeCounter(&buf, "ocr_requests_total", "Total OCR uploads", ocrRequestsTotal.Load())
	writeHistogram(&buf, "import_duration_ms", "Import duration in milliseconds", importDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already fills every bucket a value fits in, so the counts
	// are cumulative as stored.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
