// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// フィードクライアントとブックマークストアの呼び出し側から利用する。
type Recorder interface {
	RecordFetchSuccess(page int)
	RecordFetchFailure(page int, reason string)
	RecordDecodeFailure(page int)
	RecordHTTPStatus(statusCode int)
	RecordFetchLatency(duration time.Duration)
	RecordJobsFetched(count int)
	RecordBookmarkWrite(op string)
	RecordBookmarkWriteFailure(op string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	fetchSuccess      prometheus.Counter
	fetchFail         prometheus.Counter
	decodeFail        prometheus.Counter
	httpStatus        *prometheus.CounterVec
	fetchLatency      prometheus.Histogram
	jobsFetched       prometheus.Counter
	bookmarkWrites    *prometheus.CounterVec
	bookmarkWriteFail *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "getlokal_feed_fetch_success_total",
			Help: "求人フィードページ取得成功の合計数",
		}),
		fetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "getlokal_feed_fetch_fail_total",
			Help: "求人フィードページ取得失敗の合計数",
		}),
		decodeFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "getlokal_feed_decode_fail_total",
			Help: "求人フィードレスポンスのデコード失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "getlokal_feed_http_status_total",
			Help: "求人フィードAPIのHTTPステータスコード別レスポンス数",
		}, []string{"status_code"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "getlokal_feed_fetch_latency_seconds",
			Help:    "求人フィードページ取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		jobsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "getlokal_feed_jobs_fetched_total",
			Help: "取得した求人の合計数",
		}),
		bookmarkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "getlokal_bookmark_writes_total",
			Help: "ブックマーク書き込み操作の合計数",
		}, []string{"op"}),
		bookmarkWriteFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "getlokal_bookmark_write_fail_total",
			Help: "ブックマーク書き込み失敗の合計数",
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.fetchSuccess,
		c.fetchFail,
		c.decodeFail,
		c.httpStatus,
		c.fetchLatency,
		c.jobsFetched,
		c.bookmarkWrites,
		c.bookmarkWriteFail,
	)

	return c
}

// RecordFetchSuccess はフィードページ取得成功を記録する。
func (c *Collector) RecordFetchSuccess(page int) {
	c.fetchSuccess.Inc()
}

// RecordFetchFailure はフィードページ取得失敗を記録する。
func (c *Collector) RecordFetchFailure(page int, reason string) {
	c.fetchFail.Inc()
}

// RecordDecodeFailure はレスポンスのデコード失敗を記録する。
func (c *Collector) RecordDecodeFailure(page int) {
	c.decodeFail.Inc()
}

// RecordHTTPStatus はフィードAPIのHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordFetchLatency はページ取得のレイテンシを記録する。
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordJobsFetched は取得した求人数を記録する。
func (c *Collector) RecordJobsFetched(count int) {
	c.jobsFetched.Add(float64(count))
}

// RecordBookmarkWrite はブックマーク書き込み操作を記録する。
func (c *Collector) RecordBookmarkWrite(op string) {
	c.bookmarkWrites.WithLabelValues(op).Inc()
}

// RecordBookmarkWriteFailure はブックマーク書き込み失敗を記録する。
func (c *Collector) RecordBookmarkWriteFailure(op string) {
	c.bookmarkWriteFail.WithLabelValues(op).Inc()
}

// SetupMetricsRoute は/metricsエンドポイントのハンドラーを返す。
func SetupMetricsRoute(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

// compile-time interface check
var _ Recorder = (*Collector)(nil)
