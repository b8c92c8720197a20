// Package metrics provides the HTTP-facing metrics the server middleware
// records on every request, on top of github.com/VictoriaMetrics/metrics.
package metrics

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lifelockgo/lifelock/pkg/prometheus/metrics/keyword"
	"github.com/lifelockgo/lifelock/pkg/synced"
)

// Meter is the recording surface the HTTP middleware depends on.
type Meter interface {
	IncTotal(path, method, status string)
	IncStatus(path, method, status string)
	NewResponseTimeTimer(path, method string) *Timer
	FlushResponseTimeTimer(t *Timer)
}

type Metrics struct{}

func New() (*Metrics, error) {
	return &Metrics{}, nil
}

var statuses [600]string

func init() {
	for i := 100; i <= 599; i++ {
		statuses[i] = strconv.Itoa(i)
	}
}

func (m *Metrics) IncTotal(path, method, status string) {
	safePath, safeMethod := sanitize(path), sanitize(method)

	if status != "" {
		statusCode, err := strconv.Atoi(status)
		if err != nil || statusCode < 100 || statusCode >= len(statuses) {
			return
		}
		safeStatus := statuses[statusCode]

		buf := getBuf()
		defer putBuf(buf)

		*buf = append(*buf, keyword.HttpResponseStatusesMetricName...)
		*buf = append(*buf, `{path="`...)
		*buf = append(*buf, safePath...)
		*buf = append(*buf, `",method="`...)
		*buf = append(*buf, safeMethod...)
		*buf = append(*buf, `",status="`...)
		*buf = append(*buf, safeStatus...)
		*buf = append(*buf, `"}`...)

		metrics.GetOrCreateCounter(string(*buf)).Inc()
		return
	}

	buf := getBuf()
	defer putBuf(buf)

	*buf = append(*buf, keyword.TotalHttpRequestsMetricName...)
	*buf = append(*buf, `{path="`...)
	*buf = append(*buf, safePath...)
	*buf = append(*buf, `",method="`...)
	*buf = append(*buf, safeMethod...)
	*buf = append(*buf, `"}`...)

	metrics.GetOrCreateCounter(string(*buf)).Inc()
}

func (m *Metrics) IncStatus(path, method, status string) {
	statusCode, err := strconv.Atoi(status)
	if err != nil || statusCode < 100 || statusCode >= len(statuses) {
		return
	}
	safePath := sanitize(path)
	safeMethod := sanitize(method)
	safeStatus := statuses[statusCode]

	buf := getBuf()
	defer putBuf(buf)

	*buf = append(*buf, keyword.HttpResponseStatusesMetricName...)
	*buf = append(*buf, `{path="`...)
	*buf = append(*buf, safePath...)
	*buf = append(*buf, `",method="`...)
	*buf = append(*buf, safeMethod...)
	*buf = append(*buf, `",status="`...)
	*buf = append(*buf, safeStatus...)
	*buf = append(*buf, `"}`...)

	metrics.GetOrCreateCounter(string(*buf)).Inc()
}

// Timer tracks an in-flight request's start time for later flushing into a
// histogram, pooled to avoid an allocation per request.
type Timer struct {
	start time.Time
	buf   *bytes.Buffer
}

var timerPool = synced.NewBatchPool(func() *Timer {
	return &Timer{buf: bytes.NewBuffer(make([]byte, 0, 128))}
})

func (m *Metrics) NewResponseTimeTimer(path, method string) *Timer {
	safePath, safeMethod := sanitize(path), sanitize(method)

	t := timerPool.Get()
	t.start = time.Now()
	t.buf.Reset()

	t.buf.WriteString(keyword.HttpResponseTimeMsMetricName)
	t.buf.WriteString(`{path="`)
	t.buf.WriteString(safePath)
	t.buf.WriteString(`",method="`)
	t.buf.WriteString(safeMethod)
	t.buf.WriteString(`"}`)

	return t
}

func (m *Metrics) FlushResponseTimeTimer(t *Timer) {
	durationMs := float64(time.Since(t.start).Milliseconds())
	metrics.GetOrCreateHistogram(t.buf.String()).Update(durationMs)
	timerPool.Put(t)
}

func sanitize(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

var bufPool = synced.NewBatchPool(func() *[]byte {
	b := make([]byte, 0, 256)
	return &b
})

func getBuf() *[]byte {
	return bufPool.Get()
}

func putBuf(b *[]byte) {
	*b = (*b)[:0]
	bufPool.Put(b)
}
