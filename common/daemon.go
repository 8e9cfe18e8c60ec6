package common

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	logger "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	"go.opentelemetry.io/otel/sdk/metric/export/aggregation"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var log = logger.Logger("common")

// SetupInstrumentation starts a metrics endpoint.
func SetupInstrumentation(prometheusAddr string) error {
	config := prometheus.Config{
		// Durations in millis; block confirmations take seconds.
		DefaultHistogramBoundaries: []float64{1, 10, 100, 1000, 5000, 15000, 60000},
	}
	c := controller.New(
		processor.NewFactory(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			aggregation.CumulativeTemporalitySelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return fmt.Errorf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())
	mux := instrumentationMux(exporter.ServeHTTP)
	go func() {
		if err := http.ListenAndServe(prometheusAddr, mux); err != nil {
			log.Errorf("serving metrics: %s", err)
		}
	}()

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return fmt.Errorf("starting Go runtime metrics: %s", err)
	}

	return nil
}

func instrumentationMux(metrics http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metrics)
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// HTTPLoggerMiddleware logs any server error produced by processing requests, and
// catches/recovers from panics.
func HTTPLoggerMiddleware(log *logger.ZapEventLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			// Recover from any panic caused by this request processing.
			defer func() {
				if rec := recover(); rec != nil {
					log.Errorf("panic: %s %s: %s", r.Method, r.URL.Path, rec)
					if !rw.wrote {
						http.Error(rw, fmt.Sprintf("panic: %s", rec), http.StatusInternalServerError)
					}
				}
			}()

			start := time.Now()
			next.ServeHTTP(rw, r)
			if rw.status >= http.StatusInternalServerError {
				log.Errorf("%s %s: %d in %s", r.Method, r.URL.Path, rw.status, time.Since(start))
				return
			}
			log.Debugf("%s %s: %d in %s", r.Method, r.URL.Path, rw.status, time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.wrote = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wrote = true
	return sr.ResponseWriter.Write(b)
}

// Hijack lets websocket upgrades through the recorder.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer doesn't support hijacking")
	}
	sr.wrote = true
	return h.Hijack()
}
