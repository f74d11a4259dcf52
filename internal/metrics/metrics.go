// Package metrics exposes the player's Prometheus counters.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mind-engage/courseplayer/internal/progress"
)

type Metrics struct {
	reg *prometheus.Registry

	Submissions  *prometheus.CounterVec // by result: passed|failed
	SeekClamps   prometheus.Counter
	VideosEnded  prometheus.Counter
	SaveFailures prometheus.Counter
	Saves        prometheus.Counter
	MediaResolve *prometheus.CounterVec // by outcome: ok|error
	Sessions     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courseplayer_submissions_total",
			Help: "Exercise submissions by result.",
		}, []string{"result"}),
		SeekClamps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courseplayer_seek_clamps_total",
			Help: "Seeks snapped back to the watermark.",
		}),
		VideosEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courseplayer_videos_ended_total",
			Help: "Videos watched to the end.",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courseplayer_progress_save_failures_total",
			Help: "Progress writes the document store rejected.",
		}),
		Saves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courseplayer_progress_saved_total",
			Help: "Successful progress writes.",
		}),
		MediaResolve: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courseplayer_media_resolve_total",
			Help: "Media reference resolutions by outcome.",
		}, []string{"outcome"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courseplayer_sessions",
			Help: "Open player sessions.",
		}),
	}
	m.reg.MustRegister(m.Submissions, m.SeekClamps, m.VideosEnded, m.SaveFailures, m.Saves, m.MediaResolve, m.Sessions)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ProgressSaved satisfies progress.Notifier.
func (m *Metrics) ProgressSaved(context.Context, string, string, progress.Stats) error {
	m.Saves.Inc()
	return nil
}
