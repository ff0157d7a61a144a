/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type gameMetrics struct {
	played   *prometheus.CounterVec
	rejected *prometheus.CounterVec
	moves    prometheus.Histogram
	replays  prometheus.Counter
}

func newGameMetrics(reg prometheus.Registerer, gm *GameManager) *gameMetrics {
	m := &gameMetrics{
		played: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costars_games_total",
				Help: "Count of played games",
			},
			[]string{"outcome"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costars_games_rejected_total",
				Help: "Count of uploads that did not produce a game",
			},
			[]string{"reason"},
		),
		moves: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "costars_game_moves",
				Help:    "Number of names consumed before a game ended",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		replays: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "costars_replays_total",
				Help: "Count of replay sockets opened",
			},
		),
	}

	reg.MustRegister(
		m.played,
		m.rejected,
		m.moves,
		m.replays,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "costars_sessions",
				Help: "Current number of remembered games",
			},
			func() float64 { return float64(gm.count()) },
		),
	)

	return m
}

func registerMetricsHandler(cfg *Config, mux *httprouter.Router, reg *prometheus.Registry) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
}
