package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sketchit_rooms_active",
		Help: "Rooms currently held in the registry.",
	})

	RoundsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sketchit_rounds_ended_total",
		Help: "Rounds ended, by reason.",
	}, []string{"reason"})

	CorrectGuesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sketchit_correct_guesses_total",
		Help: "Guesses that matched the current word.",
	})

	GamesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sketchit_games_completed_total",
		Help: "Games that reached their final round.",
	})

	DroppedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sketchit_dropped_messages_total",
		Help: "Outbound messages dropped because a queue was full.",
	}, []string{"queue"})

	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sketchit_connections_active",
		Help: "Open websocket connections.",
	})
)
