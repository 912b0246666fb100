package echo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var instructionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "echo",
	Name:      "instructions_total",
	Help:      "Echo program instructions processed, by instruction and result",
}, []string{"instruction", "result"})

func recordInstruction(name string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	instructionsProcessed.WithLabelValues(name, result).Inc()
}
