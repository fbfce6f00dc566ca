package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proceduresCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sunatstock",
		Name:      "procedures_created_total",
		Help:      "Procedures committed with their item consumption.",
	})

	procedureRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sunatstock",
		Name:      "procedure_rejections_total",
		Help:      "Procedures rolled back, by reason.",
	}, []string{"reason"})

	itemsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sunatstock",
		Name:      "items_consumed_total",
		Help:      "Units consumed by procedures, by item category.",
	}, []string{"category"})

	restocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sunatstock",
		Name:      "items_restocked_total",
		Help:      "Units added by restocks, by item category.",
	}, []string{"category"})
)
