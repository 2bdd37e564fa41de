// Package metrics регистрирует метрики Prometheus ядра.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntitlementChecks считает решения о доступе к возможностям.
	EntitlementChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "techvogue",
		Name:      "entitlement_checks_total",
		Help:      "Entitlement decisions by feature and result.",
	}, []string{"feature", "result"})

	// StoreRecoveries считает восстановления после повреждённого текста в хранилище.
	// kind: collection - сброшена вся коллекция, record - помещена в карантин одна запись.
	StoreRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "techvogue",
		Name:      "store_recoveries_total",
		Help:      "Corrupt stored records recovered by the record store.",
	}, []string{"collection", "kind"})

	// HTTPRequests считает запросы к локальному API.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "techvogue",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	// ExternalCalls считает вызовы внешних сервисов.
	ExternalCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "techvogue",
		Name:      "external_calls_total",
		Help:      "Calls to external services by client and outcome.",
	}, []string{"client", "outcome"})
)
