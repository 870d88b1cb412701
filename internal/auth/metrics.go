package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_rejections_total",
		Help: "Rejected authentication attempts by reason",
	},
	[]string{"reason"},
)

func recordRejection(err error) {
	rejections.WithLabelValues(Reason(err)).Inc()
}

// RecordRejection counts a rejection raised outside the Authenticator, such
// as a failed login or a capability gate.
func RecordRejection(err error) {
	recordRejection(err)
}
