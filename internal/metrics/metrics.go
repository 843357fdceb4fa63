package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "school_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"result"})

	ActiveSessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "school_sessions_swept_total",
		Help: "Expired sessions removed by the background sweep.",
	})

	ContactMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "school_contact_messages_total",
		Help: "Contact form submissions by outcome.",
	}, []string{"result"})
)
