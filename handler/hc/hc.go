package hc

import (
	"net/http"
	"time"

	"lendpool/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

// PingFunc adapts a function to Pinger
type PingFunc func() error

func (f PingFunc) Ping() error {
	return f()
}

// Handle handle hc request
func Handle(ver string, pingers ...Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, pingers))
	return r
}

func handle(version string, pingers []Pinger) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		for _, p := range pingers {
			if err := p.Ping(); err != nil {
				render.Error(w, err)
				return
			}
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
		})
	}
}
