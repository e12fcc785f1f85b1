package handler

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/render"
	"lendpool/handler/rest"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	ledger       rest.Ledger
	transactions core.TransactionStore
	admins       rest.Admins
}

// New new server function
func New(
	ledger rest.Ledger,
	transactions core.TransactionStore,
	admins rest.Admins,
) Server {
	return Server{
		ledger:       ledger,
		transactions: transactions,
		admins:       admins,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse(true))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(s.ledger, s.transactions, s.admins))

	return r
}
