package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

func newPanicRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	return r
}
