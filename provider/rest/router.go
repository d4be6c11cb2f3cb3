package rest

import (
	"net/http"

	"github.com/beldeveloper/app-promoter/controller"
	"github.com/julienschmidt/httprouter"
)

// CreateRouter creates and configures a new instance of the router.
func CreateRouter(c controller.Service) *httprouter.Router {
	h := NewHandler(c)
	r := httprouter.New()

	r.POST("/runs", h.StartRun)
	r.GET("/runs", h.Runs)
	r.GET("/runs/:id", h.RunByID)
	r.GET("/runs/:id/deployments", h.RunDeployments)
	r.GET("/runs/:id/decisions", h.RunDecisions)
	r.POST("/runs/:id/approve", h.Approve)
	r.POST("/runs/:id/reject", h.Reject)
	r.GET("/deployments", h.Deployments)
	r.GET("/environments", h.Environments)

	r.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetDefaultHeaders(w)
		h := w.Header()
		h.Set("Access-Control-Allow-Methods", h.Get("Allow"))
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
