package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/beldeveloper/app-promoter/controller"
	"github.com/beldeveloper/app-promoter/model"
	"github.com/julienschmidt/httprouter"
)

// NewHandler creates a new instance of the REST API handler.
func NewHandler(c controller.Service) Handler {
	return Handler{c: c}
}

// Handler handles the REST API requests.
type Handler struct {
	c controller.Service
}

// StartRun enqueues a new promotion run.
func (h Handler) StartRun(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var f model.FormStartRun
	err := json.NewDecoder(r.Body).Decode(&f)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.c.StartRun(r.Context(), f)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Runs returns the list of promotion runs.
func (h Handler) Runs(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.c.Runs(r.Context())
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// RunByID returns one promotion run.
func (h Handler) RunByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.c.RunByID(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// RunDeployments returns the deployment records of one run.
func (h Handler) RunDeployments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.c.RunDeployments(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// RunDecisions returns the gate decisions of one run.
func (h Handler) RunDecisions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.c.RunDecisions(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Deployments returns the list of all deployment records.
func (h Handler) Deployments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.c.Deployments(r.Context())
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Environments returns the configured environments in promotion order.
func (h Handler) Environments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.c.Environments(r.Context())
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Approve records the operator approval for the suspended run.
func (h Handler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.c.Approve(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

// Reject records the operator rejection for the suspended run.
func (h Handler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		apiError(w, err)
		return
	}
	res, err := h.c.Reject(r.Context(), id)
	if err != nil {
		apiError(w, err)
		return
	}
	apiSuccess(w, res)
}

func parseID(ps httprouter.Params) (uint64, error) {
	id, err := strconv.ParseUint(ps.ByName("id"), 10, 64)
	if err != nil {
		return 0, model.ErrBadInput
	}
	return id, nil
}
