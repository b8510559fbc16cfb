package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/oldman-go/oldman/om"
)

func (api *API) writeResource(w http.ResponseWriter, req *http.Request, r *om.Resource, headOnly bool) {
	var (
		body []byte
		err  error
	)
	mime := negotiate(req)
	switch mime {
	case contentJSON:
		body, err = r.ToJSON()
	case contentNTriples:
		var text string
		text, err = r.ToRDF()
		body = []byte(text)
	default:
		mime = contentJSONLD
		body, err = r.ToJSONLD()
	}
	if err != nil {
		errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	if !headOnly {
		w.Write(body)
	}
}

// ServeGet returns one resource, content-negotiated.
func (api *API) ServeGet(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
	sess := api.newSession()
	r, err := sess.Get(req.Context(), api.iriFor(req, params))
	if err != nil {
		errorResponse(w, err)
		return
	}
	api.writeResource(w, req, r, false)
}

// ServeHead is ServeGet without a body.
func (api *API) ServeHead(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
	sess := api.newSession()
	r, err := sess.Get(req.Context(), api.iriFor(req, params))
	if err != nil {
		errorResponse(w, err)
		return
	}
	api.writeResource(w, req, r, true)
}

func (api *API) forbiddenReadOnly(w http.ResponseWriter) bool {
	if !api.config.ReadOnly {
		return false
	}
	jsonResponse(w, http.StatusForbidden, "store is read-only")
	return true
}

// ServeDelete marks the resource deleted and flushes.
func (api *API) ServeDelete(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
	if api.forbiddenReadOnly(w) {
		return
	}
	sess := api.newSession()
	iri := api.iriFor(req, params)
	r, err := sess.Get(req.Context(), iri)
	if err != nil {
		errorResponse(w, err)
		return
	}
	sess.Delete(r)
	if err := sess.Flush(req.Context()); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServePost dispatches to the operation the resource's models register for
// POST, or answers 405.
func (api *API) ServePost(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
	if api.forbiddenReadOnly(w) {
		return
	}
	sess := api.newSession()
	r, err := sess.Get(req.Context(), api.iriFor(req, params))
	if err != nil {
		errorResponse(w, err)
		return
	}
	var op *om.Operation
	for _, m := range r.Models() {
		if o, ok := m.Operation(http.MethodPost); ok {
			op = o
			break
		}
	}
	if op == nil {
		w.Header().Set("Allow", "GET, HEAD, PUT, DELETE")
		jsonResponse(w, http.StatusMethodNotAllowed, "no operation registered for POST")
		return
	}
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		errorResponse(w, err)
		return
	}
	result, err := op.Handler(req.Context(), r, payload)
	if err != nil {
		errorResponse(w, err)
		return
	}
	if err := sess.FlushAsEndUser(req.Context()); err != nil {
		errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", contentJSON)
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
