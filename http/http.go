// Copyright 2025 The OldMan Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package http is the thin REST glue over sessions: HTTP verbs map to
// core operations and representations content-negotiate among JSON,
// JSON-LD and N-Triples.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oldman-go/oldman/clog"
	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/session"
	"github.com/oldman-go/oldman/store"
)

const (
	contentJSON     = "application/json"
	contentJSONLD   = "application/ld+json"
	contentNTriples = "application/n-triples"
)

// Config holds the REST surface settings.
type Config struct {
	// BaseIRI is prepended to the request path to form the resource IRI.
	BaseIRI  string
	Timeout  time.Duration
	ReadOnly bool
}

// API serves resources over HTTP. Each request runs in a fresh session;
// the cache is shared across requests and invalidated on writes.
type API struct {
	config   *Config
	selector *store.Selector
	cache    *session.ResourceCache
}

// NewAPI builds the REST surface over a store selector.
func NewAPI(selector *store.Selector, cfg *Config, cache *session.ResourceCache) *API {
	return &API{config: cfg, selector: selector, cache: cache}
}

func (api *API) newSession() *session.Session {
	opts := []session.Option{}
	if api.cache != nil {
		opts = append(opts, session.WithCache(api.cache))
	}
	return session.New(api.selector, opts...)
}

func (api *API) iriFor(req *http.Request, params httprouter.Params) quad.IRI {
	path := params.ByName("path")
	if path == "" {
		path = req.URL.Path
	}
	return quad.IRI(strings.TrimSuffix(api.config.BaseIRI, "/") + path)
}

type statusWriter struct {
	http.ResponseWriter
	code *int
}

func (w *statusWriter) WriteHeader(code int) {
	*(w.code) = code
	w.ResponseWriter.WriteHeader(code)
}

// LogRequest wraps a handler with request logging.
func LogRequest(handler httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
		start := time.Now()
		code := 200
		rw := &statusWriter{ResponseWriter: w, code: &code}
		handler(rw, req, params)
		clog.Infof("%d %s %s in %v", code, req.Method, req.URL.Path, time.Since(start))
	}
}

func jsonResponse(w http.ResponseWriter, code int, err interface{}) {
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(code)
	w.Write([]byte(`{"error": `))
	data, _ := json.Marshal(fmt.Sprint(err))
	w.Write(data)
	w.Write([]byte(`}`))
}

// errorResponse maps the error taxonomy onto HTTP status codes: edit and
// access errors are the client's fault, store and internal errors are
// ours.
func errorResponse(w http.ResponseWriter, err error) {
	var (
		notFound om.ErrNotFound
		unique   om.ErrUnique
		readOnly om.ErrReadOnly
		required om.ErrRequired
		cont     om.ErrContainer
		noAttr   om.ErrNoSuchAttribute
	)
	switch {
	case errors.As(err, &notFound):
		jsonResponse(w, http.StatusNotFound, err)
	case errors.As(err, &unique):
		jsonResponse(w, http.StatusConflict, err)
	case errors.As(err, &readOnly), errors.As(err, &required),
		errors.As(err, &cont), errors.As(err, &noAttr),
		errors.Is(err, om.ErrDeleted):
		jsonResponse(w, http.StatusBadRequest, err)
	default:
		jsonResponse(w, http.StatusInternalServerError, err)
	}
}

// negotiate picks the response serialization from the Accept header.
func negotiate(req *http.Request) string {
	accept := req.Header.Get("Accept")
	for _, part := range strings.Split(accept, ",") {
		mime := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch mime {
		case contentJSON, contentJSONLD, contentNTriples:
			return mime
		case "text/plain":
			return contentNTriples
		}
	}
	return contentJSONLD
}

// RegisterOn installs the resource routes on a router.
func (api *API) RegisterOn(r *httprouter.Router) {
	r.GET("/*path", LogRequest(api.ServeGet))
	r.HEAD("/*path", LogRequest(api.ServeHead))
	r.PUT("/*path", LogRequest(api.ServePut))
	r.DELETE("/*path", LogRequest(api.ServeDelete))
	r.POST("/*path", LogRequest(api.ServePost))
}

// SetupRoutes wires the REST surface and the metrics endpoint onto the
// default mux. A nil cache disables cross-request resource caching.
func SetupRoutes(selector *store.Selector, cfg *Config, cache *session.ResourceCache) {
	r := httprouter.New()
	api := NewAPI(selector, cfg, cache)
	api.RegisterOn(r)
	http.Handle("/metrics", promhttp.Handler())
	http.Handle("/", r)
}
