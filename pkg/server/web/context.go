// Package web provides the plumbing for the REST API server.
package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/easytempinbox/easytempinbox/pkg/config"
	"github.com/easytempinbox/easytempinbox/pkg/policy"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

// Context is passed into every request handler function.
type Context struct {
	Vars       map[string]string
	Store      storage.Store
	Blob       storage.Blob
	Lifecycle  *policy.Lifecycle
	RootConfig *config.Root
}

var (
	rootConfig *config.Root
	store      storage.Store
	blob       storage.Blob
	lifecycle  *policy.Lifecycle
)

// Initialize sets up the package for Start() or unit tests.
func Initialize(cfg *config.Root, s storage.Store, b storage.Blob, lc *policy.Lifecycle) {
	rootConfig = cfg
	store = s
	blob = b
	lifecycle = lc
}

// NewContext returns a Context for the given HTTP request.
func NewContext(req *http.Request) *Context {
	return &Context{
		Vars:       mux.Vars(req),
		Store:      store,
		Blob:       blob,
		Lifecycle:  lifecycle,
		RootConfig: rootConfig,
	}
}
