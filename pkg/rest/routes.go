package rest

import (
	"github.com/gorilla/mux"

	"github.com/easytempinbox/easytempinbox/pkg/server/web"
)

// SetupRoutes populates the routes for the REST interface.
func SetupRoutes(r *mux.Router) {
	r.Path("/").Handler(
		web.Handler(RootV1)).Name("RootV1").Methods("GET")
	r.Path("/api/v1/inbox").Handler(
		web.Handler(InboxCreateV1)).Name("InboxCreateV1").Methods("POST")
	r.Path("/api/v1/inbox/{inbox}/status").Handler(
		web.Handler(InboxStatusV1)).Name("InboxStatusV1").Methods("GET")
	r.Path("/api/v1/inbox/{inbox}/emails").Handler(
		web.Handler(EmailListV1)).Name("EmailListV1").Methods("GET")
	r.Path("/api/v1/inbox/{inbox}/emails/{id}").Handler(
		web.Handler(EmailShowV1)).Name("EmailShowV1").Methods("GET")
	r.Path("/api/v1/inbox/{inbox}/emails/{id}/attachments/{attachment}").Handler(
		web.Handler(AttachmentLinkV1)).Name("AttachmentLinkV1").Methods("GET")
}
