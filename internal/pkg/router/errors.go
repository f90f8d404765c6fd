package router

import (
	"net/http"

	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
)

// Transport level error tags.
var (
	// EndpointNotFound is raised for unknown routes.
	EndpointNotFound = goerror.NotFound.Specialize("EndpointNotFound",
		goerror.WithDefaultMessage("Endpoint not found"))

	// MethodNotAllowed is raised for a known route called with the wrong method.
	MethodNotAllowed = goerror.BadInput.Specialize("MethodNotAllowed",
		goerror.WithStatus(http.StatusMethodNotAllowed), goerror.WithDefaultMessage("Method not allowed"))

	// Unavailable is raised for endpoints under maintenance.
	Unavailable = goerror.Any.Specialize("ServiceUnavailable",
		goerror.WithStatus(http.StatusServiceUnavailable), goerror.WithDefaultMessage("Service is under maintenance"))
)

// RegistryOptions registers the handlers that give the transport tags their own status.
func RegistryOptions() []classifier.RegistryOption {
	return []classifier.RegistryOption{
		classifier.WithHandler(MethodNotAllowed, classifier.GenericHandler),
		classifier.WithHandler(Unavailable, classifier.GenericHandler),
	}
}
