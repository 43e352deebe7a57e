package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
)

//go:embed status.md
var statusMarkdown string

var statusTemplate = template.Must(template.New("status").Parse(statusMarkdown))

// StatusResponse is the JSON form of the status page
type StatusResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Store        string `json:"store,omitempty"`
	Deployer     string `json:"deployer,omitempty"`
	DeployedAt   string `json:"deployed_at,omitempty"`
	DeploymentTx string `json:"deployment_tx,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status page
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s)).Methods("GET")
}

func version() string {
	if v := os.Getenv("VOTERLIST_VERSION_DISPLAY"); v != "" {
		return v
	}
	return "0.1.0"
}

func status(s *server.Server, r *http.Request) (StatusResponse, int) {
	resp := StatusResponse{Status: "ok", Version: version()}
	if s.Config != nil {
		resp.Store = s.Config.Store
	}

	if s.HealthStore != nil {
		if err := s.HealthStore.CheckConnectivity(r.Context()); err != nil {
			resp.Status = "error"
			resp.Error = "store connectivity check failed"
			return resp, http.StatusServiceUnavailable
		}
	}

	dep, err := s.Registry.Deployment(r.Context())
	if err != nil {
		resp.Status = "error"
		resp.Error = "registry is not deployed"
		return resp, http.StatusServiceUnavailable
	}
	resp.Deployer = accesscontrol.FormatAccount(dep.Deployer)
	resp.DeployedAt = dep.DeployedAt.UTC().Format(time.RFC3339)
	resp.DeploymentTx = dep.TxID
	return resp, http.StatusOK
}

func renderStatus(resp StatusResponse) ([]byte, error) {
	var md bytes.Buffer
	if err := statusTemplate.Execute(&md, resp); err != nil {
		return nil, err
	}

	var html bytes.Buffer
	html.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>voterlist status</title>\n</head>\n<body>\n")
	if err := goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert(md.Bytes(), &html); err != nil {
		return nil, err
	}
	html.WriteString("</body>\n</html>\n")
	return html.Bytes(), nil
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, code := status(s, r)

		// Check if JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			respondWithJSON(w, code, resp)
			return
		}

		page, err := renderStatus(resp)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(code)
		_, _ = w.Write(page)
	}
}
