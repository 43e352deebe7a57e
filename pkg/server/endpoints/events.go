package endpoints

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
)

// DefaultEventLimit applies when the request names no limit
const DefaultEventLimit = 100

// MaxEventLimit caps the limit a request may ask for
const MaxEventLimit = 1000

// EventsResponse is the response of GET /events
type EventsResponse struct {
	Count  int           `json:"count"`
	Events []event.Event `json:"events"`
}

// RegisterEventsEndpoints registers the event log endpoint
func RegisterEventsEndpoints(s *server.Server) {
	ac := s.Registry.AccessControl

	// GET /events?kind=&role=&account=&sender=&limit=
	s.Router.HandleFunc("/events", handleEvents(ac)).Methods("GET")
}

// splitValues returns every comma separated value of a repeated query
// parameter
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseFilter(r *http.Request) (event.Filter, error) {
	q := r.URL.Query()
	filter := event.Filter{Limit: DefaultEventLimit}

	for _, k := range splitValues(q["kind"]) {
		kind, err := event.KindString(k)
		if err != nil {
			return filter, err
		}
		filter.Kinds = append(filter.Kinds, kind)
	}
	for _, s := range splitValues(q["role"]) {
		role, err := accesscontrol.ParseRole(s)
		if err != nil {
			return filter, err
		}
		filter.Roles = append(filter.Roles, role)
	}
	accounts, err := accesscontrol.ParseAccounts(splitValues(q["account"]))
	if err != nil {
		return filter, err
	}
	filter.Accounts = accounts

	if s := q.Get("sender"); s != "" {
		sender, err := accesscontrol.ParseAccount(s)
		if err != nil {
			return filter, err
		}
		filter.Sender = &sender
	}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 {
			return filter, strconv.ErrSyntax
		}
		filter.Limit = min(limit, MaxEventLimit)
	}
	return filter, nil
}

func handleEvents(ac *accesscontrol.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		events, err := ac.Events(r.Context(), filter)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		if events == nil {
			events = []event.Event{}
		}
		respondWithJSON(w, http.StatusOK, EventsResponse{Count: len(events), Events: events})
	}
}

