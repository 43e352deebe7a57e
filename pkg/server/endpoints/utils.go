package endpoints

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, code int, errCode string, message string) {
	respondWithJSON(w, code, map[string]interface{}{"error": ErrorBody{Code: errCode, Message: message}})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithContractError maps registry errors to HTTP responses
func respondWithContractError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accesscontrol.ErrUnauthorized):
		respondWithError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, accesscontrol.ErrSelfOnly):
		respondWithError(w, http.StatusForbidden, "self_only", err.Error())
	case errors.Is(err, accesscontrol.ErrIndexOutOfRange):
		respondWithError(w, http.StatusNotFound, "index_out_of_range", err.Error())
	case errors.Is(err, accesscontrol.ErrInvalidRole), errors.Is(err, accesscontrol.ErrInvalidAccount):
		respondWithError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, identity.ErrNoCaller):
		respondWithError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, store.ErrNotDeployed):
		respondWithError(w, http.StatusServiceUnavailable, "not_deployed", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// pathVar returns the unescaped path variable name
func pathVar(r *http.Request, name string) string {
	v := mux.Vars(r)[name]
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func roleVar(r *http.Request) (common.Hash, error) {
	return accesscontrol.ParseRole(pathVar(r, "role"))
}

func accountVar(r *http.Request) (common.Address, error) {
	return accesscontrol.ParseAccount(pathVar(r, "account"))
}

func indexVar(r *http.Request) (int, error) {
	return strconv.Atoi(pathVar(r, "index"))
}
