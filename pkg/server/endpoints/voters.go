package endpoints

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

// maxBatchBody bounds the size of a batch request body
const maxBatchBody = 1 << 20

// VoteRightResponse is the response of GET /voters/{account}
type VoteRightResponse struct {
	HasVoteRight bool `json:"has_vote_right"`
}

// BatchRequest is the body of the batch voter endpoints
type BatchRequest struct {
	Accounts []string `json:"accounts"`
}

// RegisterVotersEndpoints registers the voter registry endpoints
func RegisterVotersEndpoints(s *server.Server) {
	vl := s.Registry

	votersRouter := s.Router.PathPrefix("/voters").Subrouter()

	// POST /voters/batch-add and /voters/batch-remove
	votersRouter.Handle("/batch-add",
		s.JWTMiddleware.Middleware(handleVoterBatch(vl.AddVoters))).Methods("POST")
	votersRouter.Handle("/batch-remove",
		s.JWTMiddleware.Middleware(handleVoterBatch(vl.RemoveVoters))).Methods("POST")

	votersRouter.HandleFunc("/{account}", handleHasVoteRight(vl)).Methods("GET")

	// PUT /voters/{account} - add voter
	votersRouter.Handle("/{account}",
		s.JWTMiddleware.Middleware(handleVoterMutation(vl.AddVoter))).Methods("PUT")

	// DELETE /voters/{account} - remove voter
	votersRouter.Handle("/{account}",
		s.JWTMiddleware.Middleware(handleVoterMutation(vl.RemoveVoter))).Methods("DELETE")
}

func handleHasVoteRight(vl *voterlist.VoterList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := accountVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}

		ok, err := vl.HasVoteRight(r.Context(), account)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, VoteRightResponse{HasVoteRight: ok})
	}
}

func handleVoterMutation(mutate func(ctx context.Context, account common.Address) (*event.Receipt, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := accountVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}

		receipt, err := mutate(r.Context(), account)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, receipt)
	}
}

func handleVoterBatch(mutate func(ctx context.Context, accounts []common.Address) (*event.Receipt, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BatchRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
			return
		}

		accounts, err := accesscontrol.ParseAccounts(req.Accounts)
		if err != nil {
			respondWithContractError(w, err)
			return
		}

		receipt, err := mutate(r.Context(), accounts)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, receipt)
	}
}
