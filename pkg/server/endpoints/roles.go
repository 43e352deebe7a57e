package endpoints

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
)

// RoleAdminResponse is the response of GET /roles/{role}/admin
type RoleAdminResponse struct {
	Role      common.Hash `json:"role"`
	AdminRole common.Hash `json:"admin_role"`
}

// RoleMembersResponse is the response of GET /roles/{role}/members
type RoleMembersResponse struct {
	Role    common.Hash      `json:"role"`
	Count   int              `json:"count"`
	Members []common.Address `json:"members"`
}

// RoleMemberResponse is the response of GET /roles/{role}/members/{index}
type RoleMemberResponse struct {
	Role    common.Hash    `json:"role"`
	Index   int            `json:"index"`
	Account common.Address `json:"account"`
}

// HasRoleResponse is the response of GET /roles/{role}/accounts/{account}
type HasRoleResponse struct {
	HasRole bool `json:"has_role"`
}

// RegisterRolesEndpoints registers the roles API endpoints
func RegisterRolesEndpoints(s *server.Server) {
	ac := s.Registry.AccessControl

	rolesRouter := s.Router.PathPrefix("/roles").Subrouter()

	rolesRouter.HandleFunc("/{role}/admin", handleGetRoleAdmin(ac)).Methods("GET")
	rolesRouter.HandleFunc("/{role}/members", handleGetRoleMembers(ac)).Methods("GET")
	rolesRouter.HandleFunc("/{role}/members/{index:[0-9]+}", handleGetRoleMember(ac)).Methods("GET")
	rolesRouter.HandleFunc("/{role}/accounts/{account}", handleHasRole(ac)).Methods("GET")

	// DELETE /roles/{role}/accounts/{account}?renounce - renounce
	rolesRouter.Handle("/{role}/accounts/{account}",
		s.JWTMiddleware.Middleware(handleRoleMutation(ac.RenounceRole))).Methods("DELETE").Queries("renounce", "")

	// DELETE /roles/{role}/accounts/{account} - revoke
	rolesRouter.Handle("/{role}/accounts/{account}",
		s.JWTMiddleware.Middleware(handleRoleMutation(ac.RevokeRole))).Methods("DELETE")

	// POST /roles/{role}/accounts/{account} - grant
	rolesRouter.Handle("/{role}/accounts/{account}",
		s.JWTMiddleware.Middleware(handleRoleMutation(ac.GrantRole))).Methods("POST")
}

func handleGetRoleAdmin(ac *accesscontrol.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := roleVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}

		admin, err := ac.GetRoleAdmin(r.Context(), role)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, RoleAdminResponse{Role: role, AdminRole: admin})
	}
}

func handleGetRoleMembers(ac *accesscontrol.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := roleVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}

		members, err := ac.GetRoleMembers(r.Context(), role)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		if members == nil {
			members = []common.Address{}
		}
		respondWithJSON(w, http.StatusOK, RoleMembersResponse{Role: role, Count: len(members), Members: members})
	}
}

func handleGetRoleMember(ac *accesscontrol.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := roleVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		index, err := indexVar(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "bad_request", "invalid index")
			return
		}

		account, err := ac.GetRoleMember(r.Context(), role, index)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, RoleMemberResponse{Role: role, Index: index, Account: account})
	}
}

func handleHasRole(ac *accesscontrol.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := roleVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		account, err := accountVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}

		ok, err := ac.HasRole(r.Context(), role, account)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, HasRoleResponse{HasRole: ok})
	}
}

type roleMutation func(ctx context.Context, role common.Hash, account common.Address) (*event.Receipt, error)

// handleRoleMutation runs a grant, revoke or renounce as the caller in the
// request context and responds with the receipt
func handleRoleMutation(mutate roleMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := roleVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		account, err := accountVar(r)
		if err != nil {
			respondWithContractError(w, err)
			return
		}

		receipt, err := mutate(r.Context(), role, account)
		if err != nil {
			respondWithContractError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, receipt)
	}
}
