package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/audit"
	"github.com/doodlesbykumbi/voterlist/pkg/config"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
	"github.com/doodlesbykumbi/voterlist/pkg/server/endpoints"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
	gormstore "github.com/doodlesbykumbi/voterlist/pkg/store/gorm"
	"github.com/doodlesbykumbi/voterlist/pkg/store/memory"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

const tokenIssuer = "voterlist"

// TestContext holds the resources shared by every scenario
type TestContext struct {
	Postgres   *PostgresContext // nil for the memory store
	TokenKey   []byte
	Issuer     *token.Issuer
	Verifier   *token.Verifier
	HTTPClient *http.Client
}

// NewTestContext creates a test context. Scenarios run against pg when it
// is set and against the memory store otherwise.
func NewTestContext(pg *PostgresContext) (*TestContext, error) {
	key := []byte(strings.Repeat("integration-key!", 2))
	issuer, err := token.NewIssuer(key, tokenIssuer, time.Minute, nil)
	if err != nil {
		return nil, err
	}
	verifier, err := token.NewVerifier(key, tokenIssuer, nil)
	if err != nil {
		return nil, err
	}
	return &TestContext{
		Postgres:   pg,
		TokenKey:   key,
		Issuer:     issuer,
		Verifier:   verifier,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (tc *TestContext) newStore() (store.Store, error) {
	if tc.Postgres == nil {
		return memory.New(), nil
	}
	if err := tc.Postgres.Reset(); err != nil {
		return nil, err
	}
	return gormstore.New(tc.Postgres.DB), nil
}

// ServerInstance is a deployed registry served over HTTP for one scenario
type ServerInstance struct {
	Registry  *voterlist.VoterList
	Server    *server.Server
	ServerURL string
	Audit     []audit.Event
	http      *httptest.Server
}

// StartServer deploys a fresh registry with deployer as admin and serves it.
func StartServer(tc *TestContext, deployer common.Address) (*ServerInstance, error) {
	s, err := tc.newStore()
	if err != nil {
		return nil, err
	}

	inst := &ServerInstance{}
	obs := &audit.Observer{Log: func(e audit.Event) { inst.Audit = append(inst.Audit, e) }}

	registry, err := voterlist.Deploy(context.Background(), s, deployer, accesscontrol.WithObserver(obs))
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Store:             config.StoreMemory,
		TokenTTL:          time.Minute,
		TokenIssuer:       tokenIssuer,
		RateLimitRequests: 100000,
		RateLimitWindow:   time.Minute,
		RateLimitBurst:    100000,
	}
	srv := server.NewServer(registry, tc.Verifier, cfg, "127.0.0.1", "0")
	endpoints.RegisterAll(srv)

	inst.Registry = registry
	inst.Server = srv
	inst.http = httptest.NewServer(srv.Router)
	inst.ServerURL = inst.http.URL
	return inst, nil
}

// Close stops the HTTP server
func (inst *ServerInstance) Close() {
	if inst.http != nil {
		inst.http.Close()
	}
}
