package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/voterlist/pkg/config"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
	"github.com/doodlesbykumbi/voterlist/pkg/store/memory"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

var (
	deployer = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	alice    = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	bob      = common.HexToAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	carol    = common.HexToAddress("0x90f79bf6eb2c4f870365e785982e1f101e93b906")
)

type testEnv struct {
	srv    *server.Server
	issuer *token.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	key := []byte(strings.Repeat("k", token.KeySize))
	issuer, err := token.NewIssuer(key, "voterlist", time.Minute, nil)
	require.NoError(t, err)
	verifier, err := token.NewVerifier(key, "voterlist", nil)
	require.NoError(t, err)

	registry, err := voterlist.Deploy(context.Background(), memory.New(), deployer)
	require.NoError(t, err)

	cfg := &config.Config{
		Store:             config.StoreMemory,
		TokenTTL:          time.Minute,
		TokenIssuer:       "voterlist",
		RateLimitRequests: 10000,
		RateLimitWindow:   time.Second,
		RateLimitBurst:    10000,
	}
	srv := server.NewServer(registry, verifier, cfg, "127.0.0.1", "0")
	RegisterAll(srv)
	return &testEnv{srv: srv, issuer: issuer}
}

// do sends a request, authenticated as caller unless caller is nil
func (e *testEnv) do(t *testing.T, method, path string, caller *common.Address, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if caller != nil {
		signed, _, err := e.issuer.Issue(*caller)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func accountPath(a common.Address) string {
	return a.Hex()
}
