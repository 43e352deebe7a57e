package benchmark

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/config"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
	"github.com/doodlesbykumbi/voterlist/pkg/server/endpoints"
	"github.com/doodlesbykumbi/voterlist/pkg/store/memory"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

var deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func accounts(n int) []common.Address {
	out := make([]common.Address, n)
	for i := range out {
		out[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}
	return out
}

func deploy(b *testing.B) (*voterlist.VoterList, context.Context) {
	b.Helper()
	registry, err := voterlist.Deploy(context.Background(), memory.New(), deployer)
	if err != nil {
		b.Fatal(err)
	}
	return registry, identity.WithCaller(context.Background(), deployer)
}

func BenchmarkRegistry(b *testing.B) {
	role := accesscontrol.RoleFromName("DUMMY_ROLE")

	b.Run("grant and revoke", func(b *testing.B) {
		registry, ctx := deploy(b)
		targets := accounts(64)

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			a := targets[i%len(targets)]
			if _, err := registry.GrantRole(ctx, role, a); err != nil {
				b.Fatal(err)
			}
			if _, err := registry.RevokeRole(ctx, role, a); err != nil {
				b.Fatal(err)
			}
		}
	})

	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("addVoters %d", size), func(b *testing.B) {
			registry, ctx := deploy(b)
			batch := accounts(size)

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := registry.AddVoters(ctx, batch); err != nil {
					b.Fatal(err)
				}
				if _, err := registry.RemoveVoters(ctx, batch); err != nil {
					b.Fatal(err)
				}
			}
		})
	}

	b.Run("hasVoteRight", func(b *testing.B) {
		registry, ctx := deploy(b)
		if _, err := registry.AddVoters(ctx, accounts(1000)); err != nil {
			b.Fatal(err)
		}
		probe := accounts(1000)[500]

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = registry.HasVoteRight(context.Background(), probe)
		}
	})
}

func BenchmarkHTTP(b *testing.B) {
	registry, ctx := deploy(b)
	voter := accounts(1)[0]
	if _, err := registry.AddVoter(ctx, voter); err != nil {
		b.Fatal(err)
	}

	key := []byte(strings.Repeat("k", token.KeySize))
	verifier, err := token.NewVerifier(key, "voterlist", nil)
	if err != nil {
		b.Fatal(err)
	}
	issuer, err := token.NewIssuer(key, "voterlist", time.Hour, nil)
	if err != nil {
		b.Fatal(err)
	}
	bearer, _, err := issuer.Issue(deployer)
	if err != nil {
		b.Fatal(err)
	}

	cfg := &config.Config{
		TokenIssuer:       "voterlist",
		RateLimitRequests: 1 << 30,
		RateLimitWindow:   time.Second,
		RateLimitBurst:    1 << 30,
	}
	s := server.NewServer(registry, verifier, cfg, "127.0.0.1", "0")
	endpoints.RegisterAll(s)
	ts := httptest.NewServer(s.Router)
	defer ts.Close()

	b.Run("GET /voters/{account}", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			resp, err := http.Get(ts.URL + "/voters/" + voter.Hex())
			if err != nil {
				b.Fatal(err)
			}
			_ = resp.Body.Close()
		}
	})

	b.Run("PUT /voters/{account}", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("PUT", ts.URL+"/voters/"+voter.Hex(), nil)
			r.Header.Add("Authorization", "Bearer "+bearer)
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				b.Fatal(err)
			}
			_ = resp.Body.Close()
		}
	})
}
