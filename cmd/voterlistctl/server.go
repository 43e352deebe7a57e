package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/config"
	"github.com/doodlesbykumbi/voterlist/pkg/server"
	"github.com/doodlesbykumbi/voterlist/pkg/server/endpoints"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
	"github.com/doodlesbykumbi/voterlist/pkg/store/memory"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the voter registry HTTP server",
	Long: `Run the voter registry HTTP server.

With store "memory" the registry lives in the process and --deployer is
required. With store "postgres" the server attaches to the registry in
DATABASE_URL, deploying it first when --deployer is given and the database
holds none. Database migrations run on startup unless --no-migrate is set.

Mutations require a bearer token signed with VOTERLIST_TOKEN_KEY.

Example:
  voterlistctl server --deployer 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266
  VOTERLIST_STORE=postgres voterlistctl server -p 3000`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fail("Failed to load configuration", err)
		}
		if err := cfg.Validate(); err != nil {
			fail("Invalid configuration", err)
		}
		secrets, err := config.LoadSecrets()
		if err != nil {
			fail("Failed to load secrets", err)
		}

		var verifier *token.Verifier
		if secrets.TokenKey == "" {
			log.Println("VOTERLIST_TOKEN_KEY is not set, mutations are disabled")
		} else {
			key, err := secrets.DecodeTokenKey()
			if err != nil {
				fail("Bad VOTERLIST_TOKEN_KEY", err)
			}
			verifier, err = token.NewVerifier(key, cfg.TokenIssuer, nil)
			if err != nil {
				fail("Unable to create token verifier", err)
			}
		}

		deployerFlag, _ := cmd.Flags().GetString("deployer")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		registry, closeAudit, err := startRegistry(cfg, deployerFlag, noMigrate)
		if err != nil {
			fail("Unable to start registry", err)
		}
		defer closeAudit()

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(registry, verifier, cfg, host, port)

		endpoints.RegisterAll(s)

		go func() {
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan
			log.Println("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = s.Shutdown(ctx)
		}()

		log.Printf("Running server at http://%s:%s (store: %s)...\n", host, port, cfg.Store)
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().String("deployer", "", "deploy a new registry with this admin account")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func startRegistry(cfg *config.Config, deployerFlag string, noMigrate bool) (*voterlist.VoterList, func(), error) {
	ctx := context.Background()

	obs, closeAudit, err := auditObserver()
	if err != nil {
		return nil, nil, err
	}
	opts := []accesscontrol.Option{accesscontrol.WithObserver(obs)}

	var s store.Store
	switch cfg.Store {
	case config.StoreMemory:
		if deployerFlag == "" {
			closeAudit()
			return nil, nil, errors.New("--deployer is required with the memory store")
		}
		s = memory.New()
	case config.StorePostgres:
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				closeAudit()
				return nil, nil, fmt.Errorf("migration failed: %w", err)
			}
		}
		if s, err = openStore(); err != nil {
			closeAudit()
			return nil, nil, err
		}
		registry, err := voterlist.Open(ctx, s, opts...)
		if err == nil {
			return registry, closeAudit, nil
		}
		if !errors.Is(err, store.ErrNotDeployed) || deployerFlag == "" {
			closeAudit()
			return nil, nil, err
		}
	}

	deployer, err := accesscontrol.ParseAccount(deployerFlag)
	if err != nil {
		closeAudit()
		return nil, nil, err
	}
	log.Printf("Deploying registry with admin %s\n", accesscontrol.FormatAccount(deployer))
	registry, err := voterlist.Deploy(ctx, s, deployer, opts...)
	if err != nil {
		closeAudit()
		return nil, nil, err
	}
	return registry, closeAudit, nil
}
