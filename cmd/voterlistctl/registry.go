package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/audit"
	"github.com/doodlesbykumbi/voterlist/pkg/db"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
	gormstore "github.com/doodlesbykumbi/voterlist/pkg/store/gorm"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

// openStore connects to the registry database named by DATABASE_URL.
func openStore() (store.Store, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return gormstore.New(database), nil
}

// auditObserver writes audit events to stdout and, when AUDIT_DATABASE_URL
// is set, to the messages table. The returned func closes the audit store.
func auditObserver() (*audit.Observer, func(), error) {
	auditStore, err := audit.NewStore()
	if err != nil {
		return nil, nil, err
	}
	if auditStore == nil {
		return audit.NewObserver(), func() {}, nil
	}
	obs := audit.NewStoreObserver(audit.DefaultLogger, auditStore)
	return obs, func() { _ = auditStore.Close() }, nil
}

// openRegistry attaches to the deployed registry in the database.
func openRegistry(ctx context.Context) (*voterlist.VoterList, func(), error) {
	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	obs, closeAudit, err := auditObserver()
	if err != nil {
		return nil, nil, err
	}

	registry, err := voterlist.Open(ctx, s, accesscontrol.WithObserver(obs))
	if err != nil {
		closeAudit()
		if errors.Is(err, store.ErrNotDeployed) {
			return nil, nil, fmt.Errorf("%w: run 'voterlistctl deploy <deployer>' first", err)
		}
		return nil, nil, err
	}
	return registry, closeAudit, nil
}

// operatorContext names the caller given by --as.
func operatorContext(cmd *cobra.Command) (context.Context, error) {
	as, _ := cmd.Flags().GetString("as")
	if as == "" {
		return nil, errors.New("--as (or VOTERLIST_OPERATOR) is required for mutating commands")
	}
	caller, err := accesscontrol.ParseAccount(as)
	if err != nil {
		return nil, err
	}
	return identity.Set(context.Background(), identity.Operator(caller)), nil
}

// readAccounts collects accounts from args and, when file is set, from
// file, one per line. Blank lines and lines starting with # are skipped.
func readAccounts(args []string, file string) ([]common.Address, error) {
	values := append([]string{}, args...)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		values = append(values, parseAccountLines(string(data))...)
	}
	return accesscontrol.ParseAccounts(values)
}

func parseAccountLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func printReceipt(receipt *event.Receipt) {
	output, _ := json.MarshalIndent(receipt, "", "  ")
	fmt.Println(string(output))
}

func fail(format string, err error) {
	fmt.Fprintf(os.Stderr, format+": %v\n", err)
	os.Exit(1)
}
