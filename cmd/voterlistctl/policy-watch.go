package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/policy/loader"
)

// policyWatchCmd represents the policy watch command
var policyWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Apply a policy file and re-apply it whenever it changes",
	Long: `Apply a policy file and re-apply it whenever it is written or replaced.

Writes that leave the content unchanged are ignored. A failed application is
reported and the watch continues; nothing of the failed document is applied.

Example:
  voterlistctl policy watch /etc/voterlist/policy.yml --as 0xf39f...2266`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, err := operatorContext(cmd)
		if err != nil {
			fail("No caller", err)
		}

		if err := watchPolicy(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch policy: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	policyCmd.AddCommand(policyWatchCmd)
}

func watchPolicy(ctx context.Context, filename string) error {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	registry, closeAudit, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer closeAudit()

	l := loader.NewLoader(registry)
	applyPolicyFile(ctx, l, filename)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(filename), err)
	}

	fmt.Printf("Watching %s for policy changes\n", filename)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				applyPolicyFile(ctx, l, filename)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func applyPolicyFile(ctx context.Context, l *loader.Loader, filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return
	}
	if l.Unchanged(content) {
		return
	}

	fmt.Printf("[%s] Applying policy from %s\n", time.Now().Format(time.RFC3339), filename)
	result, err := l.Load(ctx, bytes.NewReader(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error applying policy: %v\n", err)
		return
	}
	fmt.Printf("Policy applied with %d change(s) in %s\n", result.Changes, result.Receipt.TxID)
}
