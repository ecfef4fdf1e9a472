// cmd/vaultdoctor/watch.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultdoctor/vaultdoctor/internal/audit"
	"github.com/vaultdoctor/vaultdoctor/internal/output"
	"github.com/vaultdoctor/vaultdoctor/internal/watch"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [vault]",
		Short: "Re-audit the vault whenever markdown files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := vaultRoot(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			formatter, err := output.ForFormat(cfg.Output.Format)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runOnce := func() {
				report, err := audit.Run(ctx, root, cfg)
				if err != nil {
					log.Printf("vaultdoctor: audit failed: %v", err)
					return
				}
				out, err := formatter.Format(report)
				if err != nil {
					log.Printf("vaultdoctor: formatting report: %v", err)
					return
				}
				fmt.Println(string(out))
			}

			runOnce()
			fmt.Printf("Watching %s for changes (Ctrl-C to stop)\n", root)

			debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
			err = watch.Watch(ctx, root, cfg.Vault.IgnoreDirs, debounce, runOnce)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
