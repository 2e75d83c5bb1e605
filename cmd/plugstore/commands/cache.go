// ABOUTME: Cache commands for the Charm-backed installation cache
// ABOUTME: Provides status, get, list, runs, sync, wipe and keys management
package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/harper/plugstore/internal/charm"
	"github.com/harper/plugstore/internal/models"
	"github.com/harper/plugstore/internal/storage"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the installation cache",
		Long: `Manage the installation cache.

Resolved installations are stored in Charm KV and sync automatically
across devices linked to the same Charm account.`,
	}

	cmd.AddCommand(newCacheStatusCmd())
	cmd.AddCommand(newCacheGetCmd())
	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheRunsCmd())
	cmd.AddCommand(newCacheSyncCmd())
	cmd.AddCommand(newCacheWipeCmd())
	cmd.AddCommand(newCacheKeysCmd())

	return cmd
}

// connectCharm configures and opens the global charm client
func connectCharm() (*charm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	charm.Configure(charmConfig(cfg))
	client, err := charm.GetClient()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

func newCacheStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cache connection info and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectCharm()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(w, "Status: Not connected")
				fmt.Fprintln(w, "Run 'plugstore cache keys' to check your SSH keys")
				return nil
			}

			names, err := storage.NewCharmCache(client).List()
			if err != nil {
				return err
			}

			cfg := client.Config()
			fmt.Fprintln(w, "Status: Connected")
			fmt.Fprintf(w, "User ID: %s\n", id)
			fmt.Fprintf(w, "Host: %s\n", cfg.Host)
			fmt.Fprintf(w, "Database: %s\n", cfg.DBName)
			fmt.Fprintf(w, "Entries: %d\n", len(names))
			return nil
		},
	}
}

func newCacheGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <owner/name>",
		Short: "Show the cached installation of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectCharm()
			if err != nil {
				return err
			}
			entry, ok, err := storage.NewCharmCache(client).Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no cached installation for %s", args[0])
			}

			format := resolveFormat(cmd.OutOrStdout())
			if format != "text" {
				return storage.Encode(cmd.OutOrStdout(), entry, format)
			}
			renderText(cmd.OutOrStdout(), extractOutput{Repository: args[0], Installation: entry.Installation()})
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("updated "+entry.UpdatedAt.Format("2006-01-02 15:04")))
			return nil
		},
	}
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectCharm()
			if err != nil {
				return err
			}
			cache := storage.NewCharmCache(client)
			names, err := cache.List()
			if err != nil {
				return err
			}

			if len(names) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No cached installations")
				}
				return nil
			}

			format := resolveFormat(cmd.OutOrStdout())
			if format != "text" {
				return storage.Encode(cmd.OutOrStdout(), names, format)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "REPOSITORY\tSOURCE\tUPDATED\n")
			fmt.Fprintf(w, "----------\t------\t-------\n")
			for _, name := range names {
				entry, ok, err := cache.Get(name)
				if err != nil || !ok {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", truncate(name, 40), entry.Source, entry.UpdatedAt.Format("2006-01-02"))
			}
			w.Flush()

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d installation(s)\n", len(names))
			}
			return nil
		},
	}
}

func newCacheRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the history of batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectCharm()
			if err != nil {
				return err
			}
			runs, err := storage.NewCharmCache(client).Runs()
			if err != nil {
				return err
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}

			format := resolveFormat(cmd.OutOrStdout())
			if format != "text" {
				return storage.Encode(cmd.OutOrStdout(), runs, format)
			}
			writeRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Show only the most recent runs (0 for all)")

	return cmd
}

func writeRuns(out io.Writer, runs []models.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "STARTED\tDURATION\tTOTAL\tCACHED\tDEFAULTED\tFAILED\n")
	fmt.Fprintf(w, "-------\t--------\t-----\t------\t---------\t------\n")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
			r.Summary.Total, r.Summary.Cached, r.Summary.Defaulted, r.Summary.Failed)
	}
	w.Flush()
}

func newCacheSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectCharm()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			return nil
		},
	}
}

func newCacheWipeCmd() *cobra.Command {
	var confirm bool
	var all bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete cached installations",
		Long: `Delete every cached installation.

With --all the whole local Charm database is reset instead. Cloud data
remains intact and will be re-synced on next access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "This will wipe the installation cache!")
				fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			client, err := connectCharm()
			if err != nil {
				return err
			}

			if all {
				err = client.Reset()
			} else {
				err = storage.NewCharmCache(client).Wipe()
			}
			if err != nil {
				return fmt.Errorf("failed to wipe data: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Cache wiped successfully")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the wipe operation")
	cmd.Flags().BoolVar(&all, "all", false, "Reset the whole local Charm database")

	return cmd
}

func newCacheKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List authorized SSH keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectCharm()
			if err != nil {
				return err
			}

			keys, err := client.GetAuthorizedKeys()
			if err != nil {
				return fmt.Errorf("failed to get authorized keys: %w", err)
			}

			if keys == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No authorized keys found")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Authorized SSH keys:")
			fmt.Fprintln(cmd.OutOrStdout(), keys)
			return nil
		},
	}
}
