package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docpack/docpack/internal/app"
	"github.com/docpack/docpack/internal/config"
	"github.com/docpack/docpack/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docpack",
	Short: "Build, download, and publish offline documentation sets",
	Long: `Docpack turns upstream documentation sites into normalized offline
docsets. Pages are scraped, run through per-source filter chains, and
stored under a docs directory together with an aggregate manifest.

Prebuilt docset bundles can also be downloaded instead of generated,
and the docs directory can be mirrored to remote object storage.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.docpack/config.yaml)")
	rootCmd.PersistentFlags().StringP("docs-dir", "o", config.DefaultDocsDir, "Docs directory")
	rootCmd.PersistentFlags().String("registry", "", "Extra source definitions file (YAML)")
	rootCmd.PersistentFlags().IntP("workers", "j", config.DefaultScrapeWorkers, "Scrape workers per docset")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().Bool("force", false, "Regenerate pages even when output already exists")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the fetch cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	_ = viper.BindPFlag("docs.directory", rootCmd.PersistentFlags().Lookup("docs-dir"))
	_ = viper.BindPFlag("docs.registry", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("docs.overwrite", rootCmd.PersistentFlags().Lookup("force"))
	_ = viper.BindPFlag("concurrency.workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("concurrency.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	generateCmd.Flags().Bool("all", false, "Build every version of the source")
	downloadCmd.Flags().Bool("all", false, "Download every registered docset")
	syncCmd.Flags().Bool("dry-run", false, "Report planned transfers without uploading")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// newApp loads configuration and wires the application
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	return app.New(app.Options{Config: cfg, Verbose: verbose})
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered documentation sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tVERSIONS")
		for _, src := range a.Registry().All() {
			versions := "-"
			if src.Versioned {
				versions = ""
				for i, v := range src.Versions {
					if i > 0 {
						versions += ", "
					}
					versions += v.Version
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", src.Slug, src.Name, versions)
		}
		return w.Flush()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <slug[@version]>",
	Short: "Scrape and build a docset from its upstream site",
	Long: `Generate scrapes the pages of a registered source, runs the source's
filter chain over each page, and writes the normalized docset.

Versioned sources are addressed as slug@version. With --all every
version is built; the manifest is only rebuilt when all of them
succeed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		all, _ := cmd.Flags().GetBool("all")
		return a.Generate(ctx, args[0], all)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [slug[@version]...]",
	Short: "Download and unpack prebuilt docset bundles",
	Long: `Download fetches prebuilt bundles from the configured download base
URL and unpacks them into the docs directory. A versioned source named
without a version expands to all of its versions. Failed downloads do
not stop the rest of the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("name at least one docset or pass --all")
		}
		_, err = a.Download(ctx, args, all)
		return err
	},
}

var packageCmd = &cobra.Command{
	Use:   "package <slug[@version]>",
	Short: "Compress a built docset into a distributable bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		bundle, err := a.Package(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", bundle)
		return nil
	},
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Rebuild the manifest from the docsets on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.BuildManifest()
		if err != nil {
			return err
		}
		fmt.Printf("manifest rebuilt with %d docsets\n", len(m.Entries))
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the docs directory to the configured remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return a.Sync(ctx, dryRun)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
