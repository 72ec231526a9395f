package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/webfetch/webfetch/internal/app"
	"github.com/webfetch/webfetch/internal/config"
	"github.com/webfetch/webfetch/internal/utils"
	"github.com/webfetch/webfetch/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "webfetch <url>",
	Short: "Fetch a URL with charset negotiation and IDN support",
	Long: `webfetch retrieves a web page, figures out which character encoding
the server (or the page itself) declared, converts the content to UTF-8 on a
best-effort basis, and discovers links with internationalized hostnames
converted to their ASCII-compatible form.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.ConfigFilePath()+")")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputDir, "Output directory")
	rootCmd.PersistentFlags().String("local-encoding", "", "Encoding of local input (default: from locale)")
	rootCmd.PersistentFlags().String("remote-encoding", "", "Force the encoding of remote content")
	rootCmd.PersistentFlags().Bool("iri", config.DefaultEnableIRI, "Enable internationalized URL handling")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().Int("retries", config.DefaultMaxRetries, "Max request retries")
	rootCmd.PersistentFlags().String("user-agent", "", "Custom User-Agent")
	rootCmd.PersistentFlags().Bool("json-meta", false, "Write a JSON metadata sidecar")
	rootCmd.PersistentFlags().Bool("force", false, "Overwrite existing files")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Simulate without writing files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	_ = viper.BindPFlag("output.directory", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("encoding.local", rootCmd.PersistentFlags().Lookup("local-encoding"))
	_ = viper.BindPFlag("encoding.remote", rootCmd.PersistentFlags().Lookup("remote-encoding"))
	_ = viper.BindPFlag("encoding.enable_iri", rootCmd.PersistentFlags().Lookup("iri"))
	_ = viper.BindPFlag("fetcher.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("fetcher.max_retries", rootCmd.PersistentFlags().Lookup("retries"))
	_ = viper.BindPFlag("fetcher.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	_ = viper.BindPFlag("output.json_metadata", rootCmd.PersistentFlags().Lookup("json-meta"))
	_ = viper.BindPFlag("output.overwrite", rootCmd.PersistentFlags().Lookup("force"))
	_ = viper.BindPFlag("output.dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
		log = utils.NewVerboseLogger()
	} else {
		log = utils.NewLogger(utils.LoggerOptions{
			Level:  logLevel,
			Format: "pretty",
		})
	}
	utils.SetGlobalLevel(logLevel)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		return cmd.Help()
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	start := time.Now()

	doc, err := a.Run(ctx, args[0])
	if err != nil {
		return err
	}

	log.Info().
		Str("url", doc.URL).
		Dur("elapsed", time.Since(start)).
		Msg("done")
	return nil
}
