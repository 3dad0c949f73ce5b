package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vsixinstall/internal/config"
	"vsixinstall/internal/editor"
	"vsixinstall/internal/utils"
)

var (
	cfgFile     string
	installFlag bool
	urlOnly     bool
	verbose     bool

	rootCmd = &cobra.Command{
		Use:   "vsixinstall [-i] [-e editor] <publisher.extension>",
		Short: "Downloads a VS Code extension from the Marketplace and optionally installs it",
		Long: `Resolves a Marketplace extension identifier to its .vsix package, downloads it
to <extension>.vsix and, with -i, installs it with the code, codium or vscodium CLI.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identifier, ok := selectIdentifier(args)
			if !ok {
				return errMissingIdentifier
			}
			cmd.SilenceUsage = true

			cfg := config.GetConfig()
			if verbose {
				cfg.LogLevel = "debug"
			}
			return runInstall(cmd.Context(), cmd.OutOrStdout(), cfg, installOptions{
				Identifier: identifier,
				Install:    installFlag,
				URLOnly:    urlOnly,
			}, defaultDependencies(cfg))
		},
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.BoolVarP(&installFlag, "install", "i", false, "install the extension after download")
	flags.StringP("editor", "e", "", "editor CLI to install with (default: first of code, codium, vscodium)")
	flags.StringP("output", "o", ".", "directory to write the .vsix package to")
	flags.String("marketplace", "microsoft", "marketplace to resolve from: microsoft, gallery or open-vsx")
	flags.BoolVar(&urlOnly, "url-only", false, "print the resolved download URL and exit")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default ./config.yaml)")

	viper.BindPFlag("editor.command", flags.Lookup("editor"))
	viper.BindPFlag("output.directory", flags.Lookup("output"))
	viper.BindPFlag("marketplace.type", flags.Lookup("marketplace"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("vsixinstall")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

func defaultDependencies(cfg config.Config) dependencies {
	return dependencies{
		lookup: editor.LookPath,
		runner: editor.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr},
		logger: utils.NewLogger(os.Stderr, cfg.LogLevel),
	}
}
