package main

import (
	"moviesort/internal/config"
	"moviesort/internal/gui"
	"moviesort/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	logJSON bool
	cfg     *config.Config
)

// NewRootCmd creates the root command. Without a subcommand it opens the
// desktop window.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "moviesort",
		Short:   "Organize a movie folder with one click",
		Long:    `Moviesort opens a small window with a single button. Pick a directory and the organizer script sorts the movies inside it.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// config init creates the file, so it may not exist yet.
			return setup(cmd.Name() != "init")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				log.Info("Built without a window toolkit, starting the terminal interface")
				return runTUI("")
			}
			return runGUI()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/moviesort/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewOrganizeCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// setup loads the configuration and configures logging from it and the
// global flags. With requireFile set, a --config path that does not exist is
// an error.
func setup(requireFile bool) error {
	var err error
	if cfgFile != "" {
		if requireFile {
			if err := config.RequireFile(cfgFile); err != nil {
				return err
			}
		}
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	var opts []log.Option
	if logJSON || cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)
	log.SetDebug(debug || cfg.Log.Debug)
	log.Debugf("moviesort %s", version)
	return nil
}

// configPath returns the config file in use.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}
