package main

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentdocs/docfinder"
)

func rootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "docfinder",
		Short:         "Search and fetch documentation pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringSlice("links", nil, "curated link list URLs")
	cmd.PersistentFlags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	cmd.PersistentFlags().String("user-agent", "", "HTTP User-Agent header")

	cmd.AddCommand(serveCmd(), searchCmd(), fetchCmd())
	return cmd
}

func initConfig(cmd *cobra.Command, cfgFile string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	viper.SetEnvPrefix("DOCFINDER")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.WithMessage(err, "read config")
		}
	}

	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return errors.WithMessage(err, "parse log level")
	}
	log.SetLevel(level)
	return nil
}

func newService() (*docfinder.Service, error) {
	return docfinder.NewService(docfinder.Config{
		LinkListURLs: viper.GetStringSlice("links"),
		Timeout:      viper.GetDuration("timeout"),
		UserAgent:    viper.GetString("user-agent"),
	})
}
