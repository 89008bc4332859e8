// Command minerva is the interactive client of the Minerva show-control
// server: a runtime viewer over the live push channel plus one-shot show
// commands.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/decode-detroit/minerva-sub000/internal/api"
	"github.com/decode-detroit/minerva-sub000/internal/config"
	"github.com/decode-detroit/minerva-sub000/internal/item"
	"github.com/decode-detroit/minerva-sub000/internal/livesync"
	"github.com/decode-detroit/minerva-sub000/internal/tui"
	"github.com/decode-detroit/minerva-sub000/internal/version"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "minerva",
		Short:         "Client for the Minerva show-control server",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to client.yaml")

	loadConfig := func() (*config.ClientConfig, error) {
		if configPath == "" {
			return config.Default(), nil
		}
		return config.Load(configPath)
	}

	var delaySecs uint64
	cueCmd := &cobra.Command{
		Use:   "cue <id>",
		Short: "Cue an event on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api.NewClient(cfg.ServerAddress()).CueEvent(id, item.Delay{Secs: delaySecs})
			return nil
		},
	}
	cueCmd.Flags().Uint64Var(&delaySecs, "delay", 0, "delay before the cue, in seconds")

	sceneCmd := &cobra.Command{
		Use:   "scene <id>",
		Short: "Switch the server to another scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api.NewClient(cfg.ServerAddress()).SceneChange(id)
			return nil
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Ask the server to close the program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			api.NewClient(cfg.ServerAddress()).Close()
			return nil
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Open the read-only runtime viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Printf("minerva: viewing %s", cfg.ServerAddress())

			client := api.NewClient(cfg.ServerAddress())
			channel := livesync.NewChannel(cfg.ListenURL(),
				livesync.WithRetryInterval(cfg.RetryInterval()))
			return tui.Run(client, channel)
		},
	}

	root.AddCommand(viewCmd, cueCmd, sceneCmd, closeCmd)
	return root
}

func parseID(s string) (item.ID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return item.ID(v), nil
}
