package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ragent-ai/ragent/config"
	"github.com/ragent-ai/ragent/internal/agent"
	srv "github.com/ragent-ai/ragent/internal/server"
	"github.com/ragent-ai/ragent/internal/telemetry"
)

func askCMD() *cobra.Command {
	var cfgPath string
	var contextID string
	var ask = &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question from the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			ag, err := srv.BuildAgent(cfg, telemetry.New(prometheus.NewRegistry()))
			if err != nil {
				return err
			}

			question := strings.Join(args, " ")
			_, err = ag.Run(cmd.Context(), contextID, question, func(ev agent.Event) error {
				if ev.IsTaskComplete || ev.RequireUserInput {
					fmt.Fprintln(cmd.OutOrStdout(), ev.Content)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), ev.Content)
				}
				return nil
			})
			return err
		},
	}
	ask.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config or .)")
	ask.Flags().StringVar(&contextID, "context", "", "conversation id to continue")

	return ask
}
