package main

import (
	"fmt"
	"linreg/core/config"
	"linreg/session"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func runTrain(cmd *cobra.Command) error {
	lc, err := config.InitLocalConfig(cmd)
	if err != nil {
		return err
	}

	s := session.Session{}
	if err = s.Init(lc); err != nil {
		return err
	}
	defer s.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := s.Start(ctx)
	if sum != nil {
		res := sum.Result
		fmt.Fprintf(cmd.OutOrStdout(), "theta: %v\ncost: %.9f\niterations: %d\nconverged: %v\nr2: %.6f\n",
			[]float64(res.Theta), res.Cost, res.Iterations, res.Converged, sum.RSquared)
	}
	return err
}

func trainCMD() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "train a model",
		Long:  "iterate gradient descent over the configured data set until it converges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd)
		},
	}
	flagList := []string{
		"config",
	}
	attachFlags(trainCmd, flagList)
	return trainCmd
}
