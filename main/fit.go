package main

import (
	"fmt"
	"linreg/core/ml"

	"github.com/spf13/cobra"
)

func runFit(cmd *cobra.Command) error {
	ds, _, err := loadData()
	if err != nil {
		return err
	}
	theta, err := ml.LeastSquares(ds)
	if err != nil {
		return err
	}
	j, err := ml.Cost(ds, theta)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "theta: %.9f,%.9f\ncost: %.9f\n", theta[0], theta[1], j)
	return nil
}

func fitCMD() *cobra.Command {
	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "closed-form least squares fit",
		Long:  "print the ordinary least squares theta, the point gradient descent converges to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFit(cmd)
		},
	}
	flagList := []string{
		"data",
		"format",
		"header",
	}
	attachFlags(fitCmd, flagList)
	return fitCmd
}
