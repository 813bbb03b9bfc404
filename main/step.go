package main

import (
	"fmt"
	"linreg/core/ml"

	"github.com/spf13/cobra"
)

func runStep(cmd *cobra.Command) error {
	ds, theta, err := loadData()
	if err != nil {
		return err
	}
	next, err := ml.GradientDescent(ds, alphaFlag, theta)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%.9f,%.9f\n", next[0], next[1])
	return nil
}

func stepCMD() *cobra.Command {
	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "one gradient descent update",
		Long:  "print theta - alpha * grad J(theta); run it repeatedly, or use train, to reach the minimum",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStep(cmd)
		},
	}
	flagList := []string{
		"data",
		"format",
		"header",
		"theta",
		"alpha",
	}
	attachFlags(stepCmd, flagList)
	return stepCmd
}
