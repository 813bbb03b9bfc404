package main

import (
	"fmt"
	"linreg/core/ml"

	"github.com/spf13/cobra"
)

func runCost(cmd *cobra.Command) error {
	ds, theta, err := loadData()
	if err != nil {
		return err
	}
	j, err := ml.Cost(ds, theta)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%.9f\n", j)
	return nil
}

func costCMD() *cobra.Command {
	costCmd := &cobra.Command{
		Use:   "cost",
		Short: "evaluate J(theta)",
		Long:  "print the mean squared error cost 1/(2m) * sum((theta0 + theta1*x - y)^2) of theta over the data set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCost(cmd)
		},
	}
	flagList := []string{
		"data",
		"format",
		"header",
		"theta",
	}
	attachFlags(costCmd, flagList)
	return costCmd
}
