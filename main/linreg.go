package main

import (
	"fmt"
	"linreg/common"
	"linreg/core/dataset"
	"linreg/core/ml"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var flags *pflag.FlagSet

var (
	cfgPathFlag string
	dataFlag    string
	formatFlag  string
	headerFlag  bool
	thetaFlag   []float64
	alphaFlag   float64
)

func init() {
	resetFlags()
}

// Explicitly define a method to facilitate tests
func resetFlags() {
	flags = &pflag.FlagSet{}

	flags.StringVarP(&cfgPathFlag, "config", "c", "",
		"linreg config path, default $LINREG_CFG_PATH/linreg_config.yaml")
	flags.StringVarP(&dataFlag, "data", "d", "",
		"data set file, csv (x,y per line) or json ([{\"x\":..,\"y\":..}])")
	flags.StringVarP(&formatFlag, "format", "f", "",
		"data set format: csv or json, inferred from the extension when empty")
	flags.BoolVar(&headerFlag, "header", false,
		"skip the first csv line")
	flags.Float64SliceVarP(&thetaFlag, "theta", "t", []float64{0, 0},
		"parameter vector theta0,theta1")
	flags.Float64VarP(&alphaFlag, "alpha", "a", 0.01,
		"learning rate")
}

func attachFlags(cmd *cobra.Command, names []string) {
	cmdFlags := cmd.Flags()
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			cmdFlags.AddFlag(flag)
		} else {
			panic(fmt.Errorf("Could not find flag '%s' to attach to command '%s'", name, cmd.Name()))
		}
	}
}

// loadData reads the --data file and the --theta vector shared by the
// single-shot commands.
func loadData() (ml.DataSet, ml.Theta, error) {
	if dataFlag == "" {
		return nil, nil, fmt.Errorf("--data is required")
	}
	ds, err := dataset.LoadFile(dataFlag, formatFlag, headerFlag)
	if err != nil {
		return nil, nil, err
	}
	common.GetLogger(common.MODULE_REGRESS).Debugf("%d observations, theta=%v", len(ds), thetaFlag)
	return ds, ml.Theta(thetaFlag).Clone(), nil
}

func newMainCmd() *cobra.Command {
	mainCmd := &cobra.Command{
		Use:          "linreg",
		Short:        "single-variable linear regression by batch gradient descent",
		SilenceUsage: true,
	}
	mainCmd.AddCommand(trainCMD())
	mainCmd.AddCommand(costCMD())
	mainCmd.AddCommand(stepCMD())
	mainCmd.AddCommand(fitCMD())
	return mainCmd
}

func main() {
	if newMainCmd().Execute() != nil {
		os.Exit(1)
	}
}
