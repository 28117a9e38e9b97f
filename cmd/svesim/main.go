// Package main provides the svesim command line interface: a functional
// simulator and encoding toolbox for a subset of the SVE instruction
// set.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/sarchlab/svesim/emu"
)

var log = logrus.New()

var (
	flagVL       int
	flagLogLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "svesim",
		Short: "Functional SVE subset simulator",
		Long: `svesim runs flat program images on a bit-accurate emulator of a
subset of the SVE instruction set, and exposes the instruction codec
for decoding words and verifying golden tables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(flagLogLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}

	root.PersistentFlags().IntVar(&flagVL, "vl",
		env.Int("SVESIM_VL", emu.DefaultVL),
		"vector length in bits (multiple of 128, up to 2048)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level",
		env.Str("SVESIM_LOG_LEVEL", "info"),
		"log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newVerifyCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
