package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/svesim/emu"
	"github.com/sarchlab/svesim/insts"
	"github.com/sarchlab/svesim/loader"
)

func newRunCmd() *cobra.Command {
	var (
		entry   uint64
		maxInst uint64
		dumpX   []uint
	)

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Execute a flat program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !insts.ValidVL(flagVL) {
				return fmt.Errorf("invalid vector length %d", flagVL)
			}

			prog, err := loader.Load(args[0], entry)
			if err != nil {
				return err
			}

			e := emu.NewEmulator(
				emu.WithVectorLength(flagVL),
				emu.WithLogger(log),
				emu.WithMaxInstructions(maxInst),
			)
			e.LoadProgram(prog.EntryPoint, prog.Bytes())

			log.WithFields(logrus.Fields{
				"image": args[0],
				"words": len(prog.Words),
				"entry": fmt.Sprintf("0x%X", prog.EntryPoint),
				"vl":    flagVL,
			}).Info("starting emulation")

			result := e.Run()
			if result.Err != nil {
				return result.Err
			}

			log.WithFields(logrus.Fields{
				"exit-code":    result.ExitCode,
				"instructions": e.InstructionCount(),
			}).Info("program halted")

			for _, r := range dumpX {
				if r >= insts.NumGPRegs {
					return fmt.Errorf("no such register x%d", r)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "x%d = 0x%016X\n",
					r, e.RegFile().ReadReg(uint8(r)))
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&entry, "entry", 0, "load address and entry point")
	cmd.Flags().Uint64Var(&maxInst, "max-instructions", 0,
		"instruction budget, 0 for unlimited")
	cmd.Flags().UintSliceVar(&dumpX, "dump-x", nil,
		"scalar registers to print after the program halts")
	return cmd
}
