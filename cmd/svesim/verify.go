package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/svesim/fixture"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <table.yaml> ...",
		Short: "Check golden encoding tables against the codec",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failures := 0
			for _, path := range args {
				s, err := fixture.Load(path)
				if err != nil {
					return err
				}
				if err := s.Verify(); err != nil {
					log.WithError(err).Errorf("table %s failed", path)
					failures++
					continue
				}
				log.Infof("table %s: %d cases ok", path, len(s.Cases))
			}
			if failures > 0 {
				return fmt.Errorf("%d table(s) failed", failures)
			}
			return nil
		},
	}
}
