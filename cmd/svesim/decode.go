package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/svesim/insts"
	"github.com/sarchlab/svesim/loader"
)

func newDecodeCmd() *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "decode [word ...]",
		Short: "Disassemble 32-bit instruction words",
		Long: `Disassemble instruction words given as hexadecimal arguments, or a
whole image with --image. Unallocated and reserved encodings are
reported per word.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var words []uint32

			if imagePath != "" {
				prog, err := loader.Load(imagePath, 0)
				if err != nil {
					return err
				}
				words = prog.Words
			}
			for _, arg := range args {
				v, err := strconv.ParseUint(
					strings.TrimPrefix(arg, "0x"), 16, 32)
				if err != nil {
					return fmt.Errorf("bad word %q: %w", arg, err)
				}
				words = append(words, uint32(v))
			}
			if len(words) == 0 {
				return errors.New("nothing to decode")
			}

			dec := insts.NewDecoder()
			out := cmd.OutOrStdout()
			for i, w := range words {
				inst, err := dec.Decode(w)
				if err != nil {
					var dErr *insts.DecodingError
					kind := "undecodable"
					if errors.As(err, &dErr) {
						kind = dErr.Kind.String()
					}
					fmt.Fprintf(out, "%4d: %08X  <%s>\n", i, w, kind)
					continue
				}
				fmt.Fprintf(out, "%4d: %08X  %s\n", i, w, inst)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "",
		"decode every word of a program image")
	return cmd
}
