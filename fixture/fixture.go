// Package fixture loads golden encoding tables from YAML and checks
// the encoder and decoder against them. Each table pins the exact byte
// or word patterns a set of instructions must produce.
package fixture

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/svesim/insts"
)

// Suite kinds.
const (
	KindT32 = "t32"
	KindA64 = "a64"
)

// Suite is one golden table.
type Suite struct {
	// Name identifies the table in failure messages.
	Name string `yaml:"name"`

	// Kind selects the verification rules: "t32" for conditional
	// halfword pairs, "a64" for 32-bit words.
	Kind string `yaml:"kind"`

	Cases []Case `yaml:"cases"`
}

// Case is a single golden entry. T32 cases carry the condition, the
// two low registers, and the expected four bytes. A64 cases carry the
// expected word and optionally its disassembly.
type Case struct {
	Name string `yaml:"name"`

	Cond  string `yaml:"cond,omitempty"`
	Rn    uint8  `yaml:"rn,omitempty"`
	Rm    uint8  `yaml:"rm,omitempty"`
	Bytes []byte `yaml:"bytes,omitempty"`

	Word uint32 `yaml:"word,omitempty"`
	Asm  string `yaml:"asm,omitempty"`
}

// Load reads a suite from a YAML file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if s.Kind != KindT32 && s.Kind != KindA64 {
		return nil, fmt.Errorf("fixture %q: unknown kind %q", s.Name, s.Kind)
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("fixture %q has no cases", s.Name)
	}
	return &s, nil
}

// Verify checks every case. It reports the first failure.
func (s *Suite) Verify() error {
	for i := range s.Cases {
		c := &s.Cases[i]
		var err error
		switch s.Kind {
		case KindT32:
			err = verifyT32(c)
		case KindA64:
			err = verifyA64(c)
		}
		if err != nil {
			return fmt.Errorf("%s/%s: %w", s.Name, c.Name, err)
		}
	}
	return nil
}

// verifyT32 checks the conditional cmn pair both ways: the encoder
// must produce the golden bytes, and the decoder must recover the
// operands from them.
func verifyT32(c *Case) error {
	cond, err := insts.ParseCond(c.Cond)
	if err != nil {
		return err
	}

	got, err := insts.EncodeConditionalCMN(cond, c.Rn, c.Rm)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, c.Bytes) {
		return fmt.Errorf("encoded % x, want % x", got, c.Bytes)
	}

	backCond, backRn, backRm, err := insts.DecodeConditionalCMN(c.Bytes)
	if err != nil {
		return err
	}
	if backCond != cond || backRn != c.Rn || backRm != c.Rm {
		return fmt.Errorf("decoded %v r%d r%d, want %v r%d r%d",
			backCond, backRn, backRm, cond, c.Rn, c.Rm)
	}
	return nil
}

// verifyA64 checks that the word decodes, optionally that it
// disassembles to the recorded text, and that re-encoding the decoded
// form reproduces the word exactly.
func verifyA64(c *Case) error {
	inst, err := insts.NewDecoder().Decode(c.Word)
	if err != nil {
		return fmt.Errorf("decode 0x%08X: %w", c.Word, err)
	}

	if c.Asm != "" && inst.String() != c.Asm {
		return fmt.Errorf("disassembled %q, want %q", inst.String(), c.Asm)
	}

	back, err := insts.NewEncoder().Encode(inst)
	if err != nil {
		return fmt.Errorf("re-encode %v: %w", inst, err)
	}
	if back != c.Word {
		return fmt.Errorf("re-encoded 0x%08X, want 0x%08X", back, c.Word)
	}
	return nil
}
