package isa

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes an instruction written either as a bare mnemonic
// ("print") or as a one-key mapping carrying the literal ("const: 334").
func (i *Inst) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		op, err := ParseOp(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if op == OpConst {
			return fmt.Errorf("line %d: %s needs a literal", node.Line, op)
		}
		*i = Inst{Op: op}
		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: instruction mapping must have exactly one key", node.Line)
		}
		op, err := ParseOp(node.Content[0].Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if op != OpConst {
			return fmt.Errorf("line %d: %s takes no literal", node.Line, op)
		}
		var n int64
		if err := node.Content[1].Decode(&n); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if n < math.MinInt32 || n > math.MaxUint32 {
			return fmt.Errorf("line %d: literal %d out of 32-bit range", node.Line, n)
		}
		*i = Const(int32(uint32(n)))
		return nil

	default:
		return fmt.Errorf("line %d: unexpected instruction node", node.Line)
	}
}

// MarshalYAML is the inverse of UnmarshalYAML.
func (i Inst) MarshalYAML() (interface{}, error) {
	if !i.Op.Valid() {
		return nil, fmt.Errorf("unknown op %d", uint8(i.Op))
	}
	name := i.Op.String()[len("i32."):]
	if i.Op == OpConst {
		return map[string]int32{name: i.Value}, nil
	}
	return name, nil
}
