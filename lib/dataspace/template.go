package dataspace

import (
	"fmt"
	"strings"
)

// countVerbs returns how many operands a printf template consumes. A '*' width or
// precision consumes one operand of its own. Explicit argument indexes ("%[2]s") are
// rejected because they make the split between key and value operands ambiguous.
func countVerbs(tmpl string) (int, error) {
	n := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		i++
		for ; i < len(tmpl); i++ {
			c := tmpl[i]
			if c == '[' {
				return 0, fmt.Errorf("%w: explicit argument index in %q", ErrTemplateArgs, tmpl)
			}
			if c == '*' {
				n++
				continue
			}
			if strings.IndexByte("+-# 0123456789.", c) < 0 {
				break
			}
		}
		if i >= len(tmpl) {
			return 0, fmt.Errorf("%w: dangling %% in %q", ErrTemplateArgs, tmpl)
		}
		if tmpl[i] != '%' {
			n++
		}
	}
	return n, nil
}

// render interpolates a single template and requires the operand count to match.
func render(tmpl string, args []interface{}) (string, error) {
	n, err := countVerbs(tmpl)
	if err != nil {
		return "", err
	}
	if n != len(args) {
		return "", fmt.Errorf("%w: %q wants %d, got %d", ErrTemplateArgs, tmpl, n, len(args))
	}
	return fmt.Sprintf(tmpl, args...), nil
}

// renderPair interpolates a key template and a value template from one argument list.
// The key consumes the leading operands, the value the rest; together they must use
// every argument.
func renderPair(keyTmpl, valueTmpl string, args []interface{}) (key, val string, err error) {
	nk, err := countVerbs(keyTmpl)
	if err != nil {
		return "", "", err
	}
	nv, err := countVerbs(valueTmpl)
	if err != nil {
		return "", "", err
	}
	if nk+nv != len(args) {
		return "", "", fmt.Errorf("%w: key %q and value %q want %d, got %d",
			ErrTemplateArgs, keyTmpl, valueTmpl, nk+nv, len(args))
	}
	return fmt.Sprintf(keyTmpl, args[:nk]...), fmt.Sprintf(valueTmpl, args[nk:]...), nil
}
