package parser

import (
	"github.com/parsekit/squery/pkg/clause"
	"github.com/parsekit/squery/pkg/field"
)

// expandAndValidate applies default_field injection and, if a field
// registry is configured, alias expansion and value validation (spec
// §4.3) to every clause in tree, recursing into groups.
func (p *Parser) expandAndValidate(tree *clause.Tree, input string) (*clause.Tree, error) {
	if p.cfg.DefaultField != "" {
		applyDefaultField(tree, p.cfg.DefaultField)
	}
	if p.cfg.Fields != nil {
		if err := expandTree(tree, p.cfg.Fields, p.cfg.Sloppy, input); err != nil {
			return tree, err
		}
	}
	return tree, nil
}

func applyDefaultField(t *clause.Tree, def string) {
	t.Walk(func(c *clause.Clause, _ *clause.Tree, _ string) {
		if !c.IsGroup() && c.Field == "" {
			c.Field = def
		}
	})
}

// expandTree walks every bucket of t, renaming or fanning out aliased
// fields (spec §4.3: a single alias target renames the leaf in place; two
// or more fan it out into an OR group of one leaf per target) and
// validating values against the matching descriptor.
func expandTree(t *clause.Tree, reg *field.Registry, sloppy bool, input string) error {
	if t == nil {
		return nil
	}
	for _, cs := range [][]*clause.Clause{t.Must, t.Should, t.MustNot} {
		if err := expandBucket(cs, reg, sloppy, t, input); err != nil {
			return err
		}
	}
	return nil
}

func expandBucket(cs []*clause.Clause, reg *field.Registry, sloppy bool, parent *clause.Tree, input string) error {
	for i, c := range cs {
		if c.IsGroup() {
			if err := expandTree(c.Sub, reg, sloppy, input); err != nil {
				return err
			}
			continue
		}
		if c.Field == "" {
			continue
		}
		d, ok := reg.Get(c.Field)
		if !ok {
			if sloppy {
				// An unknown field under sloppy recovery can't be honored
				// as a field:value pair, so it degrades to a bare scalar
				// term carrying just the value (spec §4.3 step 2 "leave
				// as-is" — read here as "as a plain term", matching the
				// sloppy-mode contract that a search box with a typo'd
				// field should still search rather than error).
				c.Field = ""
				c.Op = clause.OpContains
				continue
			}
			return fieldErr(input, "unknown field %q", c.Field)
		}
		if err := validateValue(d, c, input); err != nil {
			return err
		}
		switch len(d.AliasFor) {
		case 0:
			// canonical field, nothing to rewrite
		case 1:
			c.Field = d.AliasFor[0]
			if target, ok := reg.Get(c.Field); ok {
				if err := validateValue(target, c, input); err != nil {
					return err
				}
			}
		default:
			sub := clause.NewTree(parent.Dialect)
			sub.Options = parent.Options
			sub.Fields = parent.Fields
			for _, alias := range d.AliasFor {
				clone := c.Clone()
				clone.Field = alias
				sub.AddOrClause(clone)
			}
			cs[i] = &clause.Clause{Op: clause.OpGroup, Sub: sub}
		}
	}
	return nil
}

func validateValue(d *field.Descriptor, c *clause.Clause, input string) error {
	if c.Scalar == "" {
		return nil
	}
	if err := d.Validate(c.Scalar); err != nil {
		return fieldErr(input, "%s", err)
	}
	return nil
}
