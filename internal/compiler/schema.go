package compiler

import (
	_ "embed"

	"cuelang.org/go/cue"
)

//go:embed schema.cue
var schemaSource string

// schema compiles the document schema in ctx and returns #Document.
func schema(ctx *cue.Context) (cue.Value, error) {
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, err
	}
	return v.LookupPath(cue.ParsePath("#Document")), nil
}

// validate unifies src with the schema and requires a concrete result.
func validate(ctx *cue.Context, src cue.Value) (cue.Value, error) {
	def, err := schema(ctx)
	if err != nil {
		return cue.Value{}, err
	}
	u := def.Unify(src)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, err
	}
	return u, nil
}
