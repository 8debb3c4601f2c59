package dag

import (
	"context"
)

// Payload is the opaque structured value passed between nodes.
type Payload = map[string]any

// Unit is the contract every pluggable analysis implementation satisfies.
// The engine never interprets what a unit computes.
type Unit interface {
	// Validate is a pure, side-effect-free check that input is well-formed
	// for this unit.
	Validate(input Payload) bool
	// Run executes the unit's domain logic. It may perform I/O and must be
	// safely callable once per node result.
	Run(ctx context.Context, input Payload) (Payload, error)
}

// Builder constructs a Unit from a node's configuration map. Builders run
// once per node id for the lifetime of an Engine; a failed construction
// aborts engine setup.
type Builder func(cfg map[string]any) (Unit, error)

// UnitFunc adapts plain functions into a Unit. A nil validate accepts every
// input.
func UnitFunc(validate func(Payload) bool, run func(ctx context.Context, input Payload) (Payload, error)) Unit {
	return &funcUnit{validate: validate, run: run}
}

type funcUnit struct {
	validate func(Payload) bool
	run      func(ctx context.Context, input Payload) (Payload, error)
}

func (u *funcUnit) Validate(input Payload) bool {
	if u.validate == nil {
		return true
	}
	return u.validate(input)
}

func (u *funcUnit) Run(ctx context.Context, input Payload) (Payload, error) {
	return u.run(ctx, input)
}
