package globals

import (
	"context"
	"olasagents-backend/services/registry"
)

type key struct{}

type Value struct {
	Config   registry.Config
	Registry *registry.Service
	Verbose  bool
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
