package store

import "context"

// NopBackend is used by the check command. It loads nothing and never writes,
// so every matching posting appears new on each run.
type NopBackend struct{}

func NewNopBackend() *NopBackend { return &NopBackend{} }

func (b *NopBackend) Load(context.Context) ([]string, error) { return nil, nil }
func (b *NopBackend) Save(context.Context, []string) error   { return nil }
