package main

import (
	"context"

	"github.com/spf13/cobra"
)

func withApp(ctx context.Context, a *app) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, appKey{}, a)
}

func appFrom(cmd *cobra.Command) *app {
	if cmd.Context() == nil {
		return nil
	}
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}
