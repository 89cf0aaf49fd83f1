package main

import (
	"context"
	"os"
)

type workDirKey struct{}

// withWorkDir records the directory commands resolve repositories and
// relative paths against.
func withWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// workDirFromContext returns the directory set by withWorkDir, or the
// process working directory.
func workDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok && dir != "" {
		return dir
	}
	dir, _ := os.Getwd()
	return dir
}
