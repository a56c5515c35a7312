package commands

import (
	"context"
	"log/slog"
)

//go:generate mockgen -source=directory.go -destination=../../../tests/mock/commands/directory.go -package=commandsmock

type DirectoryCommands interface {
	InvalidateSchemaCache(ctx context.Context) int
}

type directoryUseCaseImpl struct {
	caches []ResolverCache
}

func NewDirectoryUseCase(caches ...ResolverCache) DirectoryCommands {
	return &directoryUseCaseImpl{caches: caches}
}

// InvalidateSchemaCache drops every cached directory mapping and reports how
// many caches were flushed.
func (uc *directoryUseCaseImpl) InvalidateSchemaCache(ctx context.Context) int {
	n := 0
	for _, c := range uc.caches {
		if c == nil {
			continue
		}
		c.Invalidate()
		n++
	}
	slog.InfoContext(ctx, "directory schema cache invalidated", "caches", n)
	return n
}
