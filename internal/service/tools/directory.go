package tools

import (
	"context"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/service/directory"
	"github.com/campushq/campusbot/pkg/log"
)

// DirectoryChain resolves "who do I ask" questions against the static
// department table. It never returns an empty result: when nothing
// matches, the main office entry is the answer.
type DirectoryChain struct {
	directory *directory.Directory
}

func NewDirectoryChain(dir *directory.Directory) *DirectoryChain {
	return &DirectoryChain{directory: dir}
}

func (d *DirectoryChain) Run(ctx context.Context, query string, history []core.Turn) (core.Answer, error) {
	entry, matched := d.directory.Match(query)
	if !matched {
		log.FromCtx(ctx).Debug().Msg("no department keyword matched, using default entry")
	}

	return core.Answer{
		Text:   directory.Format(entry),
		Source: core.RouteDirectory,
	}, nil
}
