package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/xlab/treeprint"

	"KisanGPT/app/rag"
)

type DocumentResult struct {
	Path     string
	Source   string
	Chunks   int
	Metadata rag.Metadata
	Err      error
}

type Summary struct {
	Folder    string
	Documents []DocumentResult
	Points    int
	skipped   *multierror.Error
}

// Err lists every skipped document, or nil when all were indexed.
func (s *Summary) Err() error {
	return s.skipped.ErrorOrNil()
}

func (s *Summary) Skipped() []error {
	if s.skipped == nil {
		return nil
	}
	return s.skipped.Errors
}

// Tree renders the run as folder -> document -> details.
func (s *Summary) Tree() string {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%s (%d chunks)", filepath.Base(s.Folder), s.Points))
	for _, d := range s.Documents {
		branch := tree.AddBranch(d.Source)
		if d.Err != nil {
			branch.AddNode("skipped: " + d.Err.Error())
			continue
		}
		branch.AddNode(fmt.Sprintf("chunks: %d", d.Chunks))
		branch.AddNode("topic: " + d.Metadata.Topic)
		if d.Metadata.State != "" {
			branch.AddNode("state: " + d.Metadata.State)
		}
		if d.Metadata.Season != "" {
			branch.AddNode("season: " + d.Metadata.Season)
		}
	}
	return tree.String()
}
