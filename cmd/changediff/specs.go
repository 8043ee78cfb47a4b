package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/jsonl"
)

// ErrNoChangesetSpecs is returned when there is nothing to show.
var ErrNoChangesetSpecs = errors.New("no changeset specs")

// SpecsApp collects the changeset specs of a campaign spec, either from the
// server or from a JSONL file, and shows them.
type SpecsApp struct {
	Source       changediff.ChangesetSpecSource
	Viewer       changediff.Viewer
	CampaignSpec string
	File         string // read specs from this JSONL file instead of Source
	Save         string // write the collected specs to this JSONL file
	PageSize     int
}

// Specs returns every changeset spec, paging through Source until the last
// page.
func (a *SpecsApp) Specs(ctx context.Context) ([]changediff.ChangesetSpec, error) {
	var specs []changediff.ChangesetSpec
	if a.File != "" {
		loaded, err := jsonl.NewLoader().Load(a.File)
		if err != nil {
			return nil, err
		}
		specs = loaded
	} else {
		fetched, err := a.fetch(ctx)
		if err != nil {
			return nil, err
		}
		specs = fetched
	}
	if len(specs) == 0 {
		return nil, ErrNoChangesetSpecs
	}
	return specs, nil
}

func (a *SpecsApp) fetch(ctx context.Context) ([]changediff.ChangesetSpec, error) {
	first := a.PageSize
	if first <= 0 {
		first = DefaultPageSize
	}

	var specs []changediff.ChangesetSpec
	var after *string
	for {
		conn, err := a.Source.CampaignSpecChangesetSpecs(ctx, a.CampaignSpec, first, after)
		if err != nil {
			return nil, fmt.Errorf("campaign spec %s: %w", a.CampaignSpec, err)
		}
		if conn == nil {
			return nil, fmt.Errorf("campaign spec %s: %w", a.CampaignSpec, changediff.ErrNoData)
		}
		specs = append(specs, conn.Nodes...)
		if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == nil {
			return specs, nil
		}
		after = conn.PageInfo.EndCursor
	}
}

// Run collects the specs, saves them if asked, and hands them to the viewer.
func (a *SpecsApp) Run(ctx context.Context) error {
	specs, err := a.Specs(ctx)
	if err != nil {
		return err
	}
	if a.Save != "" {
		if err := save(a.Save, specs); err != nil {
			return fmt.Errorf("save %s: %w", a.Save, err)
		}
	}
	return a.Viewer.ViewChangesetSpecs(ctx, specs)
}

func save(path string, specs []changediff.ChangesetSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jsonl.Write(f, specs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
