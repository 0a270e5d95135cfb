package dashboard

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks that the chart can be rendered: it needs a title, a known
// kind, and every dataset must carry exactly one value per label.
func (c ChartData) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidChart)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidChart, c.Kind)
	}
	for i, ds := range c.Datasets {
		if len(ds.Data) != len(c.Labels) {
			return fmt.Errorf("%w: dataset %d has %d values for %d labels",
				ErrInvalidChart, i, len(ds.Data), len(c.Labels))
		}
	}
	return nil
}

// Apply returns a copy of c with the non-nil fields of p applied.
func (p ChartPatch) Apply(c ChartData) ChartData {
	out := c.clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Kind != nil {
		out.Kind = *p.Kind
	}
	if p.Labels != nil {
		out.Labels = slices.Clone(p.Labels)
	}
	if p.Datasets != nil {
		out.Datasets = cloneDatasets(p.Datasets)
	}
	return out
}

func (c ChartData) clone() ChartData {
	out := c
	out.Labels = slices.Clone(c.Labels)
	out.Datasets = cloneDatasets(c.Datasets)
	return out
}

func cloneDatasets(in []Dataset) []Dataset {
	if in == nil {
		return nil
	}
	out := make([]Dataset, len(in))
	for i, ds := range in {
		out[i] = ds
		out[i].Data = slices.Clone(ds.Data)
		out[i].BackgroundColor = slices.Clone(ds.BackgroundColor)
		out[i].BorderColor = slices.Clone(ds.BorderColor)
	}
	return out
}

func cloneCharts(in []ChartData) []ChartData {
	out := make([]ChartData, len(in))
	for i, c := range in {
		out[i] = c.clone()
	}
	return out
}
