package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/oews-cli/internal/catalog"
	"github.com/sells-group/oews-cli/internal/config"
	"github.com/sells-group/oews-cli/internal/model"
	"github.com/sells-group/oews-cli/internal/report"
	"github.com/sells-group/oews-cli/internal/series"
)

// Plan is the resolved set of series to request and the names used to label
// the results.
type Plan struct {
	Axes   series.Axes
	Series []model.SeriesMeta
	Labels report.Labels
}

// BuildPlan resolves the code axes from the catalog and series settings.
// Explicit area or occupation lists restrict the catalog group and must name
// known codes.
func BuildPlan(cfg config.SeriesConfig, cat *catalog.Catalog) (*Plan, error) {
	areas, err := cat.Areas(cfg.AreaType, cfg.AreaGroup)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: resolve areas")
	}
	if len(cfg.Areas) > 0 {
		if areas, err = areas.Subset(cfg.Areas); err != nil {
			return nil, eris.Wrap(err, "pipeline: select areas")
		}
	}

	occupations, err := cat.Occupations(cfg.OccupationGroup)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: resolve occupations")
	}
	if len(cfg.Occupations) > 0 {
		if occupations, err = occupations.Subset(cfg.Occupations); err != nil {
			return nil, eris.Wrap(err, "pipeline: select occupations")
		}
	}

	axes := series.Axes{
		Prefix:      cfg.Prefix,
		Industry:    cfg.Industry,
		Areas:       areas.Codes(),
		Occupations: occupations.Codes(),
		DataTypes:   append([]string(nil), cfg.DataTypes...),
	}
	meta, err := series.Generate(axes)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: generate series")
	}

	return &Plan{
		Axes:   axes,
		Series: meta,
		Labels: report.Labels{
			Areas:       areas,
			Occupations: occupations,
			DataTypes:   cat.DataTypes(),
		},
	}, nil
}
