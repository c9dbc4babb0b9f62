package maps

import (
	"context"

	"github.com/fieldrover/routeman/core/model"
)

// Source provides a one-shot view of the static map published by the
// localization stack. Both reads block until the provider has published;
// there is no refresh after startup, the environment is assumed static for
// the duration of the run.
type Source interface {
	// Metadata blocks until the map metadata is available.
	Metadata(ctx context.Context) (model.MapMetaData, error)

	// Grid blocks until the occupancy grid is available.
	Grid(ctx context.Context) (*model.OccupancyGrid, error)
}
