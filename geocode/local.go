package geocode

import (
	"context"

	"sperrmuell/models"
	"sperrmuell/sources/osmindex"
	"sperrmuell/utils"
)

// Local resolves addresses against the index built from the OSM extract.
type Local struct {
	index  *osmindex.AddressIndex
	logger *utils.Logger
}

func NewLocal(index *osmindex.AddressIndex, logger *utils.Logger) *Local {
	return &Local{index: index, logger: logger}
}

func (l *Local) Resolve(ctx context.Context, address string) (models.Point, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Point{}, false, err
	}
	c, ok := l.index.Lookup(address)
	if !ok {
		l.logger.Debug("[geocode] Not in index: %s", address)
		return models.Point{}, false, nil
	}
	return models.Point{Label: address, Lat: c.Lat, Lon: c.Lon}, true, nil
}
