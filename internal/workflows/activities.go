package workflows

import (
	"context"
	"fmt"

	"github.com/shopwindow/shopwindow/internal/core/ports"
	"github.com/shopwindow/shopwindow/internal/core/usecases"
)

// BackfillActivities holds the activity implementations for the
// geocode backfill workflow.
type BackfillActivities struct {
	Centers     *usecases.CenterService
	CenterStore ports.CenterRepository
}

// ListUngeocodedCenters returns the IDs of every center that has an
// address on file but no coordinates yet.
func (a *BackfillActivities) ListUngeocodedCenters(ctx context.Context) ([]int64, error) {
	centers, err := a.CenterStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	var ids []int64
	for _, c := range centers {
		if !c.Geocoded() && !c.Address.Empty() {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

// GeocodeCenter resolves and persists coordinates for one center.
// Delegates to the CenterService, which validates the result and
// publishes the geocoded event.
func (a *BackfillActivities) GeocodeCenter(ctx context.Context, centerID int64) error {
	if _, err := a.Centers.Geocode(ctx, centerID); err != nil {
		return fmt.Errorf("geocode center %d: %w", centerID, err)
	}
	return nil
}
