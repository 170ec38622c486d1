package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// BackfillInput bounds a geocode backfill run.
type BackfillInput struct {
	// MaxCenters caps how many centers one run attempts. Zero means
	// everything that is missing coordinates.
	MaxCenters int
	// PauseSeconds is the wait between lookups. Nominatim's usage
	// policy allows one request per second, so the default is 1.
	PauseSeconds int
}

// BackfillResult summarizes a completed run.
type BackfillResult struct {
	Attempted int
	Geocoded  int
	Failed    int
}

// GeocodeBackfillWorkflow walks every center without coordinates and
// geocodes them one at a time. Individual failures are recorded and
// skipped; the workflow only fails if the initial listing does.
func GeocodeBackfillWorkflow(ctx workflow.Context, input BackfillInput) (BackfillResult, error) {
	logger := workflow.GetLogger(ctx)

	pause := time.Duration(input.PauseSeconds) * time.Second
	if pause <= 0 {
		pause = time.Second
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var result BackfillResult

	var ids []int64
	if err := workflow.ExecuteActivity(ctx, "ListUngeocodedCenters").Get(ctx, &ids); err != nil {
		return result, err
	}
	if input.MaxCenters > 0 && len(ids) > input.MaxCenters {
		ids = ids[:input.MaxCenters]
	}
	logger.Info("Starting geocode backfill", "pending", len(ids))

	for i, id := range ids {
		result.Attempted++
		if err := workflow.ExecuteActivity(ctx, "GeocodeCenter", id).Get(ctx, nil); err != nil {
			logger.Warn("Geocode failed, skipping center", "center_id", id, "error", err)
			result.Failed++
		} else {
			result.Geocoded++
		}
		if i < len(ids)-1 {
			if err := workflow.Sleep(ctx, pause); err != nil {
				return result, err
			}
		}
	}

	logger.Info("Geocode backfill finished",
		"attempted", result.Attempted, "geocoded", result.Geocoded, "failed", result.Failed)
	return result, nil
}
