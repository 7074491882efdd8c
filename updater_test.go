package transit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tresjolie.dev/transit"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
	"tresjolie.dev/transit/testutil"
)

func TestUpdateStorage(t *testing.T) {
	for _, backend := range testutil.Backends() {
		t.Run(backend, func(t *testing.T) {
			s := testutil.BuildStorage(t, backend)
			target := transit.NewStorageTarget(s)

			require.NoError(t, target.Seed(context.Background(), &model.Dataset{
				Stops: testutil.BuildStops(t,
					"0001,Keskustori,61.4981,23.7608,,1 3,837,A",
					"0002,Rautatieasema,61.4988,23.7734,,,837,A",
					"0003,Pyynikintori,61.4960,23.7420,,1,837,A",
				),
				Lines: []model.Line{{Name: "1"}, {Name: "3"}},
			}))

			fresh := testutil.BuildStops(t,
				"0001,Keskustori,61.4981,23.7608,Keskusta,1 3,837,A",
				"0002,Rautatieasema,61.4988,23.7734,,,837,A",
				"0004,Hervanta,61.45,23.85,,3 13,837,B",
			)

			result, err := transit.NewUpdater(target).Update(context.Background(), fresh)
			require.NoError(t, err)

			assert.Equal(t, []string{"0004"}, result.Added)
			assert.Equal(t, []string{"0003"}, result.Removed)
			assert.Equal(t, []string{"0001"}, result.Changed())

			stops, err := s.Stops()
			require.NoError(t, err)
			require.Len(t, stops, 3)
			for i, expected := range fresh {
				assert.True(t, expected.Equal(stops[i]), "%s != %s", expected, stops[i])
			}

			// Second run is a no-op.
			result, err = transit.NewUpdater(target).Update(context.Background(), fresh)
			require.NoError(t, err)
			assert.True(t, result.Empty())
		})
	}
}

type recordingTarget struct {
	stops   []model.Stop
	applied []*reconcile.Result
}

func (r *recordingTarget) Stops(ctx context.Context) ([]model.Stop, error) {
	return r.stops, nil
}

func (r *recordingTarget) Apply(ctx context.Context, result *reconcile.Result) error {
	r.applied = append(r.applied, result)
	return nil
}

func TestUpdateDryRun(t *testing.T) {
	target := &recordingTarget{stops: testutil.BuildStops(t, "0001,A,61,23,,,,")}

	updater := transit.NewUpdater(target)
	updater.DryRun = true

	result, err := updater.Update(context.Background(), testutil.BuildStops(t, "0002,B,61,23,,,,"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0002"}, result.Added)
	assert.Equal(t, []string{"0001"}, result.Removed)
	assert.Empty(t, target.applied)
}

func TestUpdateRestrictedFields(t *testing.T) {
	target := &recordingTarget{stops: testutil.BuildStops(t, "0001,A,61,23,,1,,")}

	updater := transit.NewUpdater(target)
	updater.Reconciler.Fields = []model.Field{model.FieldName}

	result, err := updater.Update(context.Background(), testutil.BuildStops(t, "0001,A,61.5,23.5,,1 2,,"))
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Empty(t, target.applied)
}

func TestUpdateDuplicateFresh(t *testing.T) {
	target := &recordingTarget{}

	_, err := transit.NewUpdater(target).Update(context.Background(), []model.Stop{
		{Code: "0001", Name: "A"},
		{Code: "0001", Name: "B"},
	})
	require.Error(t, err)

	var dupErr *reconcile.DuplicateKeyError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "fresh", dupErr.Set)
	assert.Empty(t, target.applied)
}
