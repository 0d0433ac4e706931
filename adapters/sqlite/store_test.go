package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"morpho/domain/measure"
	"morpho/internal/errors"
	"morpho/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, store.Connect(context.Background()))
	t.Cleanup(func() { store.Disconnect() })
	return store
}

func testRecords() []measure.MeasurementRecord {
	return []measure.MeasurementRecord{
		{
			ExperimentIndex: 1, Condition: "Control", ImageIndex: 1,
			OriginFile: "001_Control_001.csv", OriginRow: 2,
			Parameters: map[string]float64{"Length": 1.5, "Width": 2.0},
		},
		{
			ExperimentIndex: 1, Condition: "Control", ImageIndex: 1,
			OriginFile: "001_Control_001.csv", OriginRow: 3,
			Parameters: map[string]float64{"Length": 2.5, "Width": 3.0},
		},
	}
}

func TestAssayLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.InsertAssay(ctx, "run one", "first import")
	require.NoError(t, err)
	require.NotZero(t, id)

	assay, err := store.GetAssay(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "run one", assay.Name)
	assert.Equal(t, "first import", assay.Description)
	assert.False(t, assay.CreatedAt.IsZero())

	byName, err := store.GetAssayByName(ctx, "run one")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	// Names are not unique; a second insert makes a new row.
	id2, err := store.InsertAssay(ctx, "run one", "")
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)

	assays, err := store.ListAssays(ctx)
	require.NoError(t, err)
	assert.Len(t, assays, 2)
}

func TestGetAssayNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.GetAssay(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestInsertMeasurementsDuplicateGuard(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.InsertAssay(ctx, "assay", "")
	require.NoError(t, err)

	records := testRecords()
	inserted, err := store.InsertMeasurements(ctx, id, records, "001_Control_001.csv", "Control", true)
	require.NoError(t, err)
	assert.Equal(t, 4, inserted, "two records, two parameters each")

	// Same (assay, source file, condition): the whole call is skipped.
	inserted, err = store.InsertMeasurements(ctx, id, records, "001_Control_001.csv", "Control", true)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	count, err := store.GetMeasurementCount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestInsertMeasurementsUniquenessWithoutGuard(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.InsertAssay(ctx, "assay", "")
	require.NoError(t, err)

	records := testRecords()
	_, err = store.InsertMeasurements(ctx, id, records, "001_Control_001.csv", "Control", false)
	require.NoError(t, err)

	// Without the guard the row-level unique constraint still drops exact
	// duplicates on (assay, image, parameter, value).
	inserted, err := store.InsertMeasurements(ctx, id, records, "001_Control_001.csv", "Control", false)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestGetMeasurementsFiltering(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.InsertAssay(ctx, "assay", "")
	require.NoError(t, err)

	records := testRecords()
	treated := measure.MeasurementRecord{
		ExperimentIndex: 1, Condition: "GST", ImageIndex: 2,
		OriginFile: "001_GST_002.csv", OriginRow: 2,
		Parameters: map[string]float64{"Length": 9.0},
	}
	_, err = store.InsertMeasurements(ctx, id, records, "001_Control_001.csv", "Control", true)
	require.NoError(t, err)
	_, err = store.InsertMeasurements(ctx, id, []measure.MeasurementRecord{treated}, "001_GST_002.csv", "GST", true)
	require.NoError(t, err)

	all, err := store.GetMeasurements(ctx, id, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	control, err := store.GetMeasurements(ctx, id, "Control", nil)
	require.NoError(t, err)
	assert.Len(t, control, 4)

	lengths, err := store.GetMeasurements(ctx, id, "", []string{"Length"})
	require.NoError(t, err)
	assert.Len(t, lengths, 3)
	for _, m := range lengths {
		assert.Equal(t, "Length", m.Parameter)
	}

	conditions, err := store.GetConditions(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Control", "GST"}, conditions)

	parameters, err := store.GetParameters(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Length", "Width"}, parameters)
}

func TestDeleteAssayCascades(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.InsertAssay(ctx, "assay", "")
	require.NoError(t, err)
	_, err = store.InsertMeasurements(ctx, id, testRecords(), "001_Control_001.csv", "Control", true)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAssay(ctx, id))

	count, err := store.GetMeasurementCount(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, count, "measurements deleted by referential cascade")

	err = store.DeleteAssay(ctx, id)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestUsingDisconnectsOnError(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "test.db"), nil)

	err := ports.Using(context.Background(), store, func(s ports.MeasurementStore) error {
		_, insertErr := s.InsertAssay(context.Background(), "assay", "")
		require.NoError(t, insertErr)
		return errors.InternalError("boom")
	})
	require.Error(t, err)
	assert.Nil(t, store.db, "connection released on the error path")
}
