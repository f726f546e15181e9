package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFakeAddDefaultsCountToOne(t *testing.T) {
	svc := NewFakeService()

	device, err := svc.Add(context.Background(), AddDeviceInput{Name: "MacBook Air"})
	require.NoError(t, err)
	require.NotNil(t, device.Count)
	assert.Equal(t, 1, *device.Count)
	assert.Equal(t, "dev_1", device.ID)
	assert.False(t, device.UpdatedAt.IsZero())
}

func TestFakeAddPrependsAndAssignsSequentialIDs(t *testing.T) {
	svc := NewFakeService()
	ctx := context.Background()

	_, err := svc.Add(ctx, AddDeviceInput{Name: "first"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, AddDeviceInput{Name: "second"})
	require.NoError(t, err)

	result, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, "dev_2", result.Items[0].ID)
	assert.Equal(t, "second", result.Items[0].Name)
	assert.Equal(t, "dev_1", result.Items[1].ID)
}

func TestFakeAddRejectsNegativeCount(t *testing.T) {
	svc := NewFakeService()

	negative := -1
	_, err := svc.Add(context.Background(), AddDeviceInput{Name: "x", Count: &negative})
	require.Error(t, err)
}

func TestFakeListReturnsDefensiveCopy(t *testing.T) {
	svc := NewFakeService()
	ctx := context.Background()

	_, err := svc.Add(ctx, AddDeviceInput{Name: "original"})
	require.NoError(t, err)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	first.Items[0].Name = "tampered"
	*first.Items[0].Count = 99

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", second.Items[0].Name)
	assert.Equal(t, 1, *second.Items[0].Count)
}

func TestFakeUpdateMergesSuppliedFieldsOnly(t *testing.T) {
	svc := NewFakeService()
	ctx := context.Background()

	created, err := svc.Add(ctx, AddDeviceInput{Name: "iPad", Description: "tablet"})
	require.NoError(t, err)

	newName := "iPad Pro"
	updated, err := svc.Update(ctx, created.ID, UpdateDeviceInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "iPad Pro", updated.Name)
	assert.Equal(t, "tablet", updated.Description)
	assert.Equal(t, 1, *updated.Count)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt),
		"UpdatedAt must move strictly forward")
}

func TestFakeUpdateAlwaysAdvancesUpdatedAt(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc := NewFakeService()
		ctx := context.Background()

		created, err := svc.Add(ctx, AddDeviceInput{Name: "device"})
		if err != nil {
			t.Fatal(err)
		}

		prev := created.UpdatedAt
		n := rapid.IntRange(1, 5).Draw(t, "updates")
		for i := 0; i < n; i++ {
			count := rapid.IntRange(0, 100).Draw(t, "count")
			updated, err := svc.Update(ctx, created.ID, UpdateDeviceInput{Count: &count})
			if err != nil {
				t.Fatal(err)
			}
			if !updated.UpdatedAt.After(prev) {
				t.Fatalf("UpdatedAt %v not after previous %v", updated.UpdatedAt, prev)
			}
			prev = updated.UpdatedAt
		}
	})
}

func TestFakeUpdateMissingDevice(t *testing.T) {
	svc := NewFakeService()

	name := "x"
	_, err := svc.Update(context.Background(), "dev_404", UpdateDeviceInput{Name: &name})
	require.EqualError(t, err, "Device with id dev_404 not found")
}

func TestFakeDelete(t *testing.T) {
	svc := NewFakeService()
	ctx := context.Background()

	created, err := svc.Add(ctx, AddDeviceInput{Name: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	result, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Zero(t, result.TotalCount)
}

func TestFakeDeleteMissingDevice(t *testing.T) {
	svc := NewFakeService()

	err := svc.Delete(context.Background(), "dev_404")
	require.EqualError(t, err, "Device with id dev_404 not found")
}

func TestFakeSeed(t *testing.T) {
	svc := NewFakeService()
	ctx := context.Background()

	two := 2
	svc.Seed(Device{ID: "dev_1", Name: "seeded", Count: &two})

	result, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	// The counter moves past the seeded entries.
	added, err := svc.Add(ctx, AddDeviceInput{Name: "next"})
	require.NoError(t, err)
	assert.Equal(t, "dev_2", added.ID)
}
