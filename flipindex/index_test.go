package flipindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddFirstDoesNotCreateCollision(t *testing.T) {
	ix := New(8)
	ix.Add(0, 0xABCD)
	assert.Equal(t, 0, ix.NumCollisions())
	assert.ElementsMatch(t, []int32{0}, ix.SlotsFor(0xABCD))
}

func TestSecondAddPromotesToCollision(t *testing.T) {
	ix := New(8)
	ix.Add(0, 0xABCD)
	ix.Add(1, 0xABCD)
	assert.Equal(t, 1, ix.NumCollisions())
	assert.Equal(t, uint64(0xABCD), ix.CollisionAt(0))
	assert.ElementsMatch(t, []int32{0, 1}, ix.SlotsFor(0xABCD))
}

func TestRemoveDemotesBackToUnique(t *testing.T) {
	ix := New(8)
	ix.Add(0, 42)
	ix.Add(1, 42)
	ix.Remove(0, 42)
	assert.Equal(t, 0, ix.NumCollisions())
	assert.ElementsMatch(t, []int32{1}, ix.SlotsFor(42))
}

func TestRemoveLastEntryFreesTheKey(t *testing.T) {
	ix := New(8)
	ix.Add(3, 7)
	ix.Remove(3, 7)
	assert.Nil(t, ix.SlotsFor(7))
}

func TestThreeWayCollisionShrinksCorrectly(t *testing.T) {
	ix := New(8)
	ix.Add(0, 99)
	ix.Add(1, 99)
	ix.Add(2, 99)
	assert.Equal(t, 1, ix.NumCollisions())
	assert.ElementsMatch(t, []int32{0, 1, 2}, ix.SlotsFor(99))

	ix.Remove(1, 99)
	assert.Equal(t, 1, ix.NumCollisions())
	assert.ElementsMatch(t, []int32{0, 2}, ix.SlotsFor(99))
}

func TestMultipleKeysKeepIndependentSlotLists(t *testing.T) {
	ix := New(16)
	ix.Add(0, 1)
	ix.Add(1, 2)
	ix.Add(2, 1)
	ix.Add(3, 2)
	assert.Equal(t, 2, ix.NumCollisions())
	assert.ElementsMatch(t, []int32{0, 2}, ix.SlotsFor(1))
	assert.ElementsMatch(t, []int32{1, 3}, ix.SlotsFor(2))

	ix.Remove(0, 1)
	assert.ElementsMatch(t, []int32{2}, ix.SlotsFor(1))
	assert.Equal(t, 1, ix.NumCollisions())
	assert.Equal(t, uint64(2), ix.CollisionAt(0))
}

func TestSwapWithLastDemoteFixesUpSurvivorPosition(t *testing.T) {
	ix := New(16)
	ix.Add(0, 10)
	ix.Add(1, 10) // collision index 0
	ix.Add(2, 20)
	ix.Add(3, 20) // collision index 1, will be swapped into index 0 on demote of 10
	ix.Remove(0, 10)
	// 10 should be gone, 20 should still be sampleable and consistent
	assert.Equal(t, 1, ix.NumCollisions())
	assert.Equal(t, uint64(20), ix.CollisionAt(0))
	ix.Add(4, 20)
	ix.Remove(2, 20)
	assert.ElementsMatch(t, []int32{3, 4}, ix.SlotsFor(20))
}

func TestReusedSlabBaseAfterFree(t *testing.T) {
	ix := New(4)
	ix.Add(0, 1)
	ix.Remove(0, 1)
	ix.Add(1, 2)
	assert.ElementsMatch(t, []int32{1}, ix.SlotsFor(2))
}
