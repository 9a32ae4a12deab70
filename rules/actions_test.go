package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmacleod/sitrep/intel"
	"github.com/kmacleod/sitrep/skills"
)

func newTestKit(f *fakeGame) *skills.Kit {
	return skills.NewKit(f, intel.NewService(f, intel.TTLs{}), nil)
}

func TestProduceUnitsWithoutOrderIsDeterministic(t *testing.T) {
	args := map[string]any{
		"units": map[string]any{
			"medium_tank": 1,
			"apc":         1,
			"harvester":   1,
		},
	}

	want := []string{"apc", "harvester", "medium_tank"}
	for i := 0; i < 5; i++ {
		f := &fakeGame{}
		res := runProduceUnits(newTestKit(f), Env{}, args)
		require.True(t, res.OK, "result = %+v", res)
		assert.Equal(t, want, f.produced, "fallback order must be sorted, run %d", i)
	}
}

func TestProduceUnitsExplicitOrderWins(t *testing.T) {
	f := &fakeGame{}
	res := runProduceUnits(newTestKit(f), Env{}, map[string]any{
		"units": map[string]any{"rifleman": 1, "apc": 1},
		"order": []any{"rifleman", "apc"},
	})
	require.True(t, res.OK)
	assert.Equal(t, []string{"rifleman", "apc"}, f.produced)
}
