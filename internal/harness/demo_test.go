package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios against the
// real pipeline and compares each outcome with its golden snapshot.
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "expectations failed:\n%v", result.Errors)
		})
	}
}

func TestScenarioSetCoversPipelineOutcomes(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	statuses := make(map[Status]bool)
	for _, s := range scenarios {
		statuses[s.Expect.Status] = true
	}
	assert.True(t, statuses[StatusDone])
	assert.True(t, statuses[StatusSkipped])
	assert.True(t, statuses[StatusAborted])
}
