package ecs

import (
	"testing"

	. "github.com/argus-labs/reactive-font/pkg/ecs/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchWorld(t *testing.T) *World {
	t.Helper()

	w := NewWorld()
	w.CustomTick(func(ws *WorldState) {
		for i := range 4 {
			eid, err := Create(ws)
			require.NoError(t, err)
			require.NoError(t, Set(ws, eid, Health{Value: i * 100}))
			if i%2 == 0 {
				require.NoError(t, Set(ws, eid, Position{X: i}))
			}
		}
	})
	return w
}

func TestNewSearch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		params  SearchParam
		wantIDs []int
		wantErr bool
	}{
		{
			name:    "contains",
			params:  SearchParam{Find: []string{"Health"}, Match: MatchContains},
			wantIDs: []int{0, 1, 2, 3},
		},
		{
			name:    "exact",
			params:  SearchParam{Find: []string{"Health"}, Match: MatchExact},
			wantIDs: []int{1, 3},
		},
		{
			name:    "where clause",
			params:  SearchParam{Find: []string{"Health"}, Match: MatchContains, Where: "Health.value >= 200"},
			wantIDs: []int{2, 3},
		},
		{
			name:    "where on id",
			params:  SearchParam{Find: []string{"Position"}, Match: MatchContains, Where: "_id == 2"},
			wantIDs: []int{2},
		},
		{
			name:    "empty find",
			params:  SearchParam{Match: MatchContains},
			wantErr: true,
		},
		{
			name:    "invalid match",
			params:  SearchParam{Find: []string{"Health"}, Match: "some"},
			wantErr: true,
		},
		{
			name:    "unknown component",
			params:  SearchParam{Find: []string{"Mana"}, Match: MatchContains},
			wantErr: true,
		},
		{
			name:    "invalid where",
			params:  SearchParam{Find: []string{"Health"}, Match: MatchContains, Where: "Health.value >"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := newSearchWorld(t)
			results, err := w.NewSearch(tc.params)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			ids := make([]int, 0, len(results))
			for _, result := range results {
				ids = append(ids, result["_id"].(int)) //nolint:errcheck // Set by toMap
			}
			assert.ElementsMatch(t, tc.wantIDs, ids)
		})
	}
}
