package station

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltpath/chargelog/internal/model"
)

func cat(id int, name string, sortOrder int) model.StationCategory {
	return model.StationCategory{ID: id, Name: name, SortOrder: sortOrder, IsActive: true}
}

func TestMatch(t *testing.T) {
	known := []model.StationCategory{
		cat(1, "特斯拉充电站", 1),
		cat(2, "小鹏充电站", 2),
		cat(3, "国家电网充电站", 3),
	}

	tests := []struct {
		name       string
		candidate  string
		categories []model.StationCategory
		wantStatus model.ResolutionStatus
		wantName   string
	}{
		{
			name:       "exact name",
			candidate:  "特斯拉充电站",
			categories: known,
			wantStatus: model.StationMatched,
			wantName:   "特斯拉充电站",
		},
		{
			name:       "candidate contains category name",
			candidate:  "北京特斯拉充电站三里屯",
			categories: known,
			wantStatus: model.StationMatched,
			wantName:   "特斯拉充电站",
		},
		{
			name:       "category name contains candidate",
			candidate:  "小鹏充电",
			categories: known,
			wantStatus: model.StationMatched,
			wantName:   "小鹏充电站",
		},
		{
			name:       "unknown operator",
			candidate:  "壳牌充电站",
			categories: known,
			wantStatus: model.StationUnmatched,
		},
		{
			name:       "empty candidate",
			candidate:  "",
			categories: known,
			wantStatus: model.NoStationDetected,
		},
		{
			name:       "whitespace only candidate",
			candidate:  "   ",
			categories: known,
			wantStatus: model.NoStationDetected,
		},
		{
			name:       "no categories",
			candidate:  "特斯拉充电站",
			categories: nil,
			wantStatus: model.StationUnmatched,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match(tt.candidate, tt.categories)
			assert.Equal(t, tt.wantStatus, res.Status)
			if tt.wantStatus == model.StationMatched {
				require.NotNil(t, res.Category)
				assert.Equal(t, tt.wantName, res.Category.Name)
			}
			if tt.wantStatus == model.StationUnmatched {
				assert.Equal(t, tt.candidate, res.Candidate)
			}
		})
	}
}

func TestMatch_FirstInSortOrderWins(t *testing.T) {
	// Both names are substrings of the candidate; the snapshot order is
	// the tie-break.
	categories := []model.StationCategory{
		cat(7, "充电站", 1),
		cat(8, "特斯拉充电站", 2),
	}

	res := Match("特斯拉充电站望京", categories)
	require.Equal(t, model.StationMatched, res.Status)
	assert.Equal(t, 7, res.Category.ID)
}

func TestMatch_NeedsDecision(t *testing.T) {
	assert.True(t, model.Unmatched("壳牌").NeedsDecision())
	assert.False(t, model.NoStation().NeedsDecision())
	assert.False(t, model.Matched(cat(1, "特斯拉充电站", 1)).NeedsDecision())
}
