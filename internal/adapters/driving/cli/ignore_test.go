package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driving"
)

// recordingIgnore returns a mock that validates to sampleResults and records
// what Ignore receives.
func recordingIgnore(ignored *[]domain.ValidationResult, reason *string) *MockValidationService {
	return &MockValidationService{
		ValidateFunc: func(context.Context, driving.ValidateRequest) ([]domain.ValidationResult, error) {
			return sampleResults(), nil
		},
		IgnoreFunc: func(_ context.Context, manuscriptID string, results []domain.ValidationResult, r string) ([]domain.IgnoredResult, error) {
			*ignored = results
			*reason = r
			records := make([]domain.IgnoredResult, 0, len(results))
			for i := range results {
				records = append(records, domain.IgnoredResult{
					ID:           "ign-" + results[i].ID,
					ManuscriptID: manuscriptID,
					Result:       &results[i],
				})
			}
			return records, nil
		},
	}
}

func TestIgnoreAddCmd_Filters(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{name: "all", args: []string{"--all"}, expected: []string{"r2", "r3"}},
		{name: "by type", args: []string{"--type", string(domain.ResultSectionMaxWords)}, expected: []string{"r3"}},
		{name: "by element", args: []string{"--element", "MPSection:1"}, expected: []string{"r2"}},
		{name: "type and element", args: []string{"--type", string(domain.ResultSectionMaxWords), "--element", "MPSection:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ignored []domain.ValidationResult
			var reason string
			setupServices(t, recordingIgnore(&ignored, &reason), newMockSettingsService())

			args := append([]string{"ignore", "add", writeTestProject(t), "--reason", "agreed"}, tt.args...)
			out, err := execute(t, "", args...)
			require.NoError(t, err)

			var ids []string
			for _, r := range ignored {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.expected, ids)
			if len(tt.expected) == 0 {
				assert.Contains(t, out, "No matching failures.")
				return
			}
			assert.Equal(t, "agreed", reason)
			assert.Contains(t, out, "Ignored")
			assert.Contains(t, out, "ign-"+tt.expected[0])
		})
	}
}

func TestIgnoreAddCmd_RequiresFilter(t *testing.T) {
	setupServices(t, &MockValidationService{}, newMockSettingsService())

	_, err := execute(t, "", "ignore", "add", writeTestProject(t))

	assert.ErrorContains(t, err, "one of --type, --element or --all is required")
}

func TestIgnoreAddCmd_StoreUnavailable(t *testing.T) {
	mock := &MockValidationService{
		ValidateFunc: func(context.Context, driving.ValidateRequest) ([]domain.ValidationResult, error) {
			return sampleResults(), nil
		},
		IgnoreFunc: func(context.Context, string, []domain.ValidationResult, string) ([]domain.IgnoredResult, error) {
			return nil, domain.ErrNotImplemented
		},
	}
	setupServices(t, mock, newMockSettingsService())

	_, err := execute(t, "", "ignore", "add", writeTestProject(t), "--all")

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestIgnoreListCmd(t *testing.T) {
	var gotManuscript string
	result := sampleResults()[1]
	mock := &MockValidationService{
		ListIgnoredFunc: func(_ context.Context, manuscriptID string) ([]domain.IgnoredResult, error) {
			gotManuscript = manuscriptID
			return []domain.IgnoredResult{{
				ID:           "ign-1",
				ManuscriptID: testManuscriptID,
				Result:       &result,
				Reason:       "agreed",
				IgnoredAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			}}, nil
		},
	}
	setupServices(t, mock, newMockSettingsService())

	out, err := execute(t, "", "ignore", "list", "--manuscript", testManuscriptID)
	require.NoError(t, err)

	assert.Equal(t, testManuscriptID, gotManuscript)
	assert.Contains(t, out, "ign-1")
	assert.Contains(t, out, "Type: "+string(domain.ResultSectionTitleMatch))
	assert.Contains(t, out, "Reason: agreed")
	assert.Contains(t, out, "Ignored: 2026-01-02 03:04:05")
}

func TestIgnoreListCmd_Empty(t *testing.T) {
	setupServices(t, &MockValidationService{}, newMockSettingsService())

	out, err := execute(t, "", "ignore", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "No ignored results.")
}

func TestIgnoreListCmd_JSON(t *testing.T) {
	mock := &MockValidationService{
		ListIgnoredFunc: func(context.Context, string) ([]domain.IgnoredResult, error) {
			return []domain.IgnoredResult{{ID: "ign-1", ManuscriptID: testManuscriptID}}, nil
		},
	}
	setupServices(t, mock, newMockSettingsService())

	out, err := execute(t, "", "ignore", "list", "--json")
	require.NoError(t, err)

	var records []domain.IgnoredResult
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "ign-1", records[0].ID)
}

func TestIgnoreRemoveCmd(t *testing.T) {
	var removed []string
	mock := &MockValidationService{
		UnignoreFunc: func(_ context.Context, id string) error {
			if id == "missing" {
				return domain.ErrNotFound
			}
			removed = append(removed, id)
			return nil
		},
	}
	setupServices(t, mock, newMockSettingsService())

	out, err := execute(t, "", "ignore", "remove", "ign-1", "ign-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"ign-1", "ign-2"}, removed)
	assert.Contains(t, out, "Removed ign-2")

	_, err = execute(t, "", "ignore", "remove", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
