package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboardservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service"
	leaderboardfeed "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/adapters/submissions"
	leaderboardapp "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/application"
	leaderboardports "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
	progressservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service"
	progresssubmissions "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/adapters/submissions"
	submissionservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service"
	admindashboardservice "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service"
	adminsources "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/adapters/sources"
	rewardledger "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
	"github.com/0xandee/SpeedRunLisk/internal/platform/metrics"
)

const (
	testOwner   = "0x00000000000000000000000000000000000000AA"
	testBuilder = "0x00000000000000000000000000000000000000BB"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	rewards := rewardledger.NewInMemoryModule(testOwner, nil)
	progress := progressservice.NewInMemoryModule(nil)
	submissions := submissionservice.NewInMemoryModule(progress.Tracker, nil)
	leaderboard := leaderboardservice.NewModule(leaderboardservice.Dependencies{
		Feed: leaderboardfeed.Feed{Queries: submissions.Queries},
		Scorers: map[leaderboardports.Category]leaderboardports.Scorer{
			rewardports.CategoryFastCompletion: leaderboardapp.SpeedScorer{},
			rewardports.CategoryTopQuality:     leaderboardapp.UnimplementedScorer{},
			rewardports.CategoryTopEngagement:  leaderboardapp.UnimplementedScorer{},
		},
		Policy: rewardports.DefaultPolicy(),
	})
	admin := admindashboardservice.NewInMemoryModule(
		adminsources.Ledger{Ledger: rewards.Ledger},
		adminsources.Submissions{Queries: submissions.Queries},
		adminsources.Progress{Tracker: progress.Tracker},
	)

	server := New(Dependencies{
		Rewards:       rewards,
		Submissions:   submissions,
		Progress:      progress,
		Leaderboard:   leaderboard,
		Admin:         admin,
		Participation: progresssubmissions.Source{Queries: submissions.Queries},
		Metrics:       metrics.New(),
	})

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, headers map[string]string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAllocateRequiresAdminHeader(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/rewards/admin/allocate", nil, `{"grants":[]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAllocateAndStatsFlow(t *testing.T) {
	ts := newTestServer(t)

	body := fmt.Sprintf(`{"grants":[{"recipient":%q,"amount":20,"category":"FAST_COMPLETION","week":1,"proof":"proof-1"}]}`, testBuilder)
	resp := postJSON(t, ts.URL+"/api/rewards/admin/allocate", map[string]string{"X-Admin-Address": testOwner}, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	statsResp, err := http.Get(ts.URL + "/api/rewards/stats")
	require.NoError(t, err)
	defer statsResp.Body.Close()
	require.Equal(t, http.StatusOK, statsResp.StatusCode)

	var stats struct {
		Data struct {
			TotalAllocated  int64 `json:"total_allocated"`
			RemainingBudget int64 `json:"remaining_budget"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	assert.Equal(t, int64(20), stats.Data.TotalAllocated)
	assert.Equal(t, int64(1980), stats.Data.RemainingBudget)
}

func TestFundRejectsNonPositiveAmount(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/rewards/admin/fund", map[string]string{"X-Admin-Address": testOwner}, `{"amount":0}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid_amount", body.Code)
}

func TestSubmitChallengeAndDuplicate(t *testing.T) {
	ts := newTestServer(t)

	body := fmt.Sprintf(`{"user_address":%q,"week":1,"github_url":"https://github.com/builder/week1","social_post_url":"https://x.com/builder/1","country":"Vietnam"}`, testBuilder)
	resp := postJSON(t, ts.URL+"/api/submissions", nil, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dup := postJSON(t, ts.URL+"/api/submissions", nil, body)
	defer dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	// The submit feeds the progress tracker.
	progResp, err := http.Get(ts.URL + "/api/progress/" + strings.ToLower(testBuilder))
	require.NoError(t, err)
	defer progResp.Body.Close()
	require.Equal(t, http.StatusOK, progResp.StatusCode)

	var prog struct {
		Data struct {
			WeeksCompleted []int `json:"weeks_completed"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(progResp.Body).Decode(&prog))
	assert.Equal(t, []int{1}, prog.Data.WeeksCompleted)
}

func TestLeaderboardUnscoredCategory(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/leaderboard/1?category=TOP_QUALITY")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
