package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	leaderboardservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service"
	leaderboarderrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/domain/errors"
	leaderboardhttp "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/transport/http"
	progressservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service"
	progresserrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/errors"
	progressports "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/ports"
	progresshttp "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/transport/http"
	submissionservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service"
	submissionerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/errors"
	submissionhttp "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/transport/http"
	admindashboardservice "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service"
	adminerrors "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/domain/errors"
	adminhttp "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/transport/http"
	rewardledger "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger"
	rewarderrors "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/domain/errors"
	rewardhttp "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/0xandee/SpeedRunLisk/internal/platform/metrics"

	_ "github.com/0xandee/SpeedRunLisk/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string

	rewards     rewardledger.Module
	submissions submissionservice.Module
	progress    progressservice.Module
	leaderboard leaderboardservice.Module
	admin       admindashboardservice.Module

	// Submissions projection consumed by POST /api/progress/sync.
	participation progressports.SubmissionSource

	metrics *metrics.Metrics
}

type Dependencies struct {
	Rewards       rewardledger.Module
	Submissions   submissionservice.Module
	Progress      progressservice.Module
	Leaderboard   leaderboardservice.Module
	Admin         admindashboardservice.Module
	Participation progressports.SubmissionSource
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	Addr          string
}

func New(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := deps.Addr
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		rewards:       deps.Rewards,
		submissions:   deps.Submissions,
		progress:      deps.Progress,
		leaderboard:   deps.Leaderboard,
		admin:         deps.Admin,
		participation: deps.Participation,
		metrics:       deps.Metrics,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler exposes the composed route tree, wrapped with request counting when
// metrics are wired.
func (s *Server) Handler() http.Handler {
	if s.metrics != nil {
		return countRequests(s.metrics, s.mux)
	}
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("POST /api/rewards/admin/allocate", s.handleAllocate)
	s.mux.HandleFunc("POST /api/rewards/admin/pause", s.handlePause)
	s.mux.HandleFunc("POST /api/rewards/admin/unpause", s.handleUnpause)
	s.mux.HandleFunc("POST /api/rewards/admin/fund", s.handleFund)
	s.mux.HandleFunc("POST /api/rewards/admin/emergency-withdraw", s.handleEmergencyWithdraw)
	s.mux.HandleFunc("POST /api/rewards/claim", s.handleClaim)
	s.mux.HandleFunc("GET /api/rewards/stats", s.handleRewardStats)
	s.mux.HandleFunc("GET /api/rewards/available/{address}", s.handleAvailableRewards)

	s.mux.HandleFunc("POST /api/submissions", s.handleSubmitChallenge)
	s.mux.HandleFunc("POST /api/submissions/{submission_id}/review", s.handleReviewSubmission)
	s.mux.HandleFunc("GET /api/submissions/user/{address}", s.handleSubmissionsByUser)
	s.mux.HandleFunc("GET /api/submissions/week/{week}", s.handleSubmissionsByWeek)
	s.mux.HandleFunc("GET /api/submissions/weekly-counts", s.handleWeeklyCounts)
	s.mux.HandleFunc("GET /api/submissions/countries", s.handleCountryDistribution)

	s.mux.HandleFunc("GET /api/progress/stats", s.handleProgressStats)
	s.mux.HandleFunc("POST /api/progress/sync", s.handleProgressSync)
	s.mux.HandleFunc("GET /api/progress/{address}", s.handleProgress)

	s.mux.HandleFunc("GET /api/leaderboard/{week}", s.handleLeaderboard)

	s.mux.HandleFunc("POST /api/admin/actions", s.handleRecordAdminAction)
	s.mux.HandleFunc("GET /api/admin/actions", s.handleListAdminActions)
	s.mux.HandleFunc("GET /api/admin/kpis", s.handleKPIReport)
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Admin-Address")
	if strings.TrimSpace(actor) == "" {
		writeRewardError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Address header is required")
		return
	}

	var req rewardhttp.AllocateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRewardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.rewards.Handler.AllocateHandler(r.Context(), actor, req)
	if err != nil {
		writeRewardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req rewardhttp.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRewardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.rewards.Handler.ClaimHandler(r.Context(), req)
	if err != nil {
		writeRewardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rewards.Handler.StatsHandler(r.Context()))
}

func (s *Server) handleAvailableRewards(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	writeJSON(w, http.StatusOK, s.rewards.Handler.AvailableRewardsHandler(r.Context(), address))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.handleOwnerAction(w, r, s.rewards.Handler.PauseHandler)
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	s.handleOwnerAction(w, r, s.rewards.Handler.UnpauseHandler)
}

func (s *Server) handleOwnerAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, actor string) error,
) {
	actor := r.Header.Get("X-Admin-Address")
	if strings.TrimSpace(actor) == "" {
		writeRewardError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Address header is required")
		return
	}
	if err := action(r.Context(), actor); err != nil {
		writeRewardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Admin-Address")
	if strings.TrimSpace(actor) == "" {
		writeRewardError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Address header is required")
		return
	}

	var req rewardhttp.FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRewardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.rewards.Handler.FundHandler(r.Context(), actor, req); err != nil {
		writeRewardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleEmergencyWithdraw(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Admin-Address")
	if strings.TrimSpace(actor) == "" {
		writeRewardError(w, http.StatusUnauthorized, "missing_admin", "X-Admin-Address header is required")
		return
	}
	resp, err := s.rewards.Handler.EmergencyWithdrawHandler(r.Context(), actor)
	if err != nil {
		writeRewardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitChallenge(w http.ResponseWriter, r *http.Request) {
	var req submissionhttp.SubmitChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.submissions.Handler.SubmitHandler(r.Context(), req)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	var req submissionhttp.ReviewSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.submissions.Handler.ReviewHandler(r.Context(), r.PathValue("submission_id"), req)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmissionsByUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.submissions.Handler.ByUserHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmissionsByWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		writeSubmissionError(w, http.StatusBadRequest, "invalid_week", "week must be an integer")
		return
	}
	approvedOnly := r.URL.Query().Get("approved_only") == "true"

	resp, err := s.submissions.Handler.ByWeekHandler(r.Context(), week, approvedOnly)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWeeklyCounts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.submissions.Handler.WeeklyCountsHandler(r.Context())
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCountryDistribution(w http.ResponseWriter, r *http.Request) {
	resp, err := s.submissions.Handler.CountryDistributionHandler(r.Context())
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	resp, err := s.progress.Handler.ProgressHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeProgressDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProgressStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.progress.Handler.StatsHandler(r.Context())
	if err != nil {
		writeProgressDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProgressSync(w http.ResponseWriter, r *http.Request) {
	if s.participation == nil {
		writeProgressError(w, http.StatusServiceUnavailable, "sync_unavailable", "submission source is not wired")
		return
	}
	resp, err := s.progress.Handler.SyncHandler(r.Context(), s.participation)
	if err != nil {
		writeProgressDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		writeLeaderboardError(w, http.StatusBadRequest, "invalid_week", "week must be an integer")
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "FAST_COMPLETION"
	}

	resp, err := s.leaderboard.Handler.TopNHandler(r.Context(), week, category)
	if err != nil {
		writeLeaderboardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordAdminAction(w http.ResponseWriter, r *http.Request) {
	adminID := r.Header.Get("X-Admin-Id")
	var req adminhttp.RecordAdminActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAdminError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.SourceIP == "" {
		req.SourceIP = resolveClientIP(r)
	}

	resp, err := s.admin.Handler.RecordAdminActionHandler(
		r.Context(),
		adminID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAdminActions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeAdminError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.admin.Handler.ListActionsHandler(r.Context(), limit)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleKPIReport(w http.ResponseWriter, r *http.Request) {
	resp, err := s.admin.Handler.KPIReportHandler(r.Context())
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRewardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rewarderrors.ErrUnauthorized):
		writeRewardError(w, http.StatusForbidden, "not_campaign_owner", err.Error())
	case errors.Is(err, rewarderrors.ErrCampaignPaused):
		writeRewardError(w, http.StatusConflict, "campaign_paused", err.Error())
	case errors.Is(err, rewarderrors.ErrLedgerHalted):
		writeRewardError(w, http.StatusConflict, "ledger_halted", err.Error())
	case errors.Is(err, rewarderrors.ErrDuplicateProof):
		writeRewardError(w, http.StatusConflict, "duplicate_proof", err.Error())
	case errors.Is(err, rewarderrors.ErrCategoryCapExceeded):
		writeRewardError(w, http.StatusConflict, "category_cap_exceeded", err.Error())
	case errors.Is(err, rewarderrors.ErrBudgetExceeded):
		writeRewardError(w, http.StatusConflict, "budget_exceeded", err.Error())
	case errors.Is(err, rewarderrors.ErrNothingToClaim):
		writeRewardError(w, http.StatusNotFound, "nothing_to_claim", err.Error())
	case errors.Is(err, rewarderrors.ErrInsufficientFunds):
		writeRewardError(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, rewarderrors.ErrBatchNotFound):
		writeRewardError(w, http.StatusNotFound, "batch_not_found", err.Error())
	case errors.Is(err, rewarderrors.ErrInvalidAmount):
		writeRewardError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, rewarderrors.ErrMalformedBatch),
		errors.Is(err, rewarderrors.ErrInvalidWeek),
		errors.Is(err, rewarderrors.ErrUnknownCategory):
		writeRewardError(w, http.StatusBadRequest, "invalid_batch", err.Error())
	default:
		writeRewardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSubmissionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, submissionerrors.ErrDuplicateSubmission):
		writeSubmissionError(w, http.StatusConflict, "duplicate_submission", err.Error())
	case errors.Is(err, submissionerrors.ErrSubmissionNotFound):
		writeSubmissionError(w, http.StatusNotFound, "submission_not_found", err.Error())
	case errors.Is(err, submissionerrors.ErrInvalidSubmissionInput),
		errors.Is(err, submissionerrors.ErrInvalidReviewStatus):
		writeSubmissionError(w, http.StatusBadRequest, "invalid_submission", err.Error())
	default:
		writeSubmissionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeProgressDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progresserrors.ErrProgressNotFound):
		writeProgressError(w, http.StatusNotFound, "progress_not_found", err.Error())
	case errors.Is(err, progresserrors.ErrInvalidWeek):
		writeProgressError(w, http.StatusBadRequest, "invalid_week", err.Error())
	default:
		writeProgressError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLeaderboardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leaderboarderrors.ErrScorerNotImplemented):
		writeLeaderboardError(w, http.StatusNotImplemented, "scorer_not_implemented", err.Error())
	case errors.Is(err, leaderboarderrors.ErrUnknownCategory):
		writeLeaderboardError(w, http.StatusBadRequest, "unknown_category", err.Error())
	case errors.Is(err, leaderboarderrors.ErrInvalidWeek):
		writeLeaderboardError(w, http.StatusBadRequest, "invalid_week", err.Error())
	default:
		writeLeaderboardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAdminDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminerrors.ErrUnauthorized):
		writeAdminError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, adminerrors.ErrIdempotencyRequired):
		writeAdminError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, adminerrors.ErrIdempotencyConflict):
		writeAdminError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, adminerrors.ErrInvalidInput):
		writeAdminError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeAdminError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRewardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, rewardhttp.ErrorResponse{Code: code, Message: message})
}

func writeSubmissionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, submissionhttp.ErrorResponse{Code: code, Message: message})
}

func writeProgressError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, progresshttp.ErrorResponse{Code: code, Message: message})
}

func writeLeaderboardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, leaderboardhttp.ErrorResponse{Code: code, Message: message})
}

func writeAdminError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, adminhttp.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func countRequests(m *metrics.Metrics, mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)

		// Label by route pattern, not raw path: addresses in paths would
		// explode the series cardinality.
		_, route := mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
