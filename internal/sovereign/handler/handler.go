package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Lifecycle Protocol

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	pmodels "sovereign/internal/protocol/models"
	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/service"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/httputil"
	"sovereign/pkg/platform/middleware/auth"
	"sovereign/pkg/requestcontext"
)

// Lifecycle is the sovereign surface the HTTP layer drives.
type Lifecycle interface {
	Create(ctx context.Context, p models.CreateParams) (*models.Sovereign, error)
	Get(ctx context.Context, sid id.SovereignID) (*models.Sovereign, error)
	List(ctx context.Context) ([]*models.Sovereign, error)
	ListDeposits(ctx context.Context, sid id.SovereignID) ([]*models.DepositRecord, error)
	GetDeposit(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID) (*models.DepositRecord, error)
	GetEscrow(ctx context.Context, sid id.SovereignID) (*models.CreatorEscrow, error)
	GetProposal(ctx context.Context, sid id.SovereignID, pid id.ProposalID) (*models.Proposal, error)
	ListProposals(ctx context.Context, sid id.SovereignID) ([]*models.Proposal, error)

	Deposit(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID, amount uint64) (*service.DepositResult, error)
	Withdraw(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID, amount uint64) (*models.Sovereign, error)
	Finalize(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	MarkFailed(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	Refund(ctx context.Context, sid id.SovereignID, depositor id.ParticipantID) (*models.DepositRecord, error)
	CreatorWithdrawFailed(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*service.FailedWithdrawal, error)

	ClaimFees(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*service.Harvest, error)
	LiftPoolRestriction(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	WithdrawDepositorFees(ctx context.Context, sid id.SovereignID, depositor, caller id.ParticipantID) (*service.FeeWithdrawal, error)
	WithdrawCreatorFees(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*service.FeeWithdrawal, error)
	ClaimSellTax(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (uint64, error)
	ClaimPurchasedTokens(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (uint64, error)
	UpdateFeeThreshold(ctx context.Context, sid id.SovereignID, caller id.ParticipantID, threshold bps.Rate) (*models.Sovereign, error)
	RenounceFeeThreshold(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	UpdateSellFee(ctx context.Context, sid id.SovereignID, caller id.ParticipantID, fee bps.Rate) (*models.Sovereign, error)
	RenounceSellFee(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	HarvestTransferFees(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)

	ProposeUnwind(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Proposal, error)
	Vote(ctx context.Context, sid id.SovereignID, pid id.ProposalID, depositor, caller id.ParticipantID, support bool) (*models.Proposal, error)
	FinalizeVote(ctx context.Context, sid id.SovereignID, pid id.ProposalID, caller id.ParticipantID) (*models.Proposal, error)
	ExecuteUnwind(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	InitiateActivityCheck(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	ExecuteActivityCheck(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*service.ActivityResult, error)
	CancelActivityCheck(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	SettleUnwindFee(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*models.Sovereign, error)
	ClaimInvestorUnwind(ctx context.Context, sid id.SovereignID, depositor, caller id.ParticipantID) (*service.UnwindClaim, error)
	ClaimCreatorUnwind(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (uint64, error)
}

// Protocol is the administrative surface.
type Protocol interface {
	Initialize(ctx context.Context, p pmodels.InitParams) (*pmodels.Config, error)
	Get(ctx context.Context) (*pmodels.Config, error)
	UpdateFees(ctx context.Context, caller id.ParticipantID, u pmodels.FeeUpdate) (*pmodels.Config, error)
	TransferAuthority(ctx context.Context, caller, to id.ParticipantID) (*pmodels.Config, error)
	Pause(ctx context.Context, caller id.ParticipantID) (*pmodels.Config, error)
	Unpause(ctx context.Context, caller id.ParticipantID) (*pmodels.Config, error)
	SetActivityThreshold(ctx context.Context, caller id.ParticipantID, threshold uint64) (*pmodels.Config, error)
	RenounceActivityThreshold(ctx context.Context, caller id.ParticipantID) (*pmodels.Config, error)
	UpdateInactivityWindow(ctx context.Context, caller id.ParticipantID, window time.Duration) (*pmodels.Config, error)
	UpdateProposalInactivityPeriod(ctx context.Context, caller id.ParticipantID, period time.Duration) (*pmodels.Config, error)
}

// Handler serves the sovereign and protocol endpoints.
type Handler struct {
	logger     *slog.Logger
	lifecycle  Lifecycle
	protocol   Protocol
	validator  auth.TokenValidator
	middleware []func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithMiddleware appends middleware that runs after authentication, so the
// caller is already in the request context.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.middleware = append(h.middleware, mw...)
	}
}

// New creates a new sovereign Handler.
func New(lifecycle Lifecycle, protocol Protocol, validator auth.TokenValidator, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		lifecycle: lifecycle,
		protocol:  protocol,
		validator: validator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the authenticated routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(h.validator, h.logger))
		r.Use(h.middleware...)

		r.Route("/v1/sovereigns", func(r chi.Router) {
			r.Post("/", h.handleCreate)
			r.Get("/", h.handleList)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGet)
				r.Get("/escrow", h.handleGetEscrow)
				r.Get("/deposits", h.handleListDeposits)
				r.Get("/deposits/{depositor}", h.handleGetDeposit)
				r.Post("/deposits", h.handleDeposit)
				r.Post("/withdrawals", h.handleWithdraw)

				r.Post("/finalize", action(h, http.StatusOK, h.lifecycle.Finalize))
				r.Post("/fail", action(h, http.StatusOK, h.lifecycle.MarkFailed))
				r.Post("/refund", action(h, http.StatusOK, h.lifecycle.Refund))
				r.Post("/creator/failed-withdrawal", action(h, http.StatusOK, h.lifecycle.CreatorWithdrawFailed))

				r.Post("/fees/claim", action(h, http.StatusOK, h.lifecycle.ClaimFees))
				r.Post("/fees/withdraw", h.handleWithdrawFees)
				r.Post("/creator/fees/withdraw", action(h, http.StatusOK, h.lifecycle.WithdrawCreatorFees))
				r.Post("/creator/sell-tax/claim", action(h, http.StatusOK, amountOf(h.lifecycle.ClaimSellTax)))
				r.Post("/creator/purchased-tokens/claim", action(h, http.StatusOK, amountOf(h.lifecycle.ClaimPurchasedTokens)))
				r.Post("/creator/fee-threshold", h.handleFeeThreshold)
				r.Post("/creator/sell-fee", h.handleSellFee)
				r.Post("/pool/unrestrict", action(h, http.StatusOK, h.lifecycle.LiftPoolRestriction))
				r.Post("/transfer-fees/harvest", action(h, http.StatusOK, h.lifecycle.HarvestTransferFees))

				r.Get("/proposals", h.handleListProposals)
				r.Get("/proposals/{pid}", h.handleGetProposal)
				r.Post("/proposals", action(h, http.StatusCreated, h.lifecycle.ProposeUnwind))
				r.Post("/proposals/vote", h.handleVote)
				r.Post("/proposals/finalize", h.handleFinalizeVote)
				r.Post("/unwind/execute", action(h, http.StatusOK, h.lifecycle.ExecuteUnwind))
				r.Post("/activity-check/initiate", action(h, http.StatusOK, h.lifecycle.InitiateActivityCheck))
				r.Post("/activity-check/execute", action(h, http.StatusOK, h.lifecycle.ExecuteActivityCheck))
				r.Post("/activity-check/cancel", action(h, http.StatusOK, h.lifecycle.CancelActivityCheck))
				r.Post("/unwind/settle", action(h, http.StatusOK, h.lifecycle.SettleUnwindFee))
				r.Post("/unwind/claim", h.handleClaimUnwind)
				r.Post("/creator/unwind/claim", action(h, http.StatusOK, amountOf(h.lifecycle.ClaimCreatorUnwind)))
			})
		})

		r.Route("/v1/protocol", func(r chi.Router) {
			r.Get("/", h.handleGetProtocol)
			r.Post("/initialize", h.handleInitialize)
			r.Post("/fees", h.handleUpdateFees)
			r.Post("/authority", h.handleTransferAuthority)
			r.Post("/pause", adminAction(h, h.protocol.Pause))
			r.Post("/unpause", adminAction(h, h.protocol.Unpause))
			r.Post("/activity-threshold", h.handleSetActivityThreshold)
			r.Post("/activity-threshold/renounce", adminAction(h, h.protocol.RenounceActivityThreshold))
			r.Post("/inactivity-window", h.handleInactivityWindow)
			r.Post("/proposal-inactivity-period", h.handleProposalInactivityPeriod)
		})
	})
}

// action adapts a caller-scoped sovereign operation into a handler.
func action[T any](h *Handler, status int, fn func(context.Context, id.SovereignID, id.ParticipantID) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, caller, ok := h.scope(w, r)
		if !ok {
			return
		}
		out, err := fn(r.Context(), sid, caller)
		h.respond(w, r, status, out, err)
	}
}

func adminAction(h *Handler, fn func(context.Context, id.ParticipantID) (*pmodels.Config, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := h.caller(w, r)
		if !ok {
			return
		}
		out, err := fn(r.Context(), caller)
		h.respond(w, r, http.StatusOK, out, err)
	}
}

func amountOf(fn func(context.Context, id.SovereignID, id.ParticipantID) (uint64, error)) func(context.Context, id.SovereignID, id.ParticipantID) (*AmountResponse, error) {
	return func(ctx context.Context, sid id.SovereignID, caller id.ParticipantID) (*AmountResponse, error) {
		amount, err := fn(ctx, sid, caller)
		if err != nil {
			return nil, err
		}
		return &AmountResponse{Amount: amount}, nil
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if !h.decode(w, r, &req) {
		return
	}
	params, err := req.toParams(caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sov, err := h.lifecycle.Create(r.Context(), params)
	h.respond(w, r, http.StatusCreated, sov, err)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.lifecycle.List(r.Context())
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sovereignID(w, r)
	if !ok {
		return
	}
	out, err := h.lifecycle.Get(r.Context(), sid)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleGetEscrow(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sovereignID(w, r)
	if !ok {
		return
	}
	out, err := h.lifecycle.GetEscrow(r.Context(), sid)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleListDeposits(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sovereignID(w, r)
	if !ok {
		return
	}
	out, err := h.lifecycle.ListDeposits(r.Context(), sid)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sovereignID(w, r)
	if !ok {
		return
	}
	depositor, err := id.ParseParticipantID(chi.URLParam(r, "depositor"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.lifecycle.GetDeposit(r.Context(), sid, depositor)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req AmountRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.lifecycle.Deposit(r.Context(), sid, caller, req.Amount)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req AmountRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.lifecycle.Withdraw(r.Context(), sid, caller, req.Amount)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req DepositorRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}
	depositor, err := req.depositorOr(caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.lifecycle.WithdrawDepositorFees(r.Context(), sid, depositor, caller)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleClaimUnwind(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req DepositorRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}
	depositor, err := req.depositorOr(caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.lifecycle.ClaimInvestorUnwind(r.Context(), sid, depositor, caller)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleFeeThreshold(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req RateUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, r, err)
		return
	}
	var (
		out *models.Sovereign
		err error
	)
	if req.Renounce {
		out, err = h.lifecycle.RenounceFeeThreshold(r.Context(), sid, caller)
	} else {
		out, err = h.lifecycle.UpdateFeeThreshold(r.Context(), sid, caller, *req.Bps)
	}
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleSellFee(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req RateUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, r, err)
		return
	}
	var (
		out *models.Sovereign
		err error
	)
	if req.Renounce {
		out, err = h.lifecycle.RenounceSellFee(r.Context(), sid, caller)
	} else {
		out, err = h.lifecycle.UpdateSellFee(r.Context(), sid, caller, *req.Bps)
	}
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleListProposals(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sovereignID(w, r)
	if !ok {
		return
	}
	out, err := h.lifecycle.ListProposals(r.Context(), sid)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sovereignID(w, r)
	if !ok {
		return
	}
	pid, err := id.ParseProposalID(chi.URLParam(r, "pid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.lifecycle.GetProposal(r.Context(), sid, pid)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req VoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ProposalID == 0 || req.Support == nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "proposal_id and support are required"))
		return
	}
	depositor, err := req.depositorOr(caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.lifecycle.Vote(r.Context(), sid, req.ProposalID, depositor, caller, *req.Support)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleFinalizeVote(w http.ResponseWriter, r *http.Request) {
	sid, caller, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req ProposalRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ProposalID == 0 {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "proposal_id is required"))
		return
	}
	out, err := h.lifecycle.FinalizeVote(r.Context(), sid, req.ProposalID, caller)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleGetProtocol(w http.ResponseWriter, r *http.Request) {
	out, err := h.protocol.Get(r.Context())
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req InitializeRequest
	if !h.decode(w, r, &req) {
		return
	}
	params, err := req.toParams(caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.protocol.Initialize(r.Context(), params)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleUpdateFees(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req pmodels.FeeUpdate
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.protocol.UpdateFees(r.Context(), caller, req)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleTransferAuthority(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req AuthorityRequest
	if !h.decode(w, r, &req) {
		return
	}
	to, err := id.ParseParticipantID(req.Authority)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.protocol.TransferAuthority(r.Context(), caller, to)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleSetActivityThreshold(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req ThresholdRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.protocol.SetActivityThreshold(r.Context(), caller, req.Threshold)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleInactivityWindow(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req DurationRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := parseDuration("duration", req.Duration)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.protocol.UpdateInactivityWindow(r.Context(), caller, d)
	h.respond(w, r, http.StatusOK, out, err)
}

func (h *Handler) handleProposalInactivityPeriod(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req DurationRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := parseDuration("duration", req.Duration)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.protocol.UpdateProposalInactivityPeriod(r.Context(), caller, d)
	h.respond(w, r, http.StatusOK, out, err)
}

// caller returns the authenticated participant. RequireAuth guarantees one;
// a missing caller means the route was registered outside the auth group.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (id.ParticipantID, bool) {
	caller := requestcontext.Caller(r.Context())
	if caller.IsZero() {
		h.logger.ErrorContext(r.Context(), "caller missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return caller, true
}

func (h *Handler) sovereignID(w http.ResponseWriter, r *http.Request) (id.SovereignID, bool) {
	sid, err := id.ParseSovereignID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return id.SovereignID{}, false
	}
	return sid, true
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (id.SovereignID, id.ParticipantID, bool) {
	sid, ok := h.sovereignID(w, r)
	if !ok {
		return id.SovereignID{}, "", false
	}
	caller, ok := h.caller(w, r)
	if !ok {
		return id.SovereignID{}, "", false
	}
	return sid, caller, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.DecodeJSON(r, v); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

// decodeOptional accepts an empty body and leaves v untouched.
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return true
	}
	return h.decode(w, r, v)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, status, v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
		"code", string(code),
		"error", err.Error(),
	}
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, "request rejected", attrs...)
	}
	httputil.WriteError(w, err)
}
