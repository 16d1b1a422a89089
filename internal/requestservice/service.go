// Package requestservice manages the transfer request lifecycle.
//
// It owns the idempotency protocol state: atomic create-or-fetch keyed by
// the client idempotency key, payload equality validation, the single
// IN_PROGRESS to COMPLETED transition, and outcome resolution for replays.
package requestservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/cachepkg"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// successMessage is recorded as the info message of every successful completion.
const successMessage = "Transfer request completed successfully."

// Repo provides data access layer interface needed by the request service.
//
//go:generate mockgen -source service.go -destination service_mock.go -package requestservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateRequestParams) (domain.TransferRequest, error)
	Get(ctx context.Context, id uuid.UUID) (domain.TransferRequest, error)
	Complete(ctx context.Context, arg domain.CompleteRequestParams) (domain.TransferRequest, error)
}

// TransferGetter resolves transfer references stored on completed requests.
type TransferGetter interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error)
}

// Service facilitates transfer request tracking logic.
type Service struct {
	repo      Repo
	transfers TransferGetter
	cache     cachepkg.Cache
	cacheTTL  time.Duration
}

// New returns a request service.
func New(repo Repo, transfers TransferGetter, cache cachepkg.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		transfers: transfers,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

func cacheKey(id uuid.UUID) string {
	return "transfer-requests:" + id.String()
}

// GetOrCreate returns the transfer request registered under the idempotency
// key, creating it in status IN_PROGRESS on first sight.
//
// Creation is a single conditional insert; when two duplicate submissions
// race, exactly one wins the insert and the other observes the winner's row.
func (s *Service) GetOrCreate(ctx context.Context, arg domain.CreateRequestParams) (domain.TransferRequest, error) {
	if request, err := s.cached(ctx, arg.ID); err == nil {
		return request, nil
	}

	request, err := s.repo.Create(ctx, arg)
	if err == nil {
		return request, nil
	}

	if !errors.Is(err, domain.ErrRequestExists) {
		return domain.TransferRequest{}, err
	}

	return s.repo.Get(ctx, arg.ID)
}

// Get returns the transfer request with the given id. Exposed so stuck
// IN_PROGRESS requests can be inspected operationally.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.TransferRequest, error) {
	if request, err := s.cached(ctx, id); err == nil {
		return request, nil
	}

	return s.repo.Get(ctx, id)
}

// ValidatePayload fails when the candidate payload differs from the stored
// request, protecting against an idempotency key reused with another payload.
func (s *Service) ValidatePayload(request domain.TransferRequest, arg domain.CreateRequestParams) error {
	if !request.SamePayload(arg.SourceAccountID, arg.TargetAccountID, arg.Amount) {
		return domain.ErrRequestConflict(request.ID)
	}

	return nil
}

// CompleteWithSuccess transitions the request to COMPLETED with a reference
// to the transfer that satisfied it.
func (s *Service) CompleteWithSuccess(ctx context.Context, request domain.TransferRequest, transfer domain.Transfer) (domain.TransferRequest, error) {
	if transfer.ID == uuid.Nil || transfer.Status != domain.TransferFundsTransferred {
		return domain.TransferRequest{}, domain.ErrInsufficientRequestData(request.ID)
	}

	if request.Status != domain.RequestInProgress {
		return domain.TransferRequest{}, domain.ErrInvalidRequestState(request.ID)
	}

	completed, err := s.repo.Complete(ctx, domain.CompleteRequestParams{
		RequestID:   request.ID,
		OutcomeCode: domain.OutcomeOK,
		InfoMessage: successMessage,
		TransferID:  &transfer.ID,
	})
	if err != nil {
		return domain.TransferRequest{}, err
	}

	s.remember(ctx, completed)

	return completed, nil
}

// CompleteWithError transitions the request to COMPLETED with the business
// failure that ended it, so replays can reproduce the outcome verbatim.
func (s *Service) CompleteWithError(ctx context.Context, request domain.TransferRequest, code errorspkg.Code, message string) (domain.TransferRequest, error) {
	if code == "" || message == "" {
		return domain.TransferRequest{}, domain.ErrInsufficientRequestData(request.ID)
	}

	if request.Status != domain.RequestInProgress {
		return domain.TransferRequest{}, domain.ErrInvalidRequestState(request.ID)
	}

	completed, err := s.repo.Complete(ctx, domain.CompleteRequestParams{
		RequestID:   request.ID,
		OutcomeCode: string(code),
		InfoMessage: message,
	})
	if err != nil {
		return domain.TransferRequest{}, err
	}

	s.remember(ctx, completed)

	return completed, nil
}

// Resolve returns the outcome recorded on a COMPLETED request: the stored
// transfer for a success, or the original error with the exact code and
// message recorded at first completion.
func (s *Service) Resolve(ctx context.Context, request domain.TransferRequest) (domain.Transfer, error) {
	if request.Status != domain.RequestCompleted {
		return domain.Transfer{}, domain.ErrInvalidRequestState(request.ID)
	}

	if request.OutcomeCode == domain.OutcomeOK && request.TransferID != nil {
		return s.transfers.Get(ctx, *request.TransferID)
	}

	return domain.Transfer{}, errorspkg.New(errorspkg.Code(request.OutcomeCode), request.InfoMessage)
}

// cached returns a previously completed request from the cache.
//
// Only COMPLETED requests are cached: they are immutable, so a cached copy
// can never go stale.
func (s *Service) cached(ctx context.Context, id uuid.UUID) (domain.TransferRequest, error) {
	value, err := s.cache.Get(ctx, cacheKey(id))
	if err != nil {
		if !errors.Is(err, cachepkg.ErrMiss) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("transfer request cache read failed")
		}

		return domain.TransferRequest{}, err
	}

	var request domain.TransferRequest
	if err := json.Unmarshal([]byte(value), &request); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("transfer request cache entry is malformed")
		return domain.TransferRequest{}, err
	}

	return request, nil
}

func (s *Service) remember(ctx context.Context, request domain.TransferRequest) {
	value, err := json.Marshal(request)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("transfer request cache marshal failed")
		return
	}

	if err := s.cache.Put(ctx, cacheKey(request.ID), string(value), s.cacheTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("transfer request cache write failed")
	}
}
