// Package transferservice orchestrates idempotent money transfers.
package transferservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// notifyTimeout bounds the detached notification publish.
const notifyTimeout = 5 * time.Second

// Tracker manages transfer request state on behalf of the orchestrator.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Tracker interface {
	GetOrCreate(ctx context.Context, arg domain.CreateRequestParams) (domain.TransferRequest, error)
	Get(ctx context.Context, id uuid.UUID) (domain.TransferRequest, error)
	ValidatePayload(request domain.TransferRequest, arg domain.CreateRequestParams) error
	CompleteWithSuccess(ctx context.Context, request domain.TransferRequest, transfer domain.Transfer) (domain.TransferRequest, error)
	CompleteWithError(ctx context.Context, request domain.TransferRequest, code errorspkg.Code, message string) (domain.TransferRequest, error)
	Resolve(ctx context.Context, request domain.TransferRequest) (domain.Transfer, error)
}

// Strategy executes the balance mutation under one concurrency discipline.
type Strategy interface {
	AcquireAndTransfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error)
}

// Compensator accepts committed transfers whose request completion was lost.
type Compensator interface {
	Enqueue(ctx context.Context, transferID uuid.UUID)
}

// Sink publishes transfer notifications.
type Sink interface {
	Notify(ctx context.Context, message string) error
}

// Repo provides the transfer read path.
type Repo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error)
	List(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]domain.Transfer, error)
}

// Service facilitates transfer orchestration logic.
type Service struct {
	repo        Repo
	tracker     Tracker
	strategies  map[domain.ConcurrencyMode]Strategy
	compensator Compensator
	sink        Sink
}

// New returns a transfer service.
func New(
	repo Repo,
	tracker Tracker,
	strategies map[domain.ConcurrencyMode]Strategy,
	compensator Compensator,
	sink Sink,
) *Service {
	return &Service{
		repo:        repo,
		tracker:     tracker,
		strategies:  strategies,
		compensator: compensator,
		sink:        sink,
	}
}

// Transfer executes an idempotent transfer submission.
//
// The idempotency protocol: register the request (or find the existing one),
// reject payload mismatches, replay the recorded outcome for completed
// requests, otherwise execute under the requested concurrency strategy and
// record the result. Business failures are recorded before being returned so
// duplicates reproduce them; transient and internal failures leave the
// request IN_PROGRESS for a later retry.
func (s *Service) Transfer(ctx context.Context, cmd domain.TransferCommand) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	createArg := domain.CreateRequestParams{
		ID:              cmd.RequestID,
		SourceAccountID: cmd.SourceAccountID,
		TargetAccountID: cmd.TargetAccountID,
		Amount:          cmd.Amount,
	}

	request, err := s.tracker.GetOrCreate(ctx, createArg)
	if err != nil {
		return domain.Transfer{}, err
	}

	if err := s.tracker.ValidatePayload(request, createArg); err != nil {
		l.Info().
			Str("request_id", request.ID.String()).
			Msg("transfer request payload mismatch")

		return domain.Transfer{}, err
	}

	if request.Status == domain.RequestCompleted {
		return s.tracker.Resolve(ctx, request)
	}

	strategy, ok := s.strategies[cmd.Mode]
	if !ok {
		l.Error().
			Str("mode", string(cmd.Mode)).
			Msg("no strategy registered for concurrency mode")

		return domain.Transfer{}, errorspkg.ErrInternal
	}

	if cmd.SourceAccountID == cmd.TargetAccountID {
		err := domain.ErrSameAccount(cmd.SourceAccountID)
		s.recordFailure(ctx, request, err)

		return domain.Transfer{}, err
	}

	transfer, err := strategy.AcquireAndTransfer(ctx, domain.CreateTransferParams{
		SourceAccountID: cmd.SourceAccountID,
		TargetAccountID: cmd.TargetAccountID,
		Amount:          cmd.Amount,
	})
	if err != nil {
		if errorspkg.IsBusiness(err) {
			s.recordFailure(ctx, request, err)
		}

		return domain.Transfer{}, err
	}

	if _, err := s.tracker.CompleteWithSuccess(ctx, request, transfer); err != nil {
		if errorspkg.Is(err, errorspkg.CodeInvalidRequestState) {
			return s.compensate(ctx, request, transfer)
		}

		return domain.Transfer{}, err
	}

	s.notify(ctx, transfer)

	return transfer, nil
}

// Get returns the transfer with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error) {
	return s.repo.Get(ctx, id)
}

// List returns the transfers involving the given account.
func (s *Service) List(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]domain.Transfer, error) {
	return s.repo.List(ctx, accountID, limit, offset)
}

// recordFailure completes the request with a business failure. A failed
// completion is logged but not surfaced: the caller's error is the business
// failure itself, and no ledger mutation was committed.
func (s *Service) recordFailure(ctx context.Context, request domain.TransferRequest, failure error) {
	code := errorspkg.CodeOf(failure)

	if _, err := s.tracker.CompleteWithError(ctx, request, code, failure.Error()); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("request_id", request.ID.String()).
			Str("outcome_code", string(code)).
			Msg("recording transfer request failure failed")
	}
}

// compensate handles the lost completion race: the local ledger mutation is
// committed but another submission completed the request first. The local
// transfer is handed to the refund pipeline and the winner's recorded outcome
// is returned, so the caller observes a single result for the request.
func (s *Service) compensate(ctx context.Context, request domain.TransferRequest, transfer domain.Transfer) (domain.Transfer, error) {
	zerolog.Ctx(ctx).Warn().
		Str("request_id", request.ID.String()).
		Str("transfer_id", transfer.ID.String()).
		Msg("transfer completion lost the race, scheduling refund")

	s.compensator.Enqueue(ctx, transfer.ID)

	completed, err := s.tracker.Get(ctx, request.ID)
	if err != nil {
		return domain.Transfer{}, err
	}

	return s.tracker.Resolve(ctx, completed)
}

// notify publishes the transfer notification on a detached context so a slow
// broker cannot delay or fail the already committed transfer.
func (s *Service) notify(ctx context.Context, transfer domain.Transfer) {
	l := zerolog.Ctx(ctx)

	message := "Transfer " + transfer.ID.String() + " of " + transfer.Amount.String() + " " +
		transfer.Currency + " to account " + transfer.TargetAccountID.String() + " completed"

	go func() {
		ctx, cancel := context.WithTimeout(l.WithContext(context.Background()), notifyTimeout)
		defer cancel()

		if err := s.sink.Notify(ctx, message); err != nil {
			l.Warn().Err(err).
				Str("transfer_id", transfer.ID.String()).
				Msg("transfer notification failed")
		}
	}()
}
