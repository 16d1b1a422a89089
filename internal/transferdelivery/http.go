// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
	"github.com/go-petr/money-transfer/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, cmd domain.TransferCommand) (domain.Transfer, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error)
	List(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]domain.Transfer, error)
}

// RequestReader provides the transfer request read path.
type RequestReader interface {
	Get(ctx context.Context, id uuid.UUID) (domain.TransferRequest, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service  Service
	requests RequestReader
}

// NewHandler returns transfer handler.
func NewHandler(ts Service, rr RequestReader) Handler {
	return Handler{service: ts, requests: rr}
}

// statusOf maps an application error code to an http status.
func statusOf(err error) int {
	switch errorspkg.CodeOf(err) {
	case errorspkg.CodeSameAccount,
		errorspkg.CodeInsufficientFunds,
		errorspkg.CodeInvalidAmount:
		return http.StatusBadRequest
	case errorspkg.CodeResourceNotFound:
		return http.StatusNotFound
	case errorspkg.CodeRequestConflict,
		errorspkg.CodeConcurrencyConflict:
		return http.StatusConflict
	case errorspkg.CodeExchangeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type data struct {
	Transfer domain.Transfer `json:"transfer"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

type transferRequest struct {
	RequestID       string          `json:"request_id" binding:"required,uuid"`
	SourceAccountID string          `json:"source_account_id" binding:"required,uuid"`
	TargetAccountID string          `json:"target_account_id" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Mode            string          `json:"mode" binding:"required,concurrencymode"`
}

// Transfer handles http request to execute an idempotent transfer.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	transfer, err := h.service.Transfer(ctx, domain.TransferCommand{
		RequestID:       uuid.MustParse(req.RequestID),
		SourceAccountID: uuid.MustParse(req.SourceAccountID),
		TargetAccountID: uuid.MustParse(req.TargetAccountID),
		Amount:          req.Amount,
		Mode:            domain.ConcurrencyMode(req.Mode),
	})
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			gctx.JSON(status, web.Error(errorspkg.ErrInternal))
			return
		}

		gctx.JSON(status, web.Error(err))

		return
	}

	res := response{
		Data: data{transfer},
	}

	gctx.JSON(http.StatusOK, res)
}

type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Get handles http request to get a transfer.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	transfer, err := h.service.Get(ctx, uuid.MustParse(req.ID))
	if err != nil {
		if errorspkg.Is(err, errorspkg.CodeResourceNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{transfer},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	AccountID string `form:"account_id" binding:"required,uuid"`
	PageID    int32  `form:"page_id" binding:"required,min=1"`
	PageSize  int32  `form:"page_size" binding:"required,min=1,max=100"`
}

type dataTransfers struct {
	Transfers []domain.Transfer `json:"transfers"`
}
type responseTransfers struct {
	Data dataTransfers `json:"data,omitempty"`
}

// List handles http request to list the transfers involving an account.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	limit := req.PageSize
	offset := (req.PageID - 1) * req.PageSize

	transfers, err := h.service.List(ctx, uuid.MustParse(req.AccountID), limit, offset)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseTransfers{
		Data: dataTransfers{transfers},
	}

	gctx.JSON(http.StatusOK, res)
}

type dataRequest struct {
	TransferRequest domain.TransferRequest `json:"transfer_request"`
}
type responseRequest struct {
	Data dataRequest `json:"data,omitempty"`
}

// GetRequest handles http request to inspect a transfer request.
func (h *Handler) GetRequest(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	request, err := h.requests.Get(ctx, uuid.MustParse(req.ID))
	if err != nil {
		if errorspkg.Is(err, errorspkg.CodeResourceNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseRequest{
		Data: dataRequest{request},
	}

	gctx.JSON(http.StatusOK, res)
}
