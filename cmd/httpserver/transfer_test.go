//go:build integration

package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/money-transfer/cmd/httpserver"
	"github.com/go-petr/money-transfer/internal/accountrepo"
	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/integrationtest"
	"github.com/go-petr/money-transfer/internal/transferrepo"
	"github.com/go-petr/money-transfer/pkg/currencypkg"
)

func seedAccount(t *testing.T, server *httpserver.Server, balance string) domain.Account {
	t.Helper()

	repo := accountrepo.NewRepoPGS(server.DB)

	account, err := repo.Create(context.Background(),
		decimal.RequireFromString(balance), currencypkg.USD)
	if err != nil {
		t.Fatalf("seeding account returned error: %v", err)
	}

	return account
}

func postTransfer(t *testing.T, server *httpserver.Server, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Encoding request body error: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func TestTransferIdempotentReplay(t *testing.T) {
	server := integrationtest.SetupServer(t)

	source := seedAccount(t, server, "1000")
	target := seedAccount(t, server, "1000")

	body := map[string]string{
		"request_id":        uuid.NewString(),
		"source_account_id": source.ID.String(),
		"target_account_id": target.ID.String(),
		"amount":            "100",
		"mode":              string(domain.ModePessimistic),
	}

	first := postTransfer(t, server, body)
	if first.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v, body %s", first.Code, http.StatusOK, first.Body)
	}

	replay := postTransfer(t, server, body)
	if replay.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v, body %s", replay.Code, http.StatusOK, replay.Body)
	}

	if first.Body.String() != replay.Body.String() {
		t.Errorf("Replay response differs from the original:\n%s\n%s", first.Body, replay.Body)
	}

	// The replay must not have moved money twice.
	repo := accountrepo.NewRepoPGS(server.DB)

	gotSource, err := repo.Get(context.Background(), source.ID)
	if err != nil {
		t.Fatalf("repo.Get(ctx, %v) returned error: %v", source.ID, err)
	}

	if want := decimal.RequireFromString("900"); !gotSource.Balance.Equal(want) {
		t.Errorf("source balance: got %s, want %s", gotSource.Balance, want)
	}
}

func TestTransferConcurrentDuplicates(t *testing.T) {
	server := integrationtest.SetupServer(t)

	source := seedAccount(t, server, "1000")
	target := seedAccount(t, server, "1000")

	body := map[string]string{
		"request_id":        uuid.NewString(),
		"source_account_id": source.ID.String(),
		"target_account_id": target.ID.String(),
		"amount":            "100",
		"mode":              string(domain.ModeSerializable),
	}

	const n = 5

	var wg sync.WaitGroup

	codes := make(chan int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			codes <- postTransfer(t, server, body).Code
		}()
	}

	wg.Wait()
	close(codes)

	for code := range codes {
		// Losers of the serializable arbitration may surface a transient
		// conflict; the client retry then replays the recorded outcome.
		if code != http.StatusOK && code != http.StatusConflict {
			t.Errorf("Status code: got %v, want %v or %v", code, http.StatusOK, http.StatusConflict)
		}
	}

	// At most one transfer may survive compensation for a single request.
	transfers, err := transferrepo.NewRepoPGS(server.DB).List(context.Background(), source.ID, 10, 0)
	if err != nil {
		t.Fatalf("listing transfers returned error: %v", err)
	}

	active := 0

	for _, transfer := range transfers {
		if transfer.Status == domain.TransferFundsTransferred {
			active++
		}
	}

	if active > 1 {
		t.Errorf("active transfers: got %d, want at most 1", active)
	}
}

func TestTransferPayloadMismatch(t *testing.T) {
	server := integrationtest.SetupServer(t)

	source := seedAccount(t, server, "1000")
	target := seedAccount(t, server, "1000")

	body := map[string]string{
		"request_id":        uuid.NewString(),
		"source_account_id": source.ID.String(),
		"target_account_id": target.ID.String(),
		"amount":            "100",
		"mode":              string(domain.ModeOptimistic),
	}

	if got := postTransfer(t, server, body).Code; got != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", got, http.StatusOK)
	}

	body["amount"] = "200"

	if got := postTransfer(t, server, body).Code; got != http.StatusConflict {
		t.Errorf("Status code: got %v, want %v", got, http.StatusConflict)
	}
}

func TestTransferBusinessFailureReplay(t *testing.T) {
	server := integrationtest.SetupServer(t)

	source := seedAccount(t, server, "50")
	target := seedAccount(t, server, "1000")

	body := map[string]string{
		"request_id":        uuid.NewString(),
		"source_account_id": source.ID.String(),
		"target_account_id": target.ID.String(),
		"amount":            "100",
		"mode":              string(domain.ModePessimistic),
	}

	first := postTransfer(t, server, body)
	if first.Code != http.StatusBadRequest {
		t.Fatalf("Status code: got %v, want %v", first.Code, http.StatusBadRequest)
	}

	// The recorded failure is replayed verbatim.
	replay := postTransfer(t, server, body)
	if replay.Code != http.StatusBadRequest {
		t.Fatalf("Status code: got %v, want %v", replay.Code, http.StatusBadRequest)
	}

	if first.Body.String() != replay.Body.String() {
		t.Errorf("Replay response differs from the original:\n%s\n%s", first.Body, replay.Body)
	}
}
