package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"tragedy-commons/internal/cache"
	"tragedy-commons/internal/commons"
	"tragedy-commons/internal/config"
	"tragedy-commons/internal/db"

	"github.com/xuri/excelize/v2"
)

func TestCloseRoundForm(t *testing.T) {
	env := newTestEnv(t, config.Default())
	game := createGame(t, env.db, "Ostrom")
	ada := joinGame(t, env.db, game, "Ada", "Lovelace")
	bob := joinGame(t, env.db, game, "Bob", "Ross")
	manage := fmt.Sprintf("/games/%d/manage", game.ID)
	closePath := fmt.Sprintf("/games/%d/rounds/close", game.ID)

	resp := env.postForm(t, closePath, url.Values{"rounds": {""}})
	expectRedirect(t, resp, manage)
	if page := readBody(t, env.get(t, manage)); !strings.Contains(page, "no round to close") {
		t.Fatal("expected nothing-to-close warning")
	}

	submitCows(t, env.db, ada, 10)
	submitCows(t, env.db, bob, 30)
	resp = env.postForm(t, closePath, url.Values{"rounds": {"two"}})
	expectStatus(t, resp, http.StatusBadRequest)
	if pending, _ := db.PendingCount(env.db, game.ID); pending != 2 {
		t.Fatalf("expected rows still pending after a bad form, got %d", pending)
	}

	resp = env.postForm(t, closePath, url.Values{"rounds": {"1"}})
	expectRedirect(t, resp, manage)
	page := readBody(t, env.get(t, manage))
	if !strings.Contains(page, "Round 1 closed with 2 farmers.") {
		t.Fatal("expected close confirmation")
	}
	if !strings.Contains(page, "Lovelace, Ada") || !strings.Contains(page, "Ross, Bob") {
		t.Fatal("expected revealed names on the manage page")
	}

	sent := env.mail.sent()
	if len(sent) != 1 || !strings.Contains(sent[0].Body, fmt.Sprintf("/games/%d/results", game.ID)) {
		t.Fatalf("expected round email with results link, got %#v", sent)
	}
}

func TestCloseRoundAPI(t *testing.T) {
	env := newTestEnv(t, config.Default())
	game := createGame(t, env.db, "Ostrom")
	ada := joinGame(t, env.db, game, "Ada", "Lovelace")
	bob := joinGame(t, env.db, game, "Bob", "Ross")
	closePath := fmt.Sprintf("/api/games/%d/rounds/close", game.ID)

	resp := env.postJSON(t, closePath, map[string]any{"rounds": []int{}})
	expectStatus(t, resp, http.StatusConflict)

	submitCows(t, env.db, ada, 10)
	submitCows(t, env.db, bob, 30)
	resp = env.postJSON(t, closePath, nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["round_number"] != float64(1) || body["closed"] != float64(2) {
		t.Fatalf("unexpected close result %#v", body)
	}

	submitCows(t, env.db, ada, 20)
	resp = env.postJSON(t, closePath, map[string]any{"rounds": "1,2"})
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["round_number"] != float64(2) || body["closed"] != float64(1) || body["revealed"] != float64(2) {
		t.Fatalf("unexpected close result %#v", body)
	}

	rows, err := db.ClosedRows(env.db, game.ID)
	if err != nil {
		t.Fatalf("closed rows: %v", err)
	}
	for _, row := range rows {
		if !row.ShowNames {
			t.Fatalf("expected every row revealed, got %#v", row)
		}
	}

	expectStatus(t, env.postJSON(t, closePath, map[string]any{"rounds": []int{0}}), http.StatusBadRequest)
	expectStatus(t, env.postJSON(t, "/api/games/999/rounds/close", nil), http.StatusNotFound)

	events, err := db.ListEvents(env.db, game.ID, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	closed := 0
	for _, event := range events {
		if event.Type == "round_closed" {
			closed++
		}
	}
	if closed != 2 {
		t.Fatalf("expected two round_closed events, got %d", closed)
	}
}

func TestResultsPageRefreshesAfterClose(t *testing.T) {
	env := newTestEnv(t, config.Default())
	game := createGame(t, env.db, "Ostrom")
	ada := joinGame(t, env.db, game, "Ada", "Lovelace")
	results := fmt.Sprintf("/games/%d/results", game.ID)

	if page := readBody(t, env.get(t, results)); !strings.Contains(page, "No round has been closed yet.") {
		t.Fatal("expected empty results page")
	}

	submitCows(t, env.db, ada, 25)
	expectStatus(t, env.postJSON(t, fmt.Sprintf("/api/games/%d/rounds/close", game.ID), nil), http.StatusOK)

	resp := env.get(t, results)
	expectStatus(t, resp, http.StatusOK)
	page := readBody(t, resp)
	if !strings.Contains(page, "<h2>Round 1</h2>") {
		t.Fatal("expected round 1 after the close invalidated the cache")
	}
	if !strings.Contains(page, "anonymous") || strings.Contains(page, "Lovelace") {
		t.Fatal("expected undisclosed name to stay anonymous")
	}

	expectStatus(t, env.get(t, "/games/999/results"), http.StatusNotFound)
}

// gatedResults holds its first write until release is closed, so a round
// can be closed while a results request sits between compute and store.
type gatedResults struct {
	*cache.Memory
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedResults) Set(ctx context.Context, gameID uint, results []commons.RoundResult) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Memory.Set(ctx, gameID, results)
}

func TestResultsCacheNotStaleAfterClose(t *testing.T) {
	gated := &gatedResults{
		Memory:  cache.NewMemory(time.Hour),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	env := newTestEnv(t, config.Default(), WithResultsCache(gated))
	game := createGame(t, env.db, "Ostrom")
	ada := joinGame(t, env.db, game, "Ada", "Lovelace")
	results := fmt.Sprintf("/games/%d/results", game.ID)

	done := make(chan error, 1)
	go func() {
		resp, err := http.Get(env.ts.URL + results)
		if err == nil {
			resp.Body.Close()
		}
		done <- err
	}()
	select {
	case <-gated.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("results request never reached the cache")
	}

	submitCows(t, env.db, ada, 25)
	expectStatus(t, env.postJSON(t, fmt.Sprintf("/api/games/%d/rounds/close", game.ID), nil), http.StatusOK)
	close(gated.release)
	if err := <-done; err != nil {
		t.Fatalf("results request: %v", err)
	}

	cached, ok, err := gated.Get(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if ok && len(cached) != 1 {
		t.Fatalf("expected the pre-close results to be dropped, cached %d rounds", len(cached))
	}
	if page := readBody(t, env.get(t, results)); !strings.Contains(page, "<h2>Round 1</h2>") {
		t.Fatal("expected round 1 on the results page")
	}
}

func TestCloseRoundReportsMailFailure(t *testing.T) {
	env := newTestEnv(t, config.Default())
	env.mail.err = errMailDown
	game := createGame(t, env.db, "Ostrom")
	ada := joinGame(t, env.db, game, "Ada", "Lovelace")
	manage := fmt.Sprintf("/games/%d/manage", game.ID)

	submitCows(t, env.db, ada, 10)
	resp := env.postForm(t, fmt.Sprintf("/games/%d/rounds/close", game.ID), url.Values{"rounds": {""}})
	expectRedirect(t, resp, manage)
	page := readBody(t, env.get(t, manage))
	if !strings.Contains(page, "Round 1 closed with 1 farmers.") || !strings.Contains(page, "could not be sent") {
		t.Fatal("expected close confirmation with the email warning")
	}

	submitCows(t, env.db, ada, 20)
	resp = env.postJSON(t, fmt.Sprintf("/api/games/%d/rounds/close", game.ID), nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["round_number"] != float64(2) {
		t.Fatalf("expected the round to close despite the mail error, got %#v", body)
	}
	if warning, _ := body["warning"].(string); !strings.Contains(warning, "could not be sent") {
		t.Fatalf("expected a warning in the response, got %#v", body)
	}

	env.mail.mu.Lock()
	env.mail.err = nil
	env.mail.mu.Unlock()
	submitCows(t, env.db, ada, 30)
	body = decodeBody(t, env.postJSON(t, fmt.Sprintf("/api/games/%d/rounds/close", game.ID), nil))
	if _, ok := body["warning"]; ok {
		t.Fatalf("expected no warning once mail works, got %#v", body)
	}
}

func TestResultsExport(t *testing.T) {
	env := newTestEnv(t, config.Default())
	game := createGame(t, env.db, "Ostrom")
	ada := joinGame(t, env.db, game, "Ada", "Lovelace")
	submitCows(t, env.db, ada, 25)
	if _, err := db.CloseRound(env.db, game.ID, nil); err != nil {
		t.Fatalf("close: %v", err)
	}

	resp := env.get(t, fmt.Sprintf("/games/%d/results.xlsx", game.ID))
	expectStatus(t, resp, http.StatusOK)
	if got := resp.Header.Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := resp.Header.Get("Content-Disposition"); !strings.Contains(got, fmt.Sprintf("commons-game-%d-results.xlsx", game.ID)) {
		t.Fatalf("unexpected disposition %q", got)
	}

	book, err := excelize.OpenReader(bytes.NewReader([]byte(readBody(t, resp))))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = book.Close() })
	rows, err := book.GetRows("Players")
	if err != nil {
		t.Fatalf("players sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one player row, got %d", len(rows))
	}
}
