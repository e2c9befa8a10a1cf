package e2e_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Darhlilove/dashly-sub001/pkg/dataset"
	"github.com/Darhlilove/dashly-sub001/pkg/export"
	"github.com/Darhlilove/dashly-sub001/pkg/model"
	"github.com/Darhlilove/dashly-sub001/pkg/query"
)

// ============================================================================
// E2E: full ask-to-report workflow, from a CSV on disk to a served bundle
// ============================================================================

func writeSalesCSV(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	content := "region,product,amount\n" +
		"north,widget,100\n" +
		"north,gadget,50\n" +
		"south,widget,200\n" +
		"south,gadget,75\n" +
		"east,widget,120\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestWorkflow_AskToReport(t *testing.T) {
	path := writeSalesCSV(t)

	// Step 1: load and profile the dataset.
	ds, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := dataset.ComputeStats(context.Background(), ds); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if ds.Columns[2].Type != model.ColInteger {
		t.Errorf("amount column inferred as %s, want integer", ds.Columns[2].Type)
	}

	// Step 2: a natural-language question becomes SQL with a chart.
	tr, err := query.NewRuleTranslator().Translate("total amount by region", ds)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if tr.Chart == nil {
		t.Fatal("aggregation question should suggest a chart")
	}

	// Step 3: execute against the in-memory database.
	ex, err := query.NewSQLiteExecutor(ds)
	if err != nil {
		t.Fatalf("executor: %v", err)
	}
	defer ex.Close()

	res, err := ex.Execute(context.Background(), tr.SQL)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 regions, got %d rows", len(res.Rows))
	}

	// Step 4: record the exchange in chat history.
	histDir := t.TempDir()
	hdb, err := query.OpenHistoryDB(filepath.Join(histDir, "history.db"))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	defer hdb.Close()

	conv, err := hdb.CreateConversation("sales", ds.Name)
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	for _, m := range []model.Message{
		{ConversationID: conv.ID, Role: model.RoleUser, Text: "total amount by region"},
		{ConversationID: conv.ID, Role: model.RoleAssistant, Text: tr.Summary, SQL: tr.SQL},
	} {
		m := m
		if err := hdb.AppendMessage(&m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	msgs, err := hdb.GetMessages(conv.ID)
	if err != nil || len(msgs) != 2 {
		t.Fatalf("messages = %d, err = %v, want 2", len(msgs), err)
	}
	if msgs[1].SQL != tr.SQL {
		t.Error("assistant message should carry the executed SQL")
	}

	// Step 5: export the result as a report bundle.
	bundleDir := filepath.Join(t.TempDir(), "report")
	err = export.SaveBundle(export.BundleOptions{
		Dir:    bundleDir,
		Title:  "sales by region",
		Result: res,
		Chart:  tr.Chart,
	})
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	for _, f := range []string{"index.html", "results.csv", "chart.svg", "chart.png"} {
		if _, err := os.Stat(filepath.Join(bundleDir, f)); err != nil {
			t.Errorf("bundle missing %s: %v", f, err)
		}
	}

	// Step 6: serve the bundle and fetch it over HTTP.
	port, err := export.FindAvailablePort(9000, 9100)
	if err != nil {
		t.Fatalf("no free port: %v", err)
	}
	srv := export.NewPreviewServer(bundleDir, port)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			t.Logf("preview server: %v", err)
		}
	}()
	defer srv.Stop()
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(srv.URL())
	if err != nil {
		t.Fatalf("GET %s: %v", srv.URL(), err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "sales by region") {
		t.Error("served page should contain the report title")
	}
}

func TestWorkflow_DatasetReloadAfterChange(t *testing.T) {
	path := writeSalesCSV(t)

	ds, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	before := len(ds.Rows)

	// Simulate the watcher's reload after the file grows.
	extra := "west,widget,300\n"
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString(extra); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	reloaded, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Rows) != before+1 {
		t.Errorf("reloaded rows = %d, want %d", len(reloaded.Rows), before+1)
	}

	// A fresh executor sees the new row.
	ex, err := query.NewSQLiteExecutor(reloaded)
	if err != nil {
		t.Fatalf("executor: %v", err)
	}
	defer ex.Close()
	res, err := ex.Execute(context.Background(), fmt.Sprintf("SELECT COUNT(*) FROM %s", query.TableName))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Rows[0][0] != fmt.Sprint(before+1) {
		t.Errorf("count = %s, want %d", res.Rows[0][0], before+1)
	}
}

func TestWorkflow_WriteStatementsNeverReachTheDatabase(t *testing.T) {
	path := writeSalesCSV(t)
	ds, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ex, err := query.NewSQLiteExecutor(ds)
	if err != nil {
		t.Fatalf("executor: %v", err)
	}
	defer ex.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := ex.Execute(ctx, "DROP TABLE data"); err == nil {
		t.Fatal("DROP should be rejected")
	}
	if _, err := ex.Execute(ctx, "SELECT 1; DELETE FROM data"); err == nil {
		t.Fatal("multi-statement injection should be rejected")
	}

	// The table is intact afterwards.
	res, err := ex.Execute(ctx, "SELECT COUNT(*) FROM data")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Rows[0][0] != "5" {
		t.Errorf("row count after rejected writes = %s, want 5", res.Rows[0][0])
	}
}
