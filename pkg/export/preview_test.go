package export

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewPreviewServer(t *testing.T) {
	server := NewPreviewServer("/tmp/test", 8080)

	if server == nil {
		t.Fatal("NewPreviewServer returned nil")
	}
	if server.bundlePath != "/tmp/test" {
		t.Errorf("Expected bundlePath '/tmp/test', got %s", server.bundlePath)
	}
	if server.port != 8080 {
		t.Errorf("Expected port 8080, got %d", server.port)
	}
}

func TestPreviewServer_Port(t *testing.T) {
	server := NewPreviewServer("/tmp/test", 9001)
	if server.Port() != 9001 {
		t.Errorf("Expected Port() to return 9001, got %d", server.Port())
	}
}

func TestPreviewServer_URL(t *testing.T) {
	server := NewPreviewServer("/tmp/test", 9002)
	expected := "http://localhost:9002"
	if server.URL() != expected {
		t.Errorf("Expected URL() to return %s, got %s", expected, server.URL())
	}
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(19000, 19100)
	if err != nil {
		t.Errorf("FindAvailablePort failed: %v", err)
	}
	if port < 19000 || port > 19100 {
		t.Errorf("Port %d is outside expected range 19000-19100", port)
	}
}

func TestPreviewServer_Start_MissingBundle(t *testing.T) {
	server := NewPreviewServer("/nonexistent/path/12345", 19050)
	if err := server.Start(); err == nil {
		t.Error("Expected error for missing bundle path")
	}
}

func TestPreviewServer_Start_MissingIndex(t *testing.T) {
	server := NewPreviewServer(t.TempDir(), 19051)
	if err := server.Start(); err == nil {
		t.Error("Expected error for missing index.html")
	}
}

func TestPreviewServer_Integration(t *testing.T) {
	tmpDir := t.TempDir()

	indexContent := `<!DOCTYPE html><html><head><title>Test</title></head><body>Hello</body></html>`
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(indexContent), 0644); err != nil {
		t.Fatalf("Failed to create index.html: %v", err)
	}

	port, err := FindAvailablePort(19060, 19080)
	if err != nil {
		t.Fatalf("Failed to find available port: %v", err)
	}

	server := NewPreviewServer(tmpDir, port)
	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	defer server.Stop()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(server.URL())
	if err != nil {
		t.Fatalf("Failed to GET index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Cache-Control") == "" {
		t.Error("Expected Cache-Control header")
	}
	if pragma := resp.Header.Get("Pragma"); pragma != "no-cache" {
		t.Errorf("Expected Pragma: no-cache, got %s", pragma)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if string(body) != indexContent {
		t.Errorf("Expected body %q, got %q", indexContent, string(body))
	}

	statusResp, err := http.Get(server.URL() + "/__preview__/status")
	if err != nil {
		t.Fatalf("Failed to GET status: %v", err)
	}
	defer statusResp.Body.Close()
	if statusResp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 from status endpoint, got %d", statusResp.StatusCode)
	}

	select {
	case err := <-errChan:
		t.Fatalf("Server error: %v", err)
	default:
	}
}
