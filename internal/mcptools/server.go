package mcptools

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// version is set by the linker at build time.
var version = "dev"

// NewImportGraphMCPServer creates an MCP server with the import graph tools
// registered.
func NewImportGraphMCPServer(svc *ImportGraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "importgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_repository",
		Description: "Scan a local directory or clone a git URL, extract the top-level modules imported by each Python, JavaScript and TypeScript file, and merge File-IMPORTS->Module facts into the graph.",
	}, svc.ScanRepository)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "modules_for_file",
		Description: "List the top-level modules imported by one file, in lexicographic order.",
	}, svc.ModulesForFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "files_importing",
		Description: "List every file that imports the given top-level module.",
	}, svc.FilesImporting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Return the number of File nodes, Module nodes and IMPORTS edges in the graph.",
	}, svc.GraphStats)

	return server
}

// Handler serves the MCP endpoint at /mcp and Prometheus metrics at /metrics.
func Handler(svc *ImportGraphService) http.Handler {
	server := NewImportGraphMCPServer(svc)

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// RunMCPServer serves Handler on addr until ctx is cancelled.
func RunMCPServer(ctx context.Context, svc *ImportGraphService, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: Handler(svc),
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	slog.Info("mcp server listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
