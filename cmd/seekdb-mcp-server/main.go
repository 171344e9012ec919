// Command seekdb-mcp-server exposes a seekdb instance as MCP tools: raw
// SQL, vector collections, full-text and hybrid search, and the AI SQL
// functions.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/config"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/log"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/seekdb"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
	seekdbtools "github.com/oceanbase/awesome-oceanbase-mcp/internal/tools/seekdb"
)

const version = "0.1.0"

func main() {
	var (
		transport string
		host      string
		port      int
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:     "seekdb-mcp-server",
		Short:   "MCP server for seekdb",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			logCfg := log.FromEnv()
			if logLevel != "" {
				logCfg.Level = logLevel
			}
			if logFormat != "" {
				logCfg.Format = log.Format(logFormat)
			}
			logger := log.New(logCfg)

			config.LoadDotenv()
			cfg, err := config.LoadSeekDB()
			if err != nil {
				return err
			}

			client, err := seekdb.NewClient(*cfg, log.WithComponent(logger, "seekdb"))
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("connect to seekdb at %s:%d: %w", cfg.Host, cfg.Port, err)
			}
			logger.Info("connected to seekdb", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database)

			tr, err := server.ParseTransport(transport)
			if err != nil {
				return err
			}
			srv := server.New("seekdb_mcp_server", version, logger)
			seekdbtools.NewToolServer(srv, client, logger).RegisterAll()
			return srv.Serve(tr, fmt.Sprintf("%s:%d", host, port))
		},
	}

	root.Flags().StringVar(&transport, "transport", "stdio", "transport to serve on (stdio or sse)")
	root.Flags().StringVar(&host, "host", "127.0.0.1", "listen host for sse")
	root.Flags().IntVar(&port, "port", 8000, "listen port for sse")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&logFormat, "log-format", "", "log format (text or json)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
