// Command powermem-mcp-server exposes a local SQLite-backed agent memory
// store as MCP tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/config"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/log"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/powermem"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
	powermemtools "github.com/oceanbase/awesome-oceanbase-mcp/internal/tools/powermem"
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
		Use:     "powermem-mcp-server",
		Short:   "MCP server for agent memory storage",
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
			cfg, err := config.LoadPowerMem()
			if err != nil {
				return err
			}

			store, err := powermem.Open(cfg.DBPath, log.WithComponent(logger, "powermem"))
			if err != nil {
				return err
			}
			defer store.Close()
			logger.Info("memory store opened", "path", cfg.DBPath)

			tr, err := server.ParseTransport(transport)
			if err != nil {
				return err
			}
			srv := server.New("powermem_mcp_server", version, logger)
			powermemtools.NewToolServer(srv, store, logger).RegisterAll()
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
