// Command ocp-mcp-server exposes an OceanBase Cloud Platform deployment as
// MCP tools, signing every API call with the configured access key.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/config"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/log"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
	ocptools "github.com/oceanbase/awesome-oceanbase-mcp/internal/tools/ocp"
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
		Use:     "ocp-mcp-server",
		Short:   "MCP server for OceanBase Cloud Platform",
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
			cfg, err := config.LoadOCP()
			if err != nil {
				return err
			}

			client, err := ocp.NewClient(cfg.URL, cfg.AccessKeyID, cfg.AccessKeySecret, ocp.WithLogger(logger))
			if err != nil {
				return err
			}
			logger.Info("connecting to OCP", "url", cfg.URL, "access_key", log.SanitizeKey(cfg.AccessKeyID))

			tr, err := server.ParseTransport(transport)
			if err != nil {
				return err
			}
			srv := server.New("ocp_mcp_server", version, logger)
			ocptools.NewToolServer(srv, client, logger).RegisterAll()
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
