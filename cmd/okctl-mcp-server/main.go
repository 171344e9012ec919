// Command okctl-mcp-server exposes okctl cluster lifecycle management as
// MCP tools. The ob-operator checks talk to Kubernetes directly when a
// kubeconfig is available and fall back to kubectl otherwise.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/config"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/log"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/okctl"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
	okctltools "github.com/oceanbase/awesome-oceanbase-mcp/internal/tools/okctl"
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
		Use:     "okctl-mcp-server",
		Short:   "MCP server for okctl cluster management",
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

			runner := okctl.NewRunner(log.WithComponent(logger, "okctl"))
			kube, err := okctl.NewKubeClient()
			if err != nil {
				logger.Warn("kubernetes client unavailable, ob-operator checks will use kubectl", "error", err)
				kube = nil
			}

			tr, err := server.ParseTransport(transport)
			if err != nil {
				return err
			}
			srv := server.New("okctl_mcp_server", version, logger)
			okctltools.NewToolServer(srv, runner, kube, logger).RegisterAll()
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
