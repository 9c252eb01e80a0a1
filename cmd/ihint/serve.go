package main

import (
	"ihint/internal/mcp"
	"ihint/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve ask and fbfs over HTTP, websockets and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := server.New(a.cfg.Server, a.chat, a.fbfs, mcp.HTTPHandler(mcp.NewServer(a.chat, a.fbfs)), a.log)
			return srv.Run(ctx)
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve ask and fbfs as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			a.log.Info("serving MCP on stdio")
			return mcp.ServeStdio(ctx, mcp.NewServer(a.chat, a.fbfs))
		},
	}
}
