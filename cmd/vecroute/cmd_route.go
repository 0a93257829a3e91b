package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-vecroute/pkg/types"
)

var (
	routeOrigin string
	routeRole   string

	routeCmd = &cobra.Command{
		Use:   "route [text]",
		Short: "Route one request through a simulated mesh and print the hop trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRoute,
	}
)

func init() {
	f := routeCmd.Flags()
	f.StringVar(&routeOrigin, "origin", "", "起点节点（默认第一个节点）")
	f.StringVar(&routeRole, "role", "", "目标角色（默认由文本推断）")
}

func runRoute(cmd *cobra.Command, args []string) error {
	req := types.Request{}
	if len(args) > 0 {
		req.Text = args[0]
	}
	if routeRole != "" {
		role, err := types.ParseRole(routeRole)
		if err != nil {
			return err
		}
		req.Role = role
	}
	if req.Text == "" && req.Role == types.RoleUnknown {
		return errors.New("need request text or --role")
	}

	mesh, err := newSeededMesh(nil)
	if err != nil {
		return err
	}
	defer func() { _ = mesh.Stop(context.Background()) }()

	origin := types.NodeID(routeOrigin)
	if origin.IsEmpty() {
		nodes := mesh.NetworkState().Nodes
		if len(nodes) == 0 {
			return fmt.Errorf("mesh is empty")
		}
		origin = nodes[0].ID
	}

	resp, err := mesh.Query(cmd.Context(), origin, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, resp)
	}
	printf(out, "request %s -> %s\n", resp.RequestID, resp.TargetRole)
	if resp.SectionFailure {
		printf(out, "section failure at %s\n", origin)
		return nil
	}
	for _, h := range resp.Adaptive.Hops {
		printf(out, "  %2d %-6s %-8s dist=%.4f terminal=%v\n",
			h.Step, h.NodeID, h.Method, h.Distance, h.IsTerminal)
	}
	printf(out, "adaptive: %s (success=%v hops=%d)\n",
		formatPath(resp.Adaptive.Path), resp.Adaptive.Success, resp.Adaptive.TotalHops)
	printf(out, "trad:     %s (success=%v hops=%d)\n",
		formatPath(resp.Trad.Path), resp.Trad.Success, resp.Trad.TotalHops)
	return nil
}
