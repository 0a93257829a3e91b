package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	stateDiagnostics bool

	stateCmd = &cobra.Command{
		Use:   "state",
		Short: "Print the network state of a simulated mesh",
		RunE:  runState,
	}
)

func init() {
	stateCmd.Flags().BoolVar(&stateDiagnostics, "diagnostics", false, "只输出拓扑诊断")
}

func runState(cmd *cobra.Command, _ []string) error {
	mesh, err := newSeededMesh(nil)
	if err != nil {
		return err
	}
	defer func() { _ = mesh.Stop(context.Background()) }()

	out := cmd.OutOrStdout()
	if stateDiagnostics {
		d := mesh.Diagnostics()
		if jsonOutput {
			return printJSON(out, d)
		}
		printf(out, "nodes=%d alive=%d edges=%d avg_degree=%.2f clustering=%.3f components=%d isolated=%d\n",
			d.Nodes, d.Alive, d.Edges, d.AvgDegree, d.Clustering, d.Components, d.Isolated)
		if err := mesh.ValidateTopology(); err != nil {
			printf(out, "problems:\n%v\n", err)
		}
		return nil
	}
	return printJSON(out, mesh.NetworkState())
}
