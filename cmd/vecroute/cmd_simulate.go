package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-vecroute"
	"github.com/dep2p/go-vecroute/pkg/types"
)

var (
	simRequests    int
	simConcurrency int
	simKill        int
	simKillRole    string

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Seed a simulated mesh and route a batch of requests concurrently",
		RunE:  runSimulate,
	}
)

func init() {
	f := simulateCmd.Flags()
	f.IntVarP(&simRequests, "requests", "n", 100, "请求数量")
	f.IntVar(&simConcurrency, "concurrency", 8, "并发请求数")
	f.IntVar(&simKill, "kill", 0, "路由前随机判定失效的节点数")
	f.StringVar(&simKillRole, "kill-role", "", "路由前判定整个角色 section 失效")
}

// sampleTexts 每个角色一条示例请求
var sampleTexts = map[types.Role]string{
	types.RoleAuth:     "verify login token",
	types.RoleDatabase: "run sql query on user data",
	types.RoleCompute:  "calculate monthly report",
	types.RoleVision:   "detect faces in camera image",
	types.RoleStorage:  "upload file to blob storage",
	types.RoleProxy:    "forward request through gateway",
}

// simSummary 模拟结果汇总
type simSummary struct {
	Requests        int                  `json:"requests"`
	Success         int                  `json:"success"`
	SectionFailures int                  `json:"section_failures"`
	Stuck           int                  `json:"stuck"`
	AvgHops         float64              `json:"avg_hops"`
	TradSuccess     int                  `json:"trad_success"`
	Killed          []types.NodeID       `json:"killed,omitempty"`
	Diagnostics     vecroute.Diagnostics `json:"diagnostics"`
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	mesh, err := newSeededMesh(nil)
	if err != nil {
		return err
	}
	if err := mesh.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = mesh.Stop(context.Background()) }()

	rng := rand.New(rand.NewSource(seed))
	killed, err := applyKills(mesh, rng)
	if err != nil {
		return err
	}

	state := mesh.NetworkState()
	origins := make([]types.NodeID, 0, len(state.Nodes))
	for _, n := range state.Nodes {
		if n.Alive {
			origins = append(origins, n.ID)
		}
	}
	if len(origins) == 0 {
		return fmt.Errorf("no alive node to route from")
	}
	roles := types.AllRoles()

	type job struct {
		origin types.NodeID
		text   string
	}
	jobs := make([]job, simRequests)
	for i := range jobs {
		jobs[i] = job{
			origin: origins[rng.Intn(len(origins))],
			text:   sampleTexts[roles[rng.Intn(len(roles))]],
		}
	}

	var (
		mu      sync.Mutex
		summary = simSummary{Requests: simRequests, Killed: killed}
		hops    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(simConcurrency)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			resp, err := mesh.Query(gctx, j.origin, types.Request{Text: j.text})
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case resp.Adaptive.Success:
				summary.Success++
				hops += resp.Adaptive.TotalHops
			case resp.SectionFailure:
				summary.SectionFailures++
			default:
				summary.Stuck++
			}
			if resp.Trad.Success {
				summary.TradSuccess++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if summary.Success > 0 {
		summary.AvgHops = float64(hops) / float64(summary.Success)
	}
	summary.Diagnostics = mesh.Diagnostics()

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, summary)
	}
	printf(out, "nodes=%d edges=%d killed=%d\n",
		summary.Diagnostics.Nodes, summary.Diagnostics.Edges, len(killed))
	printf(out, "requests=%d success=%d section_failures=%d stuck=%d\n",
		summary.Requests, summary.Success, summary.SectionFailures, summary.Stuck)
	printf(out, "avg_hops=%.2f trad_success=%d\n", summary.AvgHops, summary.TradSuccess)
	return nil
}

// applyKills 按 --kill / --kill-role 判定节点失效
func applyKills(mesh *vecroute.Mesh, rng *rand.Rand) ([]types.NodeID, error) {
	var killed []types.NodeID
	if simKillRole != "" {
		role, err := types.ParseRole(simKillRole)
		if err != nil {
			return nil, err
		}
		for _, n := range mesh.NetworkState().Nodes {
			if n.Role == role {
				if err := mesh.Kill(n.ID); err != nil {
					return nil, err
				}
				killed = append(killed, n.ID)
			}
		}
	}

	nodes := mesh.NetworkState().Nodes
	random := 0
	for _, i := range rng.Perm(len(nodes)) {
		if random >= simKill {
			break
		}
		if !nodes[i].Alive {
			continue
		}
		if err := mesh.Kill(nodes[i].ID); err != nil {
			return nil, err
		}
		killed = append(killed, nodes[i].ID)
		random++
	}
	if len(killed) > 0 {
		log.Info("模拟节点失效", "count", len(killed))
	}
	return killed, nil
}
