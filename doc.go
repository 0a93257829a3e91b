// Package vecroute 提供向量评分的网格路由核心
//
// 每个节点在 D 维语义空间中有一个位置，并属于一个角色 section。
// 请求被嵌入为目标向量后，从起点逐跳转发，每一跳按角色评分或几何评分
// 在邻居中选出下一跳；失效、过载或低信任的节点会被自动绕开。
//
// # 快速开始
//
//	mesh, err := vecroute.New(vecroute.WithPreset(vecroute.PresetSimulation))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mesh.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer mesh.Stop(ctx)
//
//	ids, _ := mesh.Seed(vecroute.DefaultSeedOptions())
//	resp, err := mesh.Query(ctx, ids[0], types.Request{Text: "verify login token"})
//
// # 组件
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  Mesh 门面                                                    │
//	├──────────────────────────────────────────────────────────────┤
//	│  routing  (状态机 / 面路由 / 负载均衡 / 路由记忆 / 对照路径)   │
//	├──────────────┬──────────────┬──────────────┬─────────────────┤
//	│  scoring     │  classifier  │  trust       │  health          │
//	├──────────────┴──────────────┴──────────────┴─────────────────┤
//	│  registry (节点 / 邻接 / 自愈)   transport (HTTP / 模拟)       │
//	├──────────────────────────────────────────────────────────────┤
//	│  vecspace   snapshot   metrics   config                      │
//	└──────────────────────────────────────────────────────────────┘
//
// # 文件组织
//
//   - vecroute.go: 版本信息
//   - mesh.go: Mesh 结构与构造
//   - mesh_api.go: 路由与节点操作
//   - options.go: 函数式选项
//   - presets.go: 预设
//   - fx.go: Fx 模块装配
//   - errors.go: 公共错误
package vecroute
