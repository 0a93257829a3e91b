// Package mocks 提供 pkg/interfaces 的 gomock 实现，供各包测试使用
package mocks
