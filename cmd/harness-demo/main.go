package main

import (
	"context"
	"fmt"

	harness "github.com/ethereum-optimism/infra/op-harness"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

func main() {
	harness.Main("harness-demo",
		harness.Group{Name: "math", Cases: []types.TestCase{
			{Description: "adds small integers", Speed: types.SpeedQuick, Fn: testAdd},
			{Description: "knows its arithmetic", Speed: types.SpeedQuick, Fn: testBroken},
			{Description: "multiplies large matrices", Speed: types.SpeedSlow, Fn: testSlowMul},
		}},
		harness.Group{Name: "strings", Cases: []types.TestCase{
			{Description: "concatenates", Speed: types.SpeedQuick, Fn: testConcat},
			{Description: "normalizes unicode", Speed: types.SpeedQuick, Fn: testTodo},
		}},
	)
}

func testAdd(ctx context.Context) error {
	fmt.Println("computing 1+1")
	return types.Checkf(1+1 == 2, "1+1 != 2")
}

func testBroken(ctx context.Context) error {
	return types.Checkf(1+1 == 3, "1+1 != 3")
}

func testSlowMul(ctx context.Context) error {
	total := 0
	for i := 0; i < 1_000_000; i++ {
		total += i
	}
	return types.Checkf(total > 0, "sum overflowed to %d", total)
}

func testConcat(ctx context.Context) error {
	return types.Checkf("a"+"b" == "ab", "concat broke")
}

func testTodo(ctx context.Context) error {
	return types.Todof("unicode normalization is not implemented yet")
}
