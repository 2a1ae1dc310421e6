package util

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateNumericID 生成指定位数的随机数字 ID（默认 4 位请传 4）。
// 不保证唯一性：调用方需要容忍极小概率的碰撞，这是有意的设计简化。
// 始终只输出数字字符，保证导出时能无损解析回整数。
func GenerateNumericID(length int) string {
	if length < 1 {
		length = 4
	}
	min := intPow(10, length-1)
	max := intPow(10, length) - 1
	return fmt.Sprintf("%d", min+rand.Intn(max-min+1))
}

// GenerateTimestampID 基于时间戳的 ID，导入时为会话分配新的考试 ID 用
func GenerateTimestampID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixMilli())
}

func intPow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
