package utils

import (
	"strings"

	"golang.org/x/text/cases"
)

func ReplaceUnderline(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// Unicode大小写折叠（cases.Caser有状态，不能跨goroutine共享，故每次新建）
func FoldCase(s string) string {
	return cases.Fold().String(s)
}

func HasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(FoldCase(s), FoldCase(suffix))
}

func HasAnySuffixFold(s string, suffixes ...string) bool {
	fs := FoldCase(s)
	for _, suffix := range suffixes {
		if strings.HasSuffix(fs, FoldCase(suffix)) {
			return true
		}
	}
	return false
}

// 文件名归一化：折叠大小写，空格替换为下划线
func NormalizeFilename(s string) string {
	return strings.ReplaceAll(FoldCase(s), " ", "_")
}

// 前缀比较：按s的长度截取name的前缀，完全相同或下划线/连字符归一后相同
func MatchPrefix(name, s string) bool {
	if len(name) < len(s) {
		return false
	}
	prefix := name[:len(s)]
	return prefix == s || ReplaceUnderline(prefix) == ReplaceUnderline(s)
}
