package binding

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path} 替换为 JSON 数据中对应的值。
// 路径使用 gjson 语法（user.name、items.0.title）；数据为空、JSON 非法或路径不存在时保留原占位符。
func Interpolate(text string, data []byte) string {
	if len(data) == 0 || !gjson.ValidBytes(data) {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if val, ok := Lookup(data, groups[1]); ok {
			return val
		}
		return match
	})
}

// Lookup 返回 path 对应值的字符串形式。
func Lookup(data []byte, path string) (string, bool) {
	path = normalizePath(path)
	if path == "" {
		return "", false
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// normalizePath 兼容 items[0].name 这种下标写法。
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.ContainsRune(path, '[') {
		return path
	}
	r := strings.NewReplacer("[", ".", "]", "")
	return strings.TrimPrefix(r.Replace(path), ".")
}
