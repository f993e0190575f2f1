// Package fonts 提供随程序分发的内置字体（Go 字体家族），供排版与渲染在没有外部字体文件时使用。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体的 src 写法。
const (
	Regular    = "go:regular"
	Bold       = "go:bold"
	Italic     = "go:italic"
	BoldItalic = "go:bold-italic"
	Mono       = "go:mono"
	Medium     = "go:medium"
)

const prefix = "go:"

var builtin = map[string][]byte{
	"regular":     goregular.TTF,
	"bold":        gobold.TTF,
	"italic":      goitalic.TTF,
	"bold-italic": gobolditalic.TTF,
	"mono":        gomono.TTF,
	"medium":      gomedium.TTF,
}

// IsBuiltin 报告 src 是否指向内置字体（go: 前缀）。
func IsBuiltin(src string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(src)), prefix)
}

// Load 返回内置字体的字节数据，name 形如 "go:bold"，前缀可省略，大小写不敏感。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), prefix)
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %s（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 列出所有内置字体的 src 写法，按字母排序。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for k := range builtin {
		out = append(out, prefix+k)
	}
	sort.Strings(out)
	return out
}
