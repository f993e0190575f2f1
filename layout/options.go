package layout

import (
	"go.uber.org/zap"

	"github.com/ByLCY/cannedtext/canning"
)

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与罐装参数。
type BuildOptions struct {
	Typesetter Typesetter
	// Canning 为所有文本框提供默认的罐装参数；box 上的 nowrap 属性会覆盖 Nowrap。
	Canning canning.Options
	Logger  *zap.Logger
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// fontSize/lineHeight/width 均为 mm；width<=0 表示不限宽。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}
