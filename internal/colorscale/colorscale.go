// 包 colorscale：以数据集全局最小/最大值为锚点的双色渐变
package colorscale

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultLow  = "#9b87db"
	DefaultHigh = "#fec84d"
)

// Scale：颜色只取决于取值与全局范围，与当前筛选范围无关
type Scale struct {
	Min  float64
	Max  float64
	low  colorful.Color
	high colorful.Color
}

func New(min, max float64, lowHex, highHex string) (Scale, error) {
	if min > max {
		return Scale{}, fmt.Errorf("scale min %.2f > max %.2f", min, max)
	}
	lo, err := colorful.Hex(lowHex)
	if err != nil {
		return Scale{}, fmt.Errorf("low color %q: %w", lowHex, err)
	}
	hi, err := colorful.Hex(highHex)
	if err != nil {
		return Scale{}, fmt.Errorf("high color %q: %w", highHex, err)
	}
	return Scale{Min: min, Max: max, low: lo, high: hi}, nil
}

// Position：取值在全局范围中的相对位置，截断到 [0,1]；Min==Max 时为 0
func (s Scale) Position(v float64) float64 {
	span := s.Max - s.Min
	if span <= 0 || math.IsNaN(v) {
		return 0
	}
	t := (v - s.Min) / span
	return math.Max(0, math.Min(1, t))
}

func (s Scale) Color(v float64) colorful.Color {
	return s.low.BlendRgb(s.high, s.Position(v)).Clamped()
}

func (s Scale) Hex(v float64) string { return s.Color(v).Hex() }

func (s Scale) LowHex() string  { return s.low.Hex() }
func (s Scale) HighHex() string { return s.high.Hex() }

// Ticks：全局范围上的五个等分刻度 min, 25%, 50%, 75%, max
func (s Scale) Ticks() [5]float64 {
	span := s.Max - s.Min
	return [5]float64{s.Min, s.Min + span*0.25, s.Min + span*0.5, s.Min + span*0.75, s.Max}
}

// CSSGradient：图例色条使用的 CSS 渐变
func (s Scale) CSSGradient() string {
	return fmt.Sprintf("linear-gradient(90deg, %s 0%%, %s 100%%)", s.LowHex(), s.HighHex())
}
