// 包 filter：会话级闭区间筛选状态
package filter

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"geo-legend/internal/dataset"
)

var ErrInvalidRange = errors.New("invalid filter range")

// Range：闭区间 [Low, High]
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Full：数据集的全局范围
func Full(ds *dataset.Dataset) Range { return Range{Low: ds.Min, High: ds.Max} }

func (r Range) Contains(v float64) bool { return v >= r.Low && v <= r.High }

// Validate：仅校验有限性与 Low<=High，不校验是否落在数据范围内
func (r Range) Validate() error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidRange)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %.2f > high %.2f", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

// Apply：返回取值落在闭区间内的区划，保持输入顺序
func Apply(regions []dataset.Region, r Range) []dataset.Region {
	out := make([]dataset.Region, 0, len(regions))
	for _, rg := range regions {
		if r.Contains(rg.Value) {
			out = append(out, rg)
		}
	}
	return out
}

// State：单个会话持有的当前范围
type State struct {
	mu  sync.Mutex
	rng Range
	set bool
}

// Initialize：未设置时置为 full，已设置时保持不变
func (s *State) Initialize(full Range) Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		s.rng = full
		s.set = true
	}
	return s.rng
}

// Update：替换当前范围；无效范围返回 ErrInvalidRange 且不修改状态
// 约束：不截断到数据范围，数据边界由页面滑块的 min/max 限定
func (s *State) Update(r Range) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.rng = r
	s.set = true
	s.mu.Unlock()
	return nil
}

// Reset：恢复为 full
func (s *State) Reset(full Range) Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = full
	s.set = true
	return s.rng
}

// Current：返回当前范围及是否已初始化
func (s *State) Current() (Range, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng, s.set
}
