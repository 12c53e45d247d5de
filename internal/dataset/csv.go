package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"geo-legend/internal/logger"
)

// Columns：CSV 列名映射；Name 为空或缺列时由边界名称补齐
type Columns struct {
	Key   string
	Value string
	Name  string
}

func DefaultColumns() Columns {
	return Columns{Key: "Entity DCID", Value: "Variable observation value", Name: "Entity properties name"}
}

// ReadObservations：按表头定位列并读取观测
// 约束：缺少 Key/Value 列返回 ErrLocalParse；无法派生键或取值非有限数的行被跳过
func ReadObservations(r io.Reader, cols Columns) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrLocalParse, err)
	}
	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[h] = i
	}
	ki, ok := idx[cols.Key]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrLocalParse, cols.Key)
	}
	vi, ok := idx[cols.Value]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrLocalParse, cols.Value)
	}
	ni := -1
	if cols.Name != "" {
		if i, ok := idx[cols.Name]; ok {
			ni = i
		}
	}
	var out []Observation
	skipped := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrLocalParse, line, err)
		}
		if ki >= len(rec) || vi >= len(rec) {
			skipped++
			continue
		}
		key, ok := DeriveJoinKey(rec[ki])
		if !ok {
			skipped++
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[vi]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			skipped++
			continue
		}
		o := Observation{Key: key, Value: v}
		if ni >= 0 && ni < len(rec) {
			o.Name = strings.TrimSpace(rec[ni])
		}
		out = append(out, o)
	}
	if skipped > 0 {
		logger.L().Debug("csv_rows_skipped", "count", skipped)
	}
	return out, nil
}

// LoadObservations：打开本地文件读取；文件不存在时返回 ErrLocalMissing
func LoadObservations(path string, cols Columns) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLocalMissing, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrLocalParse, err)
	}
	defer f.Close()
	return ReadObservations(f, cols)
}
