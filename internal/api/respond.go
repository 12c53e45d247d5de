package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/logger"
)

// errorResult：统一错误响应
type errorResult struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// locateResult：点查询命中的区划
type locateResult struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	MedianAge float64 `json:"median_age"`
	InRange   bool    `json:"in_range"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, errorResult{Error: kind, Message: msg})
}

// writeUnavailable：数据集不可用时按失败分类返回 503
func writeUnavailable(w http.ResponseWriter, err error) {
	kind := dataset.KindOf(err)
	name := string(kind)
	if name == "" {
		name = "unavailable"
	}
	logger.L().Debug("dataset_unavailable", "kind", name, "err", err)
	writeError(w, http.StatusServiceUnavailable, name, dataset.Message(kind))
}

var errMissingBound = errors.New("low and high are required")

// parseRangeBody：支持 JSON 与表单两种提交方式
func parseRangeBody(r *http.Request) (filter.Range, error) {
	if strings.HasPrefix(r.Header.Get("content-type"), "application/json") {
		var body struct {
			Low  *float64 `json:"low"`
			High *float64 `json:"high"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err != nil {
			return filter.Range{}, fmt.Errorf("decode body: %w", err)
		}
		if body.Low == nil || body.High == nil {
			return filter.Range{}, errMissingBound
		}
		return filter.Range{Low: *body.Low, High: *body.High}, nil
	}
	if err := r.ParseForm(); err != nil {
		return filter.Range{}, err
	}
	return parseBounds(r.PostFormValue("low"), r.PostFormValue("high"))
}

func parseBounds(lo, hi string) (filter.Range, error) {
	if lo == "" || hi == "" {
		return filter.Range{}, errMissingBound
	}
	l, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return filter.Range{}, fmt.Errorf("low: %w", err)
	}
	h, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return filter.Range{}, fmt.Errorf("high: %w", err)
	}
	return filter.Range{Low: l, High: h}, nil
}

func parseLatLon(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, errors.New("lat must be a number in [-90, 90]")
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, errors.New("lon must be a number in [-180, 180]")
	}
	return lat, lon, nil
}
