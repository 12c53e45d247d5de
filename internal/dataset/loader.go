package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"geo-legend/internal/logger"
	"geo-legend/internal/metrics"
)

// Source：可产出数据集的加载源
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Loader：本地 CSV + 远端边界 的加载流程
type Loader struct {
	CSVPath string
	Columns Columns
	Prefix  string
	Fetcher Fetcher
}

// Load：先检查本地文件，缺失时不触发远端拉取；所有失败均返回 *LoadError
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	metrics.LoadsTotal.Inc()
	ds, err := l.load(ctx)
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			le = newLoadError(KindOf(err), err)
		}
		metrics.LoadFailuresTotal.WithLabelValues(string(le.Kind)).Inc()
		logger.L().Error("dataset_load_error", "kind", le.Kind, "err", le.Err)
		return nil, le
	}
	logger.L().Info("dataset_ready", "regions", ds.Len(), "min", ds.Min, "max", ds.Max)
	return ds, nil
}

func (l *Loader) load(ctx context.Context) (*Dataset, error) {
	if _, err := os.Stat(l.CSVPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newLoadError(KindLocalMissing, fmt.Errorf("stat %s: %w", l.CSVPath, err))
		}
		return nil, newLoadError(KindLocalParse, err)
	}
	obs, err := LoadObservations(l.CSVPath, l.Columns)
	if err != nil {
		return nil, newLoadError(KindOf(err), err)
	}
	logger.L().Debug("csv_loaded", "path", l.CSVPath, "rows", len(obs))
	if l.Fetcher == nil {
		return nil, newLoadError(KindBoundaryFetch, errors.New("no boundary fetcher configured"))
	}
	raw, err := l.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, newLoadError(KindBoundaryFetch, err)
	}
	bounds, err := ParseBoundaries(raw, l.Prefix)
	if err != nil {
		return nil, newLoadError(KindBoundaryParse, err)
	}
	logger.L().Debug("boundaries_parsed", "prefix", l.Prefix, "features", len(bounds))
	regions := Join(obs, bounds)
	if len(regions) == 0 {
		return nil, newLoadError(KindEmptyJoin, fmt.Errorf("%d observations, %d boundaries", len(obs), len(bounds)))
	}
	return NewDataset(regions), nil
}

// Cache：数据集的显式单例缓存，启动时构造并传给渲染层
// 约束：首次 Get 执行一次加载，结果（含失败）保留到 Reload 为止；并发首次调用共享同一次加载
type Cache struct {
	src Source

	mu   sync.Mutex
	done bool
	ds   *Dataset
	err  error
}

func NewCache(src Source) *Cache { return &Cache{src: src} }

// NewStaticCache：以现成数据集构造缓存（CLI 与测试夹具）
func NewStaticCache(ds *Dataset) *Cache { return &Cache{done: true, ds: ds} }

func (c *Cache) Get(ctx context.Context) (*Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done {
		c.ds, c.err = c.src.Load(ctx)
		c.done = true
	}
	return c.ds, c.err
}

// Reload：丢弃已缓存结果并重新加载
func (c *Cache) Reload(ctx context.Context) (*Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.src == nil {
		return c.ds, c.err
	}
	c.ds, c.err = c.src.Load(ctx)
	c.done = true
	return c.ds, c.err
}
