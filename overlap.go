package lasmerge

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/wgdzlh/lasmerge/log"
	"github.com/wgdzlh/lasmerge/utils"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// 扫描点云归档，找出文件头范围与边界相交的瓦片。
// 每个子图幅都重新遍历整个归档，不维护持久索引。
type OverlapFinder struct {
	root   string
	reader HeaderReader
	logTag string
}

func NewOverlapFinder(root string, reader HeaderReader) *OverlapFinder {
	return &OverlapFinder{
		root:   root,
		reader: reader,
		logTag: "OverlapFinder:",
	}
}

// 相交按闭区间判断（边界接触也算相交）；同名文件只取第一次出现的；
// 单个文件头读取失败只记录警告并继续扫描
func (f *OverlapFinder) FindOverlaps(ctx context.Context, bound orb.Bound) (set *OverlapSet, err error) {
	set = NewOverlapSet()
	var scanned, failed int
	err = filepath.WalkDir(f.root, func(p string, d fs.DirEntry, e error) error {
		if e != nil {
			if p == f.root {
				return e
			}
			log.Warn(f.logTag+"walk error", zap.String("path", p), zap.Error(e))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return ctx.Err()
		}
		name := d.Name()
		if !utils.HasAnySuffixFold(name, PointCloudExt...) || set.Has(name) {
			return nil
		}
		scanned++
		tb, e := f.reader.ReadBound(p)
		if e != nil {
			failed++
			log.Warn(f.logTag+"failed to read header", zap.String("path", p), zap.Error(e))
			return nil
		}
		if tb.Intersects(bound) {
			set.Add(TileRecord{Name: name, Path: p, Bound: tb})
		}
		return nil
	})
	if err != nil {
		log.Error(f.logTag+"scan aborted", zap.String("root", f.root), zap.Error(err))
		return
	}
	log.Info(f.logTag+"scan done", zap.String("root", f.root), zap.Int("scanned", scanned),
		zap.Int("failed", failed), zap.Int("overlaps", set.Len()))
	return
}
