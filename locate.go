package lasmerge

import (
	"io/fs"
	"path/filepath"

	"github.com/wgdzlh/lasmerge/log"
	"github.com/wgdzlh/lasmerge/utils"

	"go.uber.org/zap"
)

// 在边界归档中查找子图幅对应的矢量文件。
// 文件名前len(subgrid)个字符与subgrid相同，或下划线/连字符归一后相同即匹配；
// 按WalkDir的字典序遍历，返回第一个匹配。
func LocateBoundary(subgrid, root string) (path string, ok bool) {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("LocateBoundary:walk error", zap.String("path", p), zap.Error(err))
			if p == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !utils.HasAnySuffixFold(name, BoundaryExts...) {
			return nil
		}
		if utils.MatchPrefix(name, subgrid) {
			path, ok = p, true
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		log.Warn("LocateBoundary:search aborted", zap.String("root", root), zap.Error(err))
	}
	return
}
