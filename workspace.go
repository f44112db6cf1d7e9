package lasmerge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wgdzlh/lasmerge/log"
	"github.com/wgdzlh/lasmerge/utils"

	"go.uber.org/zap"
)

// 子图幅工作目录管理；所有写操作前都要经过GuardPath
type Workspace struct {
	root      string
	protected []string
	logTag    string
}

func NewWorkspace(root string, protected ...string) *Workspace {
	return &Workspace{
		root:      root,
		protected: protected,
		logTag:    "Workspace:",
	}
}

// 拒绝任何落在只读归档根目录（盘符或目录）下的写入路径
func (w *Workspace) GuardPath(path string) (string, error) {
	for _, p := range w.protected {
		if isUnder(path, p) {
			log.Error(w.logTag+"refuse to write protected path", zap.String("path", path), zap.String("protected", p))
			return "", fmt.Errorf("%w: %s", ErrPolicyViolation, path)
		}
	}
	return path, nil
}

func isUnder(path, root string) bool {
	if root == "" {
		return false
	}
	// 盘符形式，如 "Z:"
	if strings.HasSuffix(root, ":") && !strings.ContainsAny(root, `/\`) {
		return len(path) >= len(root) && strings.EqualFold(path[:len(root)], root)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if path == root {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}

// 创建（或复用）子图幅工作目录
func (w *Workspace) Ensure(subgrid string) (dir string, err error) {
	if dir, err = w.GuardPath(filepath.Join(w.root, subgrid)); err != nil {
		return
	}
	if dir, err = utils.GetSubDir(w.root, subgrid); err != nil {
		log.Error(w.logTag+"create subgrid dir failed", zap.String("dir", dir), zap.Error(err))
	}
	return
}

func FinalPath(dir, subgrid string) string {
	return filepath.Join(dir, subgrid+FINAL_SUFFIX)
}

// 目录中已有最终合并文件即视为该子图幅已完成
func IsAlreadyDone(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && utils.HasSuffixFold(e.Name(), FINAL_SUFFIX) {
			return true
		}
	}
	return false
}

// 将归档文件拷贝到工作目录，本地已存在时跳过
func (w *Workspace) Stage(src, dir string) (dst string, err error) {
	if dst, err = w.GuardPath(filepath.Join(dir, filepath.Base(src))); err != nil {
		return
	}
	copied, err := utils.CopyFileOnce(src, dst)
	if err != nil {
		log.Error(w.logTag+"stage file failed", zap.String("src", src), zap.String("dst", dst), zap.Error(err))
		return
	}
	log.Debug(w.logTag+"staged file", zap.String("dst", dst), zap.Bool("copied", copied))
	return
}

// 拷贝边界文件；shp连同同名的shx/dbf/prj/cpg一并拷贝
func (w *Workspace) StageBoundary(src, dir string) (dst string, err error) {
	if dst, err = w.Stage(src, dir); err != nil {
		return
	}
	if !utils.HasSuffixFold(src, FILE_EXT_SHP) {
		return
	}
	for _, side := range utils.GetSiblingFiles(src, ShpSidecarExt...) {
		if _, err = w.Stage(side, dir); err != nil {
			return
		}
	}
	return
}

func isRetained(name, final string) bool {
	return name == final ||
		utils.HasAnySuffixFold(name, BoundaryExts...) ||
		utils.HasAnySuffixFold(name, ShpSidecarExt...)
}

// 合并后清理中间文件，只保留final（最终文件路径）和边界文件；删除失败忽略
func (w *Workspace) Cleanup(dir, final string) (removed int, err error) {
	final = filepath.Base(final)
	entries, e := os.ReadDir(dir)
	if e != nil {
		log.Warn(w.logTag+"read dir for cleanup failed", zap.String("dir", dir), zap.Error(e))
		return
	}
	var path string
	for _, ent := range entries {
		if ent.IsDir() || isRetained(ent.Name(), final) {
			continue
		}
		if path, err = w.GuardPath(filepath.Join(dir, ent.Name())); err != nil {
			return
		}
		if e = os.Remove(path); e != nil {
			continue
		}
		removed++
	}
	log.Info(w.logTag+"cleanup done", zap.String("dir", dir), zap.Int("removed", removed))
	return
}
