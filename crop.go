package lasmerge

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/wgdzlh/lasmerge/log"
	"github.com/wgdzlh/lasmerge/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 未转换的占位LAS文件，永不处理
func IsPlaceholder(name string) bool {
	return strings.Contains(utils.NormalizeFilename(filepath.Base(name)), CONVERT_SENTINEL)
}

func CropPath(dir, input string) string {
	return filepath.Join(dir, CROP_PREFIX+filepath.Base(input))
}

// 以固定并发度对每个本地瓦片执行裁剪
type CropOrchestrator struct {
	exec    Executor
	ws      *Workspace
	workers int
	srid    int
	logTag  string
}

func NewCropOrchestrator(exec Executor, ws *Workspace, workers, srid int) *CropOrchestrator {
	if workers < 1 {
		workers = DEFAULT_WORKERS
	}
	return &CropOrchestrator{
		exec:    exec,
		ws:      ws,
		workers: workers,
		srid:    srid,
		logTag:  "CropOrchestrator:",
	}
}

// 所有裁剪提交后等待全部结束再返回。单个瓦片失败写入错误日志，不影响其他瓦片；
// 返回结果按提交顺序排列。只有写保护违规会作为err返回，此时不会派发任何裁剪。
func (c *CropOrchestrator) CropAll(ctx context.Context, subgrid string, inputs []string, b Boundary, outDir string, elog *ErrorLog) (results []CropResult, err error) {
	var (
		outputs = make([]string, 0, len(inputs))
		kept    = make([]string, 0, len(inputs))
		out     string
	)
	for _, in := range inputs {
		if IsPlaceholder(in) {
			log.Info(c.logTag+"skip placeholder", zap.String("subgrid", subgrid), zap.String("file", in))
			continue
		}
		if out, err = c.ws.GuardPath(CropPath(outDir, in)); err != nil {
			return
		}
		kept = append(kept, in)
		outputs = append(outputs, out)
	}
	results = make([]CropResult, len(kept))
	if len(kept) == 0 {
		return
	}
	log.Info(c.logTag+"start crop", zap.String("subgrid", subgrid), zap.Int("tiles", len(kept)), zap.Int("workers", c.workers))
	start := time.Now()

	var eg errgroup.Group
	eg.SetLimit(c.workers)
	for i := range kept {
		eg.Go(func() error {
			results[i] = c.cropOne(ctx, subgrid, kept[i], outputs[i], b, elog)
			return nil
		})
	}
	_ = eg.Wait()

	log.Info(c.logTag+"crop done", zap.String("subgrid", subgrid), zap.Int("cropped", len(CroppedPaths(results))),
		zap.Int("tiles", len(kept)), zap.Duration("elapsed", time.Since(start)))
	return
}

func (c *CropOrchestrator) cropOne(ctx context.Context, subgrid, in, out string, b Boundary, elog *ErrorLog) (ret CropResult) {
	ret.Input = in
	p, err := CropPipeline(in, b.Wkt, c.srid, out)
	if err == nil {
		err = c.exec.Execute(ctx, p)
	}
	if err != nil {
		ret.Err = err
		log.Error(c.logTag+"crop failed", zap.String("subgrid", subgrid), zap.String("file", in), zap.Error(err))
		elog.Appendf(ErrCropTemplate, subgrid, filepath.Base(in), err)
		return
	}
	ret.Output = out
	return
}

// 成功裁剪的输出路径
func CroppedPaths(results []CropResult) (paths []string) {
	for _, r := range results {
		if r.Err == nil && r.Output != "" {
			paths = append(paths, r.Output)
		}
	}
	return
}
