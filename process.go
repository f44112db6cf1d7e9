package lasmerge

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/wgdzlh/lasmerge/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 将边界文件解析为目标坐标系下的外包矩形
type BoundaryResolver interface {
	ResolveBoundary(path string, tSrid int) (Boundary, error)
}

// 逐个子图幅执行：定位边界 -> 解析外包 -> 扫描相交瓦片 -> 并行裁剪 -> 合并 -> 清理
type Processor struct {
	opts     *Options
	ws       *Workspace
	resolver BoundaryResolver
	finder   *OverlapFinder
	cropper  *CropOrchestrator
	merger   *Merger
	console  *Console
	logTag   string
}

func NewProcessor(opts *Options, resolver BoundaryResolver, reader HeaderReader, exec Executor, console *Console) *Processor {
	ws := NewWorkspace(opts.WorkDir, opts.ProtectedRoots...)
	return &Processor{
		opts:     opts,
		ws:       ws,
		resolver: resolver,
		finder:   NewOverlapFinder(opts.ArchiveRoot, reader),
		cropper:  NewCropOrchestrator(exec, ws, opts.Workers, opts.TargetSrid),
		merger:   NewMerger(exec, ws, opts.TargetSrid),
		console:  console,
		logTag:   "Processor:",
	}
}

// 处理单个子图幅。失败只记入elog，返回的err仅为写保护违规（应终止整个批处理）
func (p *Processor) ProcessSubgrid(ctx context.Context, subgrid string, elog *ErrorLog) (rep SubgridReport, err error) {
	start := time.Now()
	rep.Subgrid = subgrid
	defer func() {
		rep.Elapsed = time.Since(start)
		log.Info(p.logTag+"subgrid finished", zap.String("subgrid", subgrid), zap.String("status", string(rep.Status)),
			zap.Int("overlaps", rep.Overlaps), zap.Int("cropped", rep.Cropped), zap.Int("failed", rep.Failed),
			zap.Duration("elapsed", rep.Elapsed))
	}()
	p.console.Noticef("▶ Processing Las Data Merge")

	if rep.Dir, err = p.ws.Ensure(subgrid); err != nil {
		return
	}
	if IsAlreadyDone(rep.Dir) {
		rep.Status = StatusAlreadyDone
		p.console.Infof("Skipping %s: final LAS already exists", subgrid)
		return
	}
	final, err := p.ws.GuardPath(FinalPath(rep.Dir, subgrid))
	if err != nil {
		return
	}

	src, ok := LocateBoundary(subgrid, p.opts.BoundaryRoot)
	if !ok {
		rep.Status = StatusNoBoundary
		log.Info(p.logTag+"boundary not found", zap.String("subgrid", subgrid), zap.String("root", p.opts.BoundaryRoot))
		p.console.Infof("GeoJSON for %s not found. Skipping.", subgrid)
		return
	}
	local, e := p.ws.StageBoundary(src, rep.Dir)
	if e != nil {
		return p.fail(rep, elog, e, ErrBoundaryTemplate, subgrid, e)
	}
	boundary, e := p.resolver.ResolveBoundary(local, p.opts.TargetSrid)
	if e != nil {
		return p.fail(rep, elog, e, ErrBoundaryTemplate, subgrid, e)
	}

	set, e := p.finder.FindOverlaps(ctx, boundary.Bound)
	if e != nil {
		return p.fail(rep, elog, e, ErrScanTemplate, subgrid, e)
	}
	rep.Overlaps = set.Len()
	if rep.Overlaps == 0 {
		rep.Status = StatusNoOverlap
		p.console.Infof("No overlapping LAS files found for %s. Skipping.", subgrid)
		return
	}

	staged := make([]string, 0, rep.Overlaps)
	for _, tile := range set.Tiles() {
		if IsPlaceholder(tile.Name) {
			rep.Skipped++
			p.console.Noticef("Skipping %s (Convert placeholder file)", tile.Name)
			continue
		}
		dst, e := p.ws.Stage(tile.Path, rep.Dir)
		if e != nil {
			if errors.Is(e, ErrPolicyViolation) {
				err = e
				return
			}
			elog.Appendf(ErrStageTemplate, subgrid, tile.Name, e)
			continue
		}
		staged = append(staged, dst)
	}
	rep.Staged = len(staged)

	results, err := p.cropper.CropAll(ctx, subgrid, staged, boundary, rep.Dir, elog)
	if err != nil {
		return
	}
	cropped := CroppedPaths(results)
	rep.Cropped = len(cropped)
	rep.Failed = len(results) - rep.Cropped

	merged, err := p.merger.Merge(ctx, subgrid, cropped, final, elog)
	if err != nil {
		return
	}
	if _, err = p.ws.Cleanup(rep.Dir, final); err != nil {
		return
	}
	switch {
	case merged:
		rep.Status = StatusMerged
		rep.Output = final
		p.console.Noticef("Final LAS file created: %s", final)
	case len(cropped) == 0:
		rep.Status = StatusNoCrops
	default:
		rep.Status = StatusMergeFailed
	}
	return
}

func (p *Processor) fail(rep SubgridReport, elog *ErrorLog, cause error, format string, args ...any) (SubgridReport, error) {
	if errors.Is(cause, ErrPolicyViolation) {
		return rep, cause
	}
	rep.Status = StatusFailed
	log.Error(p.logTag+"subgrid failed", zap.String("subgrid", rep.Subgrid), zap.Error(cause))
	elog.Appendf(format, args...)
	return rep, nil
}

// 按顺序处理全部子图幅，子图幅之间完全串行
func (p *Processor) ProcessAll(ctx context.Context, subgrids []string) (rep BatchReport, err error) {
	rep.RunId = uuid.NewString()
	elog := &ErrorLog{}
	defer func() {
		rep.Errors = elog.Entries()
	}()
	log.Info(p.logTag+"batch start", zap.String("run", rep.RunId), zap.Int("subgrids", len(subgrids)),
		zap.String("workDir", p.opts.WorkDir), zap.String("archive", filepath.Clean(p.opts.ArchiveRoot)))
	var sr SubgridReport
	for i, subgrid := range subgrids {
		if err = ctx.Err(); err != nil {
			return
		}
		p.console.Progress(i, len(subgrids), subgrid)
		if sr, err = p.ProcessSubgrid(ctx, subgrid, elog); err != nil {
			log.Error(p.logTag+"batch aborted", zap.String("run", rep.RunId), zap.String("subgrid", subgrid), zap.Error(err))
			return
		}
		rep.Subgrids = append(rep.Subgrids, sr)
	}
	p.console.Progress(len(subgrids), len(subgrids), "done")
	log.Info(p.logTag+"batch done", zap.String("run", rep.RunId), zap.Int("errors", elog.Len()))
	return
}
