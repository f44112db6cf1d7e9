package lasmerge

import (
	"context"
	"os"
	"time"

	"github.com/wgdzlh/lasmerge/log"

	"go.uber.org/zap"
)

type Merger struct {
	exec   Executor
	ws     *Workspace
	srid   int
	logTag string
}

func NewMerger(exec Executor, ws *Workspace, srid int) *Merger {
	return &Merger{
		exec:   exec,
		ws:     ws,
		srid:   srid,
		logTag: "Merger:",
	}
}

// 将所有裁剪结果合并为一个输出文件。输入为空时直接跳过；
// 合并失败时删除可能残留的输出，写入错误日志并返回merged=false；只有写保护违规返回err
func (m *Merger) Merge(ctx context.Context, subgrid string, cropped []string, out string, elog *ErrorLog) (merged bool, err error) {
	if len(cropped) == 0 {
		log.Info(m.logTag+"nothing to merge", zap.String("subgrid", subgrid))
		return
	}
	if out, err = m.ws.GuardPath(out); err != nil {
		return
	}
	start := time.Now()
	p, e := MergePipeline(cropped, out, m.srid)
	if e == nil {
		e = m.exec.Execute(ctx, p)
	}
	if e != nil {
		// 引擎可能已写出部分文件，残留的final文件会被当作已完成
		if rmErr := os.Remove(out); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn(m.logTag+"remove partial output failed", zap.String("out", out), zap.Error(rmErr))
		}
		log.Error(m.logTag+"merge failed", zap.String("subgrid", subgrid), zap.Error(e))
		elog.Appendf(ErrMergeTemplate, subgrid, e)
		return
	}
	merged = true
	log.Info(m.logTag+"merge done", zap.String("subgrid", subgrid), zap.String("out", out),
		zap.Int("inputs", len(cropped)), zap.Duration("elapsed", time.Since(start)))
	return
}
