package lasmerge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/wgdzlh/lasmerge/log"

	"go.uber.org/zap"
)

// 点云处理引擎：整条流水线要么全部成功，要么返回一个错误
type Executor interface {
	Execute(ctx context.Context, p Pipeline) error
}

// 通过 `pdal pipeline --stdin` 执行流水线
type PdalCli struct {
	bin    string
	logTag string
}

func NewPdalCli(bin string) *PdalCli {
	if bin == "" {
		bin = DEFAULT_PDAL_BIN
	}
	return &PdalCli{
		bin:    bin,
		logTag: "PdalCli:",
	}
}

func (c *PdalCli) Execute(ctx context.Context, p Pipeline) (err error) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.bin, "pipeline", "--stdin")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = &stderr
	start := time.Now()
	if err = cmd.Run(); err != nil {
		msg := lastLine(stderr.String())
		log.Error(c.logTag+"pipeline failed", zap.Error(err), zap.String("stderr", msg), zap.ByteString("pipeline", data))
		err = fmt.Errorf("%w: %v: %s", ErrPipelineExec, err, msg)
		return
	}
	log.Debug(c.logTag+"pipeline done", zap.Int("stages", len(p.stages)), zap.Duration("elapsed", time.Since(start)))
	return
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
