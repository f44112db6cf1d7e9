package lasmerge

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// 假的PDAL引擎：crop写出"cropped(<输入内容>)"，merge把所有输入内容拼接写出
type fakeEngine struct {
	mu        sync.Mutex
	fail      map[string]bool // 读取到这些文件名时整条流水线失败
	delay     time.Duration
	mergeErr  error // 非空时merge先写出文件再返回该错误
	runs      []Pipeline
	active    int32
	maxActive int32
}

func newFakeEngine(fail ...string) *fakeEngine {
	e := &fakeEngine{fail: map[string]bool{}}
	for _, f := range fail {
		e.fail[f] = true
	}
	return e
}

func (e *fakeEngine) Execute(ctx context.Context, p Pipeline) error {
	cur := atomic.AddInt32(&e.active, 1)
	defer atomic.AddInt32(&e.active, -1)
	for {
		m := atomic.LoadInt32(&e.maxActive)
		if cur <= m || atomic.CompareAndSwapInt32(&e.maxActive, m, cur) {
			break
		}
	}
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	e.mu.Lock()
	e.runs = append(e.runs, p)
	e.mu.Unlock()

	stages := p.Stages()
	var (
		buf   bytes.Buffer
		crop  bool
		merge bool
	)
	for _, s := range stages {
		switch s.Kind {
		case StageRead:
			if e.fail[filepath.Base(s.Filename)] {
				return errors.New("boom: " + filepath.Base(s.Filename))
			}
			data, err := os.ReadFile(s.Filename)
			if err != nil {
				return err
			}
			buf.Write(data)
		case StageCrop:
			crop = true
		case StageMerge:
			merge = true
		}
	}
	out := buf.Bytes()
	if crop {
		out = []byte("cropped(" + buf.String() + ")")
	}
	if err := os.WriteFile(stages[len(stages)-1].Filename, out, 0644); err != nil {
		return err
	}
	if merge && e.mergeErr != nil {
		return e.mergeErr
	}
	return nil
}

func (e *fakeEngine) pipelines() []Pipeline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Pipeline(nil), e.runs...)
}

func (e *fakeEngine) count(kind StageKind) (n int) {
	for _, p := range e.pipelines() {
		for _, s := range p.Stages() {
			if s.Kind == kind {
				n++
				break
			}
		}
	}
	return
}
