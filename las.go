package lasmerge

import (
	"fmt"

	"github.com/hongping1224/lidario"
	"github.com/paulmach/orb"
)

// 只读取点云文件头，返回其声明的平面范围
type HeaderReader interface {
	ReadBound(path string) (orb.Bound, error)
}

// 基于lidario的LAS头读取（"rh"模式不解码点记录）
type LidarioReader struct{}

func (LidarioReader) ReadBound(path string) (b orb.Bound, err error) {
	las, err := lidario.NewLasFile(path, "rh")
	if err != nil {
		return
	}
	defer las.Close()
	h := las.Header
	if h.MinX > h.MaxX || h.MinY > h.MaxY {
		err = fmt.Errorf("%w: %s", ErrInvalidLasHeader, path)
		return
	}
	b = orb.Bound{
		Min: orb.Point{h.MinX, h.MinY},
		Max: orb.Point{h.MaxX, h.MaxY},
	}
	return
}
