package lasmerge

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// 子图幅边界：重投影到目标坐标系后的外包矩形及其WKT
type Boundary struct {
	Path  string    // 工作目录中的边界文件
	Srid  int       // 外包矩形所在坐标系
	Bound orb.Bound // minx,miny -> maxx,maxy
	Wkt   string    // 5点闭合环的POLYGON
}

func NewBoundary(path string, srid int, bound orb.Bound) Boundary {
	return Boundary{
		Path:  path,
		Srid:  srid,
		Bound: bound,
		Wkt:   BoundToWkt(bound),
	}
}

func PointsToWkt(x1, x2, y1, y2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", x1, x2, y1, y2)
}

// 外包矩形的WKT（5点闭合环），定点小数避免科学计数法
func BoundToWkt(b orb.Bound) string {
	return PointsToWkt(b.Min[0], b.Max[0], b.Min[1], b.Max[1])
}

// 点云瓦片：文件头声明的平面范围
type TileRecord struct {
	Name  string
	Path  string
	Bound orb.Bound
}

// 与边界相交的瓦片，按发现顺序保存，文件名唯一
type OverlapSet struct {
	tiles []TileRecord
	index map[string]int
}

func NewOverlapSet() *OverlapSet {
	return &OverlapSet{index: map[string]int{}}
}

// 加入瓦片，同名瓦片已存在时忽略并返回false
func (s *OverlapSet) Add(t TileRecord) bool {
	if _, ok := s.index[t.Name]; ok {
		return false
	}
	s.index[t.Name] = len(s.tiles)
	s.tiles = append(s.tiles, t)
	return true
}

func (s *OverlapSet) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *OverlapSet) path(name string) (path string, ok bool) {
	i, ok := s.index[name]
	if ok {
		path = s.tiles[i].Path
	}
	return
}

func (s *OverlapSet) Len() int {
	return len(s.tiles)
}

func (s *OverlapSet) Names() []string {
	names := make([]string, len(s.tiles))
	for i, t := range s.tiles {
		names[i] = t.Name
	}
	return names
}

func (s *OverlapSet) Tiles() []TileRecord {
	return append([]TileRecord(nil), s.tiles...)
}

// 单个瓦片的裁剪结果，Err非空即失败
type CropResult struct {
	Input  string
	Output string
	Err    error
}

type SubgridStatus string

const (
	StatusAlreadyDone SubgridStatus = "already-done"
	StatusNoBoundary  SubgridStatus = "no-boundary"
	StatusNoOverlap   SubgridStatus = "no-overlap"
	StatusNoCrops     SubgridStatus = "no-crops"
	StatusMerged      SubgridStatus = "merged"
	StatusMergeFailed SubgridStatus = "merge-failed"
	StatusFailed      SubgridStatus = "failed"
)

type SubgridReport struct {
	Subgrid  string
	Status   SubgridStatus
	Dir      string
	Output   string
	Overlaps int
	Skipped  int // 占位文件
	Staged   int
	Cropped  int
	Failed   int
	Elapsed  time.Duration
}

type BatchReport struct {
	RunId    string
	Subgrids []SubgridReport
	Errors   []string
}
