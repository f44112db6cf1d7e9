package lasmerge

import (
	"encoding/json"
	"fmt"
)

type StageKind string

const (
	StageRead  StageKind = PDAL_READER_LAS
	StageCrop  StageKind = PDAL_FILTER_CROP
	StageMerge StageKind = PDAL_FILTER_MERGE
	StageWrite StageKind = PDAL_WRITER_LAS
)

// PDAL流水线中的一个阶段
type Stage struct {
	Kind     StageKind
	Filename string // read/write
	Polygon  string // crop，WKT
	Srs      string // crop/write，如 EPSG:32748
}

type stageJson struct {
	Type     StageKind `json:"type"`
	Filename string    `json:"filename,omitempty"`
	Polygon  string    `json:"polygon,omitempty"`
	ASrs     string    `json:"a_srs,omitempty"`
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(stageJson{
		Type:     s.Kind,
		Filename: s.Filename,
		Polygon:  s.Polygon,
		ASrs:     s.Srs,
	})
}

// 不可变的流水线描述，作为一个整体提交给引擎执行
type Pipeline struct {
	stages []Stage
}

func (p Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

func (p Pipeline) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pipeline []Stage `json:"pipeline"`
	}{p.stages})
}

type PipelineBuilder struct {
	stages []Stage
}

func NewPipeline() *PipelineBuilder {
	return &PipelineBuilder{}
}

func (b *PipelineBuilder) Read(filename string) *PipelineBuilder {
	b.stages = append(b.stages, Stage{Kind: StageRead, Filename: filename})
	return b
}

func (b *PipelineBuilder) Crop(polygon, srs string) *PipelineBuilder {
	b.stages = append(b.stages, Stage{Kind: StageCrop, Polygon: polygon, Srs: srs})
	return b
}

func (b *PipelineBuilder) Merge() *PipelineBuilder {
	b.stages = append(b.stages, Stage{Kind: StageMerge})
	return b
}

func (b *PipelineBuilder) Write(filename, srs string) *PipelineBuilder {
	b.stages = append(b.stages, Stage{Kind: StageWrite, Filename: filename, Srs: srs})
	return b
}

// 至少以一个reader开头、以writer结尾
func (b *PipelineBuilder) Build() (p Pipeline, err error) {
	n := len(b.stages)
	if n < 2 || b.stages[0].Kind != StageRead || b.stages[n-1].Kind != StageWrite {
		err = ErrEmptyPipeline
		return
	}
	p.stages = append([]Stage(nil), b.stages...)
	return
}

func EpsgCode(srid int) string {
	return fmt.Sprintf("EPSG:%d", srid)
}

// 读取单个LAS -> 按边界多边形裁剪 -> 写出
func CropPipeline(in, polygon string, srid int, out string) (Pipeline, error) {
	srs := EpsgCode(srid)
	return NewPipeline().Read(in).Crop(polygon, srs).Write(out, srs).Build()
}

// 读取全部裁剪结果 -> 合并为一个点流 -> 写出
func MergePipeline(ins []string, out string, srid int) (Pipeline, error) {
	b := NewPipeline()
	for _, in := range ins {
		b.Read(in)
	}
	return b.Merge().Write(out, EpsgCode(srid)).Build()
}
