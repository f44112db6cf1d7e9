package lasmerge

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/wgdzlh/lasmerge/log"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

type GdalToolbox struct {
	refMap map[int]gdal.SpatialReference
	rLock  sync.Mutex
	logTag string
}

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

func NewGdalToolbox() *GdalToolbox {
	return &GdalToolbox{
		refMap: map[int]gdal.SpatialReference{},
		logTag: "GdalToolbox:",
	}
}

// 获取srid对应的坐标系（可复用，故无需回收）
func (g *GdalToolbox) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		return
	}
	// 固定为(x,y)/(经度,纬度)的传统GIS轴序，否则地理坐标系下转换后x/y会颠倒
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	g.refMap[srid] = ref
	return
}

func (g *GdalToolbox) getSrid(sp gdal.SpatialReference) (srid int, err error) {
	rawId, ok := sp.AttrValue("AUTHORITY", 1)
	if !ok {
		if e := sp.AutoIdentifyEPSG(); e == nil {
			rawId, ok = sp.AttrValue("AUTHORITY", 1)
		}
	}
	if !ok {
		wkt, _ := sp.ToWKT()
		log.Warn(g.logTag+"no authority in spatial ref", zap.String("wkt", wkt))
		err = ErrVoidSrid
		return
	}
	srid, err = strconv.Atoi(rawId)
	return
}

func (g *GdalToolbox) openVector(path string) (ds gdal.DataSource, err error) {
	driverName, ok := boundaryDrivers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		err = fmt.Errorf("%w: %s", ErrUnsupportedVector, path)
		return
	}
	driver := gdal.OGRDriverByName(driverName)
	if ds, ok = driver.Open(path, 0); !ok {
		log.Error(g.logTag+"open vector failed", zap.String("path", path), zap.String("driver", driverName))
		err = ErrGdalDriverOpen
	}
	return
}

// 读取边界文件的全部要素，逐个重投影到tSrid后求总外包矩形。
// 必须先投影再求外包，投影后的外包矩形不等于外包矩形的投影。
func (g *GdalToolbox) ResolveBoundary(path string, tSrid int) (ret Boundary, err error) {
	log.Info(g.logTag+"start resolve boundary", zap.String("path", path), zap.Int("srid", tSrid))
	tRef, err := g.getSridRef(tSrid)
	if err != nil {
		return
	}
	ds, err := g.openVector(path)
	if err != nil {
		return
	}
	defer ds.Destroy()

	var (
		bound   orb.Bound
		nGeo    int
		feature *gdal.Feature
		geo     gdal.Geometry
		srid    int
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for i, n := 0, ds.LayerCount(); i < n; i++ {
		layer := ds.LayerByIndex(i)
		if srid, err = g.getSrid(layer.SpatialReference()); err != nil {
			return
		}
		for {
			if feature = layer.NextFeature(); feature == nil {
				break
			}
			gc = append(gc, *feature)
			src := feature.Geometry()
			if src.IsEmpty() {
				continue
			}
			geo = src.Clone()
			gc = append(gc, geo)
			if srid != tSrid {
				if err = geo.TransformTo(tRef); err != nil {
					log.Error(g.logTag+"geo transform failed", zap.Int("from", srid), zap.Int("to", tSrid), zap.Error(err))
					return
				}
			}
			env := geo.Envelope()
			b := orb.Bound{
				Min: orb.Point{env.MinX(), env.MinY()},
				Max: orb.Point{env.MaxX(), env.MaxY()},
			}
			if nGeo == 0 {
				bound = b
			} else {
				bound = bound.Union(b)
			}
			nGeo++
		}
	}
	if nGeo == 0 {
		err = ErrEmptyBoundary
		return
	}
	ret = NewBoundary(path, tSrid, bound)
	log.Info(g.logTag+"boundary resolved", zap.String("path", path), zap.Int("features", nGeo), zap.String("wkt", ret.Wkt))
	return
}
