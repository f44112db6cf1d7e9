package lasmerge

const (
	TARGET_SRID     = 32748 // WGS 84 / UTM zone 48S
	DEFAULT_WORKERS = 4

	FILE_EXT_LAS     = ".las"
	FILE_EXT_GEOJSON = ".geojson"
	FILE_EXT_SHP     = ".shp"
	FILE_EXT_GPKG    = ".gpkg"

	GEOJSON_DRIVER_NAME = "GeoJSON"
	SHP_DRIVER_NAME     = "ESRI Shapefile"
	GPKG_DRIVER_NAME    = "GPKG"

	FINAL_SUFFIX = "_final" + FILE_EXT_LAS
	CROP_PREFIX  = "CROP_"

	// 归一化（小写、空格转下划线）后包含该片段的LAS是未转换的占位文件，不参与裁剪
	CONVERT_SENTINEL = "_convert_to_las.las"

	DEFAULT_PROTECTED_ROOT = "Z:"
	DEFAULT_PDAL_BIN       = "pdal"

	PDAL_READER_LAS   = "readers.las"
	PDAL_FILTER_CROP  = "filters.crop"
	PDAL_FILTER_MERGE = "filters.merge"
	PDAL_WRITER_LAS   = "writers.las"

	ErrBoundaryTemplate = "Boundary failed for %s: %v"
	ErrScanTemplate     = "Scanning LAS archive failed for %s: %v"
	ErrStageTemplate    = "Staging failed for %s (%s): %v"
	ErrCropTemplate     = "Cropping failed for %s (%s): %v"
	ErrMergeTemplate    = "Merging failed for %s: %v"
)

var (
	// 可识别的边界矢量文件扩展名 -> OGR驱动
	boundaryDrivers = map[string]string{
		FILE_EXT_GEOJSON: GEOJSON_DRIVER_NAME,
		FILE_EXT_SHP:     SHP_DRIVER_NAME,
		FILE_EXT_GPKG:    GPKG_DRIVER_NAME,
	}

	BoundaryExts  = []string{FILE_EXT_GEOJSON, FILE_EXT_SHP, FILE_EXT_GPKG}
	ShpSidecarExt = []string{".shx", ".dbf", ".prj", ".cpg"}
	PointCloudExt = []string{FILE_EXT_LAS}
)
