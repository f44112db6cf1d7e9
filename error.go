package lasmerge

import "errors"

var (
	ErrGdalDriverOpen    = errors.New("gdal driver open err")
	ErrUnsupportedVector = errors.New("unsupported vector file")
	ErrVoidSrid          = errors.New("gdal layer with void srid")
	ErrEmptyBoundary     = errors.New("boundary has no geometry")
	ErrInvalidLasHeader  = errors.New("invalid LAS header bounds")
	ErrEmptyPipeline     = errors.New("pipeline needs at least one reader and one writer")
	ErrPipelineExec      = errors.New("pdal pipeline failed")
	ErrPolicyViolation   = errors.New("writing to a protected archive path is not allowed")
	ErrInvalidOptions    = errors.New("invalid options")
)
