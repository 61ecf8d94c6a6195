package params

// CRS labels for logs and status reporting.
const (
	SourceCRS = "EPSG:27700"
	TargetCRS = "EPSG:4326"
)

// ProjPipeline is the PROJ transformation between the British National Grid
// and WGS84. Forward runs eastings/northings (meters) to longitude/latitude
// (degrees); inverse runs the other way. The helmert step carries the
// standard OSGB36 7-parameter datum shift, good to a few meters; no NTv2
// grid correction is applied.
const ProjPipeline = `
+proj=pipeline
+step +inv +proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy
+step +proj=cart +ellps=airy
+step +proj=helmert +x=446.448 +y=-125.157 +z=542.06 +rx=0.15 +ry=0.247 +rz=0.842 +s=-20.489 +convention=position_vector
+step +inv +proj=cart +ellps=WGS84
+step +proj=unitconvert +xy_in=rad +xy_out=deg
`
