package model

// MapMetaData mirrors nav_msgs/MapMetaData. The origin pose relates grid
// cell (0,0) to the world frame.
type MapMetaData struct {
	Resolution float64 `json:"resolution"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Origin     Pose    `json:"origin"`
}

// OccupancyGrid mirrors nav_msgs/OccupancyGrid. Data holds one trinary
// occupancy value per cell in row-major order: 0 free, >0 occupied,
// <0 unknown.
type OccupancyGrid struct {
	Header Header      `json:"header"`
	Info   MapMetaData `json:"info"`
	Data   []int8      `json:"data"`
}
