package model

import (
	"math"
	"time"
)

// TimeStamp mirrors the ROS time representation carried in message headers.
type TimeStamp struct {
	Secs  uint32 `json:"secs"`
	Nsecs uint32 `json:"nsecs"`
}

// StampNow returns the current wall clock as a TimeStamp.
func StampNow() TimeStamp {
	now := time.Now()
	return TimeStamp{
		Secs:  uint32(now.Unix()),
		Nsecs: uint32(now.Nanosecond()),
	}
}

// Time converts the stamp back to a time.Time.
func (t TimeStamp) Time() time.Time {
	return time.Unix(int64(t.Secs), int64(t.Nsecs))
}

// Header mirrors std_msgs/Header.
type Header struct {
	Seq     uint32    `json:"seq"`
	Stamp   TimeStamp `json:"stamp"`
	FrameID string    `json:"frame_id"`
}

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the planar distance to another point.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Quaternion is a rotation in world coordinates.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityQuaternion returns the zero rotation.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// QuaternionFromYaw builds a unit quaternion rotating about the vertical axis.
func QuaternionFromYaw(yaw float64) Quaternion {
	return Quaternion{
		Z: math.Sin(yaw / 2),
		W: math.Cos(yaw / 2),
	}
}

// Yaw extracts the rotation about the vertical axis, discarding roll and
// pitch. The map origin transform is assumed to be a pure planar rotation
// plus translation, so the discarded components are zero in practice.
func (q Quaternion) Yaw() float64 {
	siny := 2 * (q.W*q.Z + q.X*q.Y)
	cosy := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	return math.Atan2(siny, cosy)
}

// Normalize scales the quaternion to unit length. The zero quaternion is
// normalized to the identity rotation.
func (q Quaternion) Normalize() Quaternion {
	n := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if n == 0 {
		return IdentityQuaternion()
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// Pose is a position plus orientation in world coordinates.
type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// PoseStamped mirrors geometry_msgs/PoseStamped.
type PoseStamped struct {
	Header Header `json:"header"`
	Pose   Pose   `json:"pose"`
}

// Path mirrors nav_msgs/Path, published by the planner once a global plan
// has been computed.
type Path struct {
	Header Header        `json:"header"`
	Poses  []PoseStamped `json:"poses"`
}
